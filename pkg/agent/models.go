// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"github.com/loop-ai-toolkit/agent-loop/pkg/metrics"
)

// AgentOutput is the structured output the agent is asked to produce.
type AgentOutput struct {
	Summary    string   `json:"summary"`
	Factors    []string `json:"factors"`
	Confidence float64  `json:"confidence"`
}

// TokenUsage contains token usage statistics for a session.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// SessionResult captures everything recorded about one agent session.
// The feedback loop scripts read these from the trace store.
type SessionResult struct {
	SessionID        string                       `json:"session_id"`
	TaskID           string                       `json:"task_id,omitempty"`
	Timestamp        string                       `json:"timestamp"`
	Output           AgentOutput                  `json:"output"`
	Reasoning        string                       `json:"reasoning,omitempty"`
	SourcesConsulted []string                     `json:"sources_consulted,omitempty"`
	DurationSeconds  float64                      `json:"duration_seconds,omitempty"`
	CostUSD          float64                      `json:"cost_usd,omitempty"`
	TokenUsage       *TokenUsage                  `json:"token_usage,omitempty"`
	ToolMetrics      map[string]metrics.ToolStats `json:"tool_metrics,omitempty"`
	Outcome          string                       `json:"outcome,omitempty"`
	SubmittedAt      string                       `json:"submitted_at,omitempty"`
}

// OutputSchema returns the JSON schema the runtime enforces on the agent's
// structured output.
func OutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Brief summary of the decision or output",
			},
			"factors": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Key factors that influenced the reasoning",
			},
			"confidence": map[string]interface{}{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "Confidence level between 0 and 1",
			},
		},
		"required": []string{"summary", "confidence"},
	}
}
