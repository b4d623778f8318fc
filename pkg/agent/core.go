// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/loop-ai-toolkit/agent-loop/pkg/config"
	"github.com/loop-ai-toolkit/agent-loop/pkg/errors"
	"github.com/loop-ai-toolkit/agent-loop/pkg/metrics"
	"github.com/loop-ai-toolkit/agent-loop/pkg/paths"
	"github.com/loop-ai-toolkit/agent-loop/pkg/trace"
)

// SessionStore persists session results for the feedback loop.
type SessionStore interface {
	Save(result *SessionResult) (string, error)
}

// RunOptions configures one agent session.
type RunOptions struct {
	// SessionID identifies the session; a UUID is generated when empty.
	SessionID string

	// TaskID optionally groups sessions by task.
	TaskID string

	// TaskType selects extra prompt guidance (binary, numeric).
	TaskType string

	// Layout resolves trace paths; defaults to the configured notes root.
	Layout *paths.Layout

	// Store persists the session result when set.
	Store SessionStore

	// Metrics records tool invocations; defaults to the process registry.
	Metrics *metrics.Registry

	// Servers are the tool servers to expose, subject to policy. They are
	// served to the runtime through an MCP config written per session.
	Servers []*ToolServer

	// Console receives streamed block output; defaults to no output.
	Console io.Writer
}

// RunAgent runs one agent session on a task and records its trace.
func RunAgent(ctx context.Context, rt Runtime, cfg *config.Config, task string, opts RunOptions) (*SessionResult, error) {
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	slog.Info("Starting session", "session_id", sessionID, "model", cfg.Agent.Model)

	reg := opts.Metrics
	if reg == nil {
		reg = metrics.Default()
	}
	reg.Reset()

	layout := opts.Layout
	if layout == nil {
		layout = paths.NewLayout(cfg.Trace.NotesRoot)
	}

	console := opts.Console
	if console == nil {
		console = discardConsole
	}

	now := time.Now()

	taskID := opts.TaskID
	if taskID == "" {
		taskID = "0"
	}
	outputDir := filepath.Join(layout.OutputsDir(""), taskID, paths.Timestamp(now))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.AgentError("failed to create output directory", err)
	}

	tracePath := filepath.Join(layout.TraceLogsDir(""), sessionID, paths.Timestamp(now)+".md")
	traceLogger := trace.NewLogger(tracePath, "Session "+sessionID)

	policy := NewToolPolicy(cfg, opts.Servers...)

	// Custom tools dispatch through loop-mcp subprocesses, which rebuild
	// the permission and allowlist hooks from this config's environment.
	mcpConfigPath := ""
	if len(opts.Servers) > 0 {
		mcpConfigPath = filepath.Join(outputDir, "mcp_config.json")
		if err := writeMCPConfig(mcpConfigPath, opts.Servers, outputDir, layout.Root()); err != nil {
			return nil, errors.AgentError("failed to write MCP config", err)
		}
	}

	var extraSections []string
	if guidance := TaskGuidance(opts.TaskType); guidance != "" {
		extraSections = append(extraSections, guidance)
	}
	systemPrompt := SystemPrompt(PromptOptions{
		Date:          now,
		ExtraSections: extraSections,
		ToolServers:   policy.ToolServers(),
	})

	var collected []string
	var blocks []trace.Block

	output, err := rt.Execute(ctx, ExecuteOptions{
		Prompt:            task,
		SystemPrompt:      systemPrompt,
		Model:             cfg.Agent.Model,
		MaxTurns:          cfg.Agent.MaxTurns,
		MaxThinkingTokens: cfg.Agent.MaxThinkingTokens,
		Timeout:           cfg.Agent.Timeout,
		PermissionMode:    cfg.Agent.PermissionMode,
		AllowedTools:      policy.AllowedTools(),
		AddDirs:           []string{outputDir, layout.Root()},
		MCPConfig:         mcpConfigPath,
		OutputSchema:      OutputSchema(),
		OnBlock: func(block trace.Block) {
			trace.PrintBlock(console, block)
			traceLogger.LogBlock(block)
			blocks = append(blocks, block)
			if block.Kind == trace.BlockText {
				collected = append(collected, block.Text)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	if output.IsError {
		return nil, errors.AgentError(fmt.Sprintf("agent error: %s", output.Result), nil)
	}
	if cfg.Agent.MaxCostUSD > 0 && output.CostUSD > cfg.Agent.MaxCostUSD {
		return nil, errors.BudgetError(
			fmt.Sprintf("session cost $%.4f exceeds budget $%.4f", output.CostUSD, cfg.Agent.MaxCostUSD), nil)
	}

	if _, err := traceLogger.Save(); err != nil {
		slog.Warn("Failed to save trace", "error", err)
	}

	reg.LogSummary()

	agentOutput := AgentOutput{Summary: "No output produced", Confidence: 0.5}
	if len(output.StructuredOutput) > 0 {
		if err := decodeOutput(output.StructuredOutput, &agentOutput); err != nil {
			slog.Warn("Failed to decode structured output", "error", err)
		}
	}

	reasoning := ""
	for _, text := range collected {
		reasoning += text
	}

	result := &SessionResult{
		SessionID:        sessionID,
		TaskID:           opts.TaskID,
		Timestamp:        now.Format(time.RFC3339),
		Output:           agentOutput,
		Reasoning:        reasoning,
		SourcesConsulted: extractSources(blocks),
		DurationSeconds:  float64(output.DurationMS) / 1000,
		CostUSD:          output.CostUSD,
		TokenUsage:       output.Usage,
		ToolMetrics:      reg.Summary(),
	}

	if opts.Store != nil {
		if _, err := opts.Store.Save(result); err != nil {
			return nil, errors.AgentError("failed to save session", err)
		}
	}

	slog.Info("Session completed",
		"session_id", sessionID,
		"cost_usd", result.CostUSD,
		"duration_seconds", result.DurationSeconds,
	)

	return result, nil
}

// decodeOutput converts the runtime's structured output map into an
// AgentOutput via JSON round-trip.
func decodeOutput(structured map[string]interface{}, out *AgentOutput) error {
	data, err := json.Marshal(structured)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// extractSources collects URLs and queries from web tool use blocks.
func extractSources(blocks []trace.Block) []string {
	var sources []string
	for _, block := range blocks {
		if block.Kind != trace.BlockToolUse {
			continue
		}
		if block.ToolName != "WebSearch" && block.ToolName != "WebFetch" {
			continue
		}
		if url, ok := block.Input["url"].(string); ok && url != "" {
			sources = append(sources, url)
			continue
		}
		if query, ok := block.Input["query"].(string); ok && query != "" {
			sources = append(sources, query)
		}
	}
	return sources
}
