// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Prompt sections are composed at render time so callers can add, remove,
// or reorder them. Tools self-document via their descriptions; listing
// them in the prompt would create a second source of truth that drifts as
// tools change.

const promptIntro = `You are an AI agent. Today's date is {date}.`

const promptPurpose = `## Your Task

Work through the task you are given using the available tools, and report
what you conclude.`

const promptOutputFormat = `## Output Format

Provide your output as structured JSON with:
- **summary**: Brief summary of your decision/output
- **factors**: Key factors that influenced your reasoning
- **confidence**: Your confidence level (0.0-1.0)`

const promptGuidelines = `## Guidelines

1. Think step by step
2. Use your available tools to gather information before reasoning
3. Be explicit about uncertainty
4. Document your reasoning`

// promptSections is the default section order.
var promptSections = []string{
	promptIntro,
	promptPurpose,
	promptOutputFormat,
	promptGuidelines,
}

// PromptOptions customizes system prompt rendering.
type PromptOptions struct {
	// Date is used as "today"; zero means the current date.
	Date time.Time
	// ExtraSections are appended after the default sections.
	ExtraSections []string
	// ToolServers, when set, appends an auto-generated tool reference.
	ToolServers []*ToolServer
}

// SystemPrompt composes the system prompt from its sections.
func SystemPrompt(opts PromptOptions) string {
	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	sections := append(append([]string(nil), promptSections...), opts.ExtraSections...)

	prompt := strings.Join(sections, "\n\n")
	prompt = strings.ReplaceAll(prompt, "{date}", date.Format("2006-01-02"))

	if len(opts.ToolServers) > 0 {
		prompt += "\n\n" + GenerateToolDocs(opts.ToolServers)
	}

	return prompt + "\n"
}

// GenerateToolDocs builds a tool reference from tool server descriptions.
//
// Tool descriptions are the single source of truth for what each tool
// does, when to use it, and why it exists. They pass through untruncated;
// comprehensive descriptions are intentional.
func GenerateToolDocs(servers []*ToolServer) string {
	lines := []string{"## Auto-Generated Tool Reference\n"}

	sorted := append([]*ToolServer(nil), servers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, server := range sorted {
		if len(server.Tools) == 0 {
			continue
		}

		lines = append(lines, fmt.Sprintf("### %s\n", titleCase(server.Name)))

		for _, tool := range server.Tools {
			if tool.Description != "" {
				lines = append(lines, fmt.Sprintf("- **%s**: %s", tool.Name, tool.Description))
			} else {
				lines = append(lines, fmt.Sprintf("- **%s**", tool.Name))
			}
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const binaryGuidance = `## Binary Decision Guidance

Consider:
- What happens if nothing changes (status quo)?
- Strongest argument FOR this outcome
- Strongest argument AGAINST this outcome

Output probability as a decimal between 0.01 and 0.99.
`

const numericGuidance = `## Numeric Estimation Guidance

Consider:
- Current value and recent trend
- Historical range and volatility
- Expert/market expectations
- Scenarios for low and high outcomes

Provide estimates at multiple confidence levels.
`

// TaskGuidance returns task-type-specific prompt guidance, or empty for
// unknown task types.
func TaskGuidance(taskType string) string {
	switch taskType {
	case "binary":
		return binaryGuidance
	case "numeric":
		return numericGuidance
	default:
		return ""
	}
}
