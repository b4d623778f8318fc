// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent_test

import (
	"strings"
	"testing"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
)

func TestSystemPromptDateSubstitution(t *testing.T) {
	date := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	prompt := agent.SystemPrompt(agent.PromptOptions{Date: date})

	if !strings.Contains(prompt, "2026-03-15") {
		t.Errorf("Expected date in prompt, got %q", prompt)
	}
	if strings.Contains(prompt, "{date}") {
		t.Error("Expected {date} placeholder to be substituted")
	}
}

func TestSystemPromptSections(t *testing.T) {
	prompt := agent.SystemPrompt(agent.PromptOptions{})

	for _, heading := range []string{"## Your Task", "## Output Format", "## Guidelines"} {
		if !strings.Contains(prompt, heading) {
			t.Errorf("Expected section %q in prompt", heading)
		}
	}
}

func TestSystemPromptExtraSections(t *testing.T) {
	prompt := agent.SystemPrompt(agent.PromptOptions{
		ExtraSections: []string{"## Custom Section\n\nExtra guidance."},
	})
	if !strings.Contains(prompt, "## Custom Section") {
		t.Error("Expected extra section in prompt")
	}
	// Extra sections come after the defaults.
	if strings.Index(prompt, "## Custom Section") < strings.Index(prompt, "## Guidelines") {
		t.Error("Expected extra section after default sections")
	}
}

func TestGenerateToolDocs(t *testing.T) {
	servers := []*agent.ToolServer{
		{
			Name: "zeta",
			Tools: []agent.Tool{
				{Name: "b_tool", Description: "does b things"},
			},
		},
		{
			Name: "alpha",
			Tools: []agent.Tool{
				{Name: "a_tool", Description: "does a things"},
				{Name: "undocumented"},
			},
		},
	}

	docs := agent.GenerateToolDocs(servers)

	if !strings.Contains(docs, "## Auto-Generated Tool Reference") {
		t.Error("Expected tool reference heading")
	}
	if strings.Index(docs, "### Alpha") > strings.Index(docs, "### Zeta") {
		t.Error("Expected servers sorted by name")
	}
	if !strings.Contains(docs, "- **a_tool**: does a things") {
		t.Errorf("Expected described tool entry, got %q", docs)
	}
	if !strings.Contains(docs, "- **undocumented**") {
		t.Errorf("Expected bare entry for undocumented tool, got %q", docs)
	}
}

func TestGenerateToolDocsSkipsEmptyServers(t *testing.T) {
	docs := agent.GenerateToolDocs([]*agent.ToolServer{{Name: "empty"}})
	if strings.Contains(docs, "Empty") {
		t.Errorf("Expected empty server skipped, got %q", docs)
	}
}

func TestTaskGuidance(t *testing.T) {
	if g := agent.TaskGuidance("binary"); !strings.Contains(g, "Binary Decision") {
		t.Errorf("Expected binary guidance, got %q", g)
	}
	if g := agent.TaskGuidance("numeric"); !strings.Contains(g, "Numeric Estimation") {
		t.Errorf("Expected numeric guidance, got %q", g)
	}
	if g := agent.TaskGuidance("unknown"); g != "" {
		t.Errorf("Expected empty guidance for unknown type, got %q", g)
	}
}

func TestSystemPromptToolReference(t *testing.T) {
	prompt := agent.SystemPrompt(agent.PromptOptions{
		ToolServers: []*agent.ToolServer{
			{Name: "example", Tools: []agent.Tool{{Name: "search", Description: "searches"}}},
		},
	})
	if !strings.Contains(prompt, "## Auto-Generated Tool Reference") {
		t.Error("Expected tool reference appended to prompt")
	}
}
