// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"context"
	"fmt"
)

// ToolResult is the response returned by a tool handler.
type ToolResult struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// TextResult wraps plain text in a successful tool result.
func TextResult(text string) *ToolResult {
	return &ToolResult{Content: text}
}

// ErrorResult wraps an error message in a failed tool result.
func ErrorResult(message string) *ToolResult {
	return &ToolResult{Content: message, IsError: true}
}

// ToolHandler executes a tool call with its input parameters.
type ToolHandler func(ctx context.Context, input map[string]interface{}) (*ToolResult, error)

// Tool is a single tool exposed to the agent.
//
// The description is the agent's only documentation for the tool. A good
// description answers what the tool does, when the agent should use it,
// and why it exists; a terse one forces the agent to guess.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]string // parameter name -> type
	Handler     ToolHandler
}

// ToolServer groups tools under a named server. Tool names exposed to the
// agent become mcp__<server>__<tool>.
type ToolServer struct {
	Name    string
	Version string
	Tools   []Tool
}

// QualifiedName returns the fully qualified name for one of the server's
// tools.
func (s *ToolServer) QualifiedName(tool string) string {
	return fmt.Sprintf("mcp__%s__%s", s.Name, tool)
}

// Invoke dispatches a tool call to the named tool's handler.
func (s *ToolServer) Invoke(ctx context.Context, tool string, input map[string]interface{}) (*ToolResult, error) {
	for _, t := range s.Tools {
		if t.Name == tool {
			return t.Handler(ctx, input)
		}
	}
	return nil, fmt.Errorf("unknown tool %q on server %q", tool, s.Name)
}
