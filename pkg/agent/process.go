// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/loop-ai-toolkit/agent-loop/pkg/errors"
	"github.com/loop-ai-toolkit/agent-loop/pkg/trace"
)

// validatePrompt checks if a prompt contains obviously problematic content.
// exec.Command with separate args prevents shell injection; this catches
// issues early with clear error messages.
func validatePrompt(prompt string) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if strings.Contains(prompt, "\x00") {
		return fmt.Errorf("prompt contains null bytes")
	}
	if len(prompt) > 1000000 { // 1MB limit
		return fmt.Errorf("prompt too large: %d bytes (max 1MB)", len(prompt))
	}
	return nil
}

// processRuntime implements Runtime using the agent CLI subprocess.
type processRuntime struct {
	cliPath  string
	closed   bool
	closeMux sync.Mutex
}

// NewProcessRuntime creates a Runtime backed by the agent CLI. It verifies
// the CLI is installed before returning.
func NewProcessRuntime(ctx context.Context, cliPath string) (Runtime, error) {
	if cliPath == "" {
		cliPath = "claude"
	}

	cmd := exec.CommandContext(ctx, cliPath, "--version")
	if err := cmd.Run(); err != nil {
		return nil, errors.AgentError(fmt.Sprintf("%s command not found. Please install the agent CLI", cliPath), err)
	}

	return &processRuntime{cliPath: cliPath}, nil
}

// resultEnvelope is the CLI's JSON output format.
type resultEnvelope struct {
	Type             string                 `json:"type"`
	Subtype          string                 `json:"subtype"`
	IsError          bool                   `json:"is_error"`
	Result           string                 `json:"result"`
	DurationMS       int64                  `json:"duration_ms"`
	TotalCostUSD     float64                `json:"total_cost_usd"`
	StructuredOutput map[string]interface{} `json:"structured_output"`
	Usage            *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Execute runs the agent CLI with the given options.
func (r *processRuntime) Execute(ctx context.Context, opts ExecuteOptions) (*Output, error) {
	if err := validatePrompt(opts.Prompt); err != nil {
		return nil, errors.ValidationError("invalid prompt", err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := r.buildArgs(opts)

	cmd := exec.CommandContext(ctx, r.cliPath, args...)
	env := opts.Env
	if opts.MaxThinkingTokens > 0 {
		env = append(env, fmt.Sprintf("MAX_THINKING_TOKENS=%d", opts.MaxThinkingTokens))
	}
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.TimeoutError("agent execution cancelled", ctx.Err())
		}
		return nil, errors.AgentError(
			fmt.Sprintf("agent execution failed: %s", strings.TrimSpace(stderr.String())), err)
	}

	output, err := parseResult(stdout.String())
	if err != nil {
		return nil, errors.AgentError("failed to parse agent output", err)
	}

	for _, block := range output.Blocks {
		if opts.OnBlock != nil {
			opts.OnBlock(block)
		}
	}

	return output, nil
}

// buildArgs constructs command line arguments from options.
func (r *processRuntime) buildArgs(opts ExecuteOptions) []string {
	// Print mode (headless/non-interactive), JSON result envelope
	args := []string{"-p", opts.Prompt, "--output-format", "json"}

	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	if opts.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(opts.MaxTurns))
	}
	if systemPrompt := appendSchemaPrompt(opts.SystemPrompt, opts.OutputSchema); systemPrompt != "" {
		args = append(args, "--append-system-prompt", systemPrompt)
	}
	if opts.PermissionMode == "bypass" {
		args = append(args, "--dangerously-skip-permissions")
	}
	if len(opts.AllowedTools) > 0 {
		args = append(args, "--allowed-tools", strings.Join(opts.AllowedTools, ","))
	}
	for _, dir := range opts.AddDirs {
		args = append(args, "--add-dir", dir)
	}
	if opts.MCPConfig != "" {
		args = append(args, "--mcp-config", opts.MCPConfig, "--strict-mcp-config")
	}

	return args
}

// appendSchemaPrompt carries the output schema into the system prompt.
// The CLI has no structured-output flag in print mode, so the schema
// rides along as an instruction and the result text is parsed back.
func appendSchemaPrompt(systemPrompt string, schema map[string]interface{}) string {
	if len(schema) == 0 {
		return systemPrompt
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return systemPrompt
	}
	section := "## Output Format\n\nRespond with a single JSON object conforming to this JSON Schema, with no surrounding text:\n\n" + string(data)
	if systemPrompt == "" {
		return section
	}
	return systemPrompt + "\n\n" + section
}

// parseResult decodes the CLI's JSON result envelope. Output that is not
// valid JSON is carried through as plain text.
func parseResult(raw string) (*Output, error) {
	output := &Output{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty agent output")
	}

	var envelope resultEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		// Plain-text output mode
		output.Result = trimmed
		output.Blocks = []trace.Block{{Kind: trace.BlockText, Text: trimmed}}
		return output, nil
	}

	output.Result = envelope.Result
	output.IsError = envelope.IsError
	output.DurationMS = envelope.DurationMS
	output.CostUSD = envelope.TotalCostUSD
	output.StructuredOutput = envelope.StructuredOutput
	if len(output.StructuredOutput) == 0 && envelope.Result != "" {
		// Schema-conforming runs emit the JSON object as result text.
		var structured map[string]interface{}
		if err := json.Unmarshal([]byte(envelope.Result), &structured); err == nil {
			output.StructuredOutput = structured
		}
	}
	if envelope.Usage != nil {
		output.Usage = &TokenUsage{
			InputTokens:  envelope.Usage.InputTokens,
			OutputTokens: envelope.Usage.OutputTokens,
			TotalTokens:  envelope.Usage.InputTokens + envelope.Usage.OutputTokens,
		}
	}
	if envelope.Result != "" {
		output.Blocks = []trace.Block{{Kind: trace.BlockText, Text: envelope.Result}}
	}

	return output, nil
}

// Close terminates the runtime.
func (r *processRuntime) Close() error {
	r.closeMux.Lock()
	defer r.closeMux.Unlock()
	r.closed = true
	return nil
}
