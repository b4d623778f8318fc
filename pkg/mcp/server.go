// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package mcp provides an MCP (Model Context Protocol) stdio server.
//
// The agent CLI subprocess dispatches custom tool calls back into this
// process over stdio JSON-RPC. Tool calls pass through the permission
// hooks before reaching their handlers, so hook decisions are enforced
// at the boundary the runtime actually crosses.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
	"github.com/loop-ai-toolkit/agent-loop/pkg/hooks"
)

const protocolVersion = "2024-11-05"

// maxLineBytes bounds a single JSON-RPC message.
const maxLineBytes = 10 * 1024 * 1024

// request is an incoming JSON-RPC message. A missing id marks a
// notification, which gets no response.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Server serves one tool server's tools over stdio, gated by hooks.
type Server struct {
	tools *agent.ToolServer
	hooks hooks.Config
}

// NewServer creates an MCP server over the given tool server. Tool calls
// are evaluated against hookCfg before and after dispatch.
func NewServer(tools *agent.ToolServer, hookCfg hooks.Config) *Server {
	return &Server{tools: tools, hooks: hookCfg}
}

// ServeStdio reads line-delimited JSON-RPC requests from r and writes
// responses to w until r is exhausted or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}}); err != nil {
				return err
			}
			continue
		}

		resp := s.handle(ctx, &req)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req *request) *response {
	if len(req.ID) == 0 {
		// Notification (e.g. notifications/initialized) - no response.
		return nil
	}

	switch req.Method {
	case "initialize":
		return s.result(req, map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo": map[string]interface{}{
				"name":    s.tools.Name,
				"version": s.tools.Version,
			},
		})

	case "ping":
		return s.result(req, map[string]interface{}{})

	case "tools/list":
		return s.result(req, map[string]interface{}{"tools": s.listTools()})

	case "tools/call":
		return s.handleToolCall(ctx, req)

	default:
		return s.error(req, -32601, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) listTools() []toolInfo {
	infos := make([]toolInfo, 0, len(s.tools.Tools))
	for _, tool := range s.tools.Tools {
		properties := make(map[string]interface{}, len(tool.InputSchema))
		for name, typ := range tool.InputSchema {
			properties[name] = map[string]interface{}{"type": typ}
		}
		infos = append(infos, toolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": properties,
			},
		})
	}
	return infos
}

func (s *Server) handleToolCall(ctx context.Context, req *request) *response {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.error(req, -32602, "invalid params")
	}

	qualified := s.tools.QualifiedName(params.Name)

	decision := s.hooks.Evaluate(ctx, &hooks.ToolEvent{
		Event:    hooks.EventPreToolUse,
		ToolName: qualified,
		Input:    params.Arguments,
	})
	if decision.Behavior == hooks.BehaviorDeny {
		slog.Warn("Tool call denied", "tool", qualified, "reason", decision.Reason)
		return s.result(req, toolResult{
			Content: []textContent{{Type: "text", Text: "Permission denied: " + decision.Reason}},
			IsError: true,
		})
	}

	result, err := s.tools.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.error(req, -32603, fmt.Sprintf("call failed: %v", err))
	}

	content := []textContent{{Type: "text", Text: result.Content}}

	post := s.hooks.Evaluate(ctx, &hooks.ToolEvent{
		Event:    hooks.EventPostToolUse,
		ToolName: qualified,
		Response: result.Content,
	})
	if post.SystemMessage != "" {
		content = append(content, textContent{Type: "text", Text: post.SystemMessage})
	}

	return s.result(req, toolResult{Content: content, IsError: result.IsError})
}

func (s *Server) result(req *request, result interface{}) *response {
	return &response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) error(req *request, code int, message string) *response {
	return &response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: code, Message: message}}
}
