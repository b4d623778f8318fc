// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package trace provides trace logging and console display for agent runs.
//
// Content blocks streamed from the agent runtime are rendered to the
// console as they arrive and accumulated into a markdown trace file for
// feedback loop analysis.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
)

// BlockKind identifies the type of a content block.
type BlockKind string

const (
	BlockThinking   BlockKind = "thinking"
	BlockText       BlockKind = "text"
	BlockToolUse    BlockKind = "tool_use"
	BlockToolResult BlockKind = "tool_result"
)

// Block is a single content block from an agent message.
type Block struct {
	Kind     BlockKind              `json:"kind"`
	Text     string                 `json:"text,omitempty"`
	ToolName string                 `json:"tool_name,omitempty"`
	Input    map[string]interface{} `json:"input,omitempty"`
	Content  string                 `json:"content,omitempty"`
}

// BlockInfo is display information extracted from a content block.
type BlockInfo struct {
	Emoji   string
	Label   string
	Content string
	IsCode  bool
}

// ExtractBlockInfo extracts display information from a content block.
func ExtractBlockInfo(block Block) BlockInfo {
	switch block.Kind {
	case BlockThinking:
		return BlockInfo{Emoji: "💭", Label: "Thinking", Content: block.Text}
	case BlockText:
		return BlockInfo{Emoji: "💬", Label: "Response", Content: block.Text}
	case BlockToolUse:
		content := ""
		if len(block.Input) > 0 {
			if data, err := json.MarshalIndent(block.Input, "", "  "); err == nil {
				content = string(data)
			}
		}
		return BlockInfo{Emoji: "🔧", Label: "Tool: " + block.ToolName, Content: content, IsCode: true}
	case BlockToolResult:
		return BlockInfo{Emoji: "📋", Label: "Result", Content: block.Content, IsCode: true}
	default:
		return BlockInfo{Emoji: "❓", Label: "Unknown", Content: block.Text}
	}
}

// PrintBlock writes a block's console representation to w.
func PrintBlock(w io.Writer, block Block) {
	info := ExtractBlockInfo(block)
	fmt.Fprintf(w, "%s %s\n", info.Emoji, info.Content)
}

// FormatMarkdown formats a content block as a markdown trace section.
func FormatMarkdown(block Block) string {
	info := ExtractBlockInfo(block)
	if info.IsCode {
		lang := ""
		if block.Kind == BlockToolUse {
			lang = "json"
		}
		return fmt.Sprintf("## %s %s\n\n```%s\n%s\n```\n", info.Emoji, info.Label, lang, info.Content)
	}
	return fmt.Sprintf("## %s %s\n\n%s\n", info.Emoji, info.Label, info.Content)
}
