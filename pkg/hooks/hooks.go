// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package hooks provides tool-permission hooks for agent sessions.
//
// Hooks intercept tool events before and after execution. PreToolUse hooks
// return allow/deny decisions; PostToolUse hooks can inject system messages
// based on tool responses. Hook configurations compose with Merge.
package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// EventType represents the event that triggers a hook.
type EventType string

const (
	EventPreToolUse       EventType = "PreToolUse"
	EventPostToolUse      EventType = "PostToolUse"
	EventUserPromptSubmit EventType = "UserPromptSubmit"
	EventStop             EventType = "Stop"
)

// Behavior is the outcome of a hook decision.
type Behavior string

const (
	// BehaviorAllow explicitly permits the tool call.
	BehaviorAllow Behavior = "allow"
	// BehaviorDeny blocks the tool call with a reason.
	BehaviorDeny Behavior = "deny"
	// BehaviorPass defers to other hooks and the default policy.
	BehaviorPass Behavior = "pass"
)

// Decision is a hook's verdict on a tool event.
type Decision struct {
	Behavior      Behavior
	Reason        string
	SystemMessage string
}

// Allow returns an explicit allow decision.
func Allow() Decision {
	return Decision{Behavior: BehaviorAllow}
}

// Deny returns a deny decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Behavior: BehaviorDeny, Reason: reason}
}

// Pass returns a neutral decision deferring to other hooks.
func Pass() Decision {
	return Decision{Behavior: BehaviorPass}
}

// ToolEvent describes a tool invocation flowing through the hooks.
type ToolEvent struct {
	Event    EventType
	ToolName string
	Input    map[string]interface{}
	Response string
}

// HookFunc is called for each matching tool event.
type HookFunc func(ctx context.Context, event *ToolEvent) Decision

// Config maps hook events to the hooks invoked for them.
type Config map[EventType][]HookFunc

// Merge combines two hook configurations. For each event type the base
// hooks run first, then the additional ones.
func Merge(base, additional Config) Config {
	merged := make(Config, len(base)+len(additional))
	for event, fns := range base {
		merged[event] = append([]HookFunc(nil), fns...)
	}
	for event, fns := range additional {
		merged[event] = append(merged[event], fns...)
	}
	return merged
}

// Evaluate runs the hooks registered for the event's type, in order.
// The first deny wins. System messages from passing hooks accumulate.
// With no registered hooks, or only passing ones, the event is allowed.
func (c Config) Evaluate(ctx context.Context, event *ToolEvent) Decision {
	var messages []string
	for _, hook := range c[event.Event] {
		decision := hook(ctx, event)
		if decision.Behavior == BehaviorDeny {
			return decision
		}
		if decision.SystemMessage != "" {
			messages = append(messages, decision.SystemMessage)
		}
	}
	return Decision{Behavior: BehaviorAllow, SystemMessage: strings.Join(messages, "\n")}
}

// pathIsUnder reports whether path is inside any of the given directories.
func pathIsUnder(path string, dirs []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, abs)
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)) {
			return true
		}
	}
	return false
}

// NewPermissionHooks creates hooks with directory-based access control:
//
//   - Write/Edit: only allowed in rwDirs
//   - Read: allowed in rwDirs + roDirs
//   - Glob/Grep: allowed in rwDirs + roDirs, and a path is required
//   - Other tools: allowed (filtered separately by the tool allowlist)
func NewPermissionHooks(rwDirs, roDirs []string) Config {
	allReadable := append(append([]string(nil), rwDirs...), roDirs...)

	permissionHook := func(ctx context.Context, event *ToolEvent) Decision {
		if event.Event != EventPreToolUse {
			return Pass()
		}

		switch event.ToolName {
		case "Write", "Edit":
			path, _ := event.Input["file_path"].(string)
			if path == "" {
				return Pass()
			}
			if pathIsUnder(path, rwDirs) {
				return Allow()
			}
			return Deny(fmt.Sprintf("%s denied. Allowed: %v", event.ToolName, rwDirs))

		case "Read":
			path, _ := event.Input["file_path"].(string)
			if path == "" {
				return Pass()
			}
			if pathIsUnder(path, allReadable) {
				return Allow()
			}
			return Deny(fmt.Sprintf("Read denied. Allowed: %v", allReadable))

		case "Glob", "Grep":
			path, _ := event.Input["path"].(string)
			if path == "" {
				return Deny(fmt.Sprintf("Path required for %s. Specify path in: %v", event.ToolName, allReadable))
			}
			if pathIsUnder(path, allReadable) {
				return Allow()
			}
			return Deny(fmt.Sprintf("%s denied. Allowed: %v", event.ToolName, allReadable))

		default:
			return Allow()
		}
	}

	return Config{
		EventPreToolUse: []HookFunc{permissionHook},
	}
}

// NewToolAllowlistHook creates a PreToolUse hook restricting the agent to
// the allowed tools. Use this instead of relying on the runtime's allowed
// tools option, which is ignored when permissions are bypassed.
func NewToolAllowlistHook(allowed []string) Config {
	set := make(map[string]struct{}, len(allowed))
	for _, tool := range allowed {
		set[tool] = struct{}{}
	}

	allowlistHook := func(ctx context.Context, event *ToolEvent) Decision {
		if event.Event != EventPreToolUse {
			return Pass()
		}
		if _, ok := set[event.ToolName]; ok {
			return Allow()
		}
		return Deny(fmt.Sprintf("Tool '%s' not in allowed list.", event.ToolName))
	}

	return Config{
		EventPreToolUse: []HookFunc{allowlistHook},
	}
}

// NewPostToolHooks creates PostToolUse hooks for response inspection.
// Fetch responses that look like unrendered JS pages trigger a system
// message suggesting a different approach.
func NewPostToolHooks() Config {
	postHook := func(ctx context.Context, event *ToolEvent) Decision {
		if event.Event != EventPostToolUse {
			return Pass()
		}

		if event.ToolName == "WebFetch" || event.ToolName == "mcp__example__fetch" {
			content := event.Response
			if len(content) < 100 && strings.Contains(strings.ToLower(content), "loading") {
				return Decision{
					Behavior: BehaviorPass,
					SystemMessage: "The fetch response appears to be a JS-rendered page " +
						"that didn't load properly. Consider using a different tool or URL.",
				}
			}
		}

		return Pass()
	}

	return Config{
		EventPostToolUse: []HookFunc{postHook},
	}
}
