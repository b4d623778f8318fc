// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"sort"

	"github.com/loop-ai-toolkit/agent-loop/pkg/config"
)

// BuiltinTools are the runtime's built-in tools, always available.
var BuiltinTools = []string{
	"WebSearch",
	"WebFetch",
	"Read",
	"Write",
	"Glob",
	"Grep",
	"Bash",
	"Task",
	"TodoRead",
	"TodoWrite",
}

// Tool sets grouped by the API key they depend on. Grouping makes it clear
// which tools degrade when a key is missing.

// SearchTools require the search API key.
var SearchTools = []string{
	"mcp__example__search",
}

// FetchTools require the fetch API key.
var FetchTools = []string{
	"mcp__example__fetch",
}

// ToolPolicy is the centralized policy for tool availability.
//
// Availability is determined at construction from:
//   - API key availability (from settings)
//   - restricted mode (excludes live-data tools)
type ToolPolicy struct {
	restrictedMode bool
	excluded       map[string]struct{}
	servers        []*ToolServer
}

// NewToolPolicy computes tool availability from settings.
func NewToolPolicy(cfg *config.Config, servers ...*ToolServer) *ToolPolicy {
	excluded := make(map[string]struct{})

	if cfg.Keys.SearchKey() == "" {
		for _, tool := range SearchTools {
			excluded[tool] = struct{}{}
		}
	}
	if cfg.Keys.FetchKey() == "" || cfg.Agent.RestrictedMode {
		for _, tool := range FetchTools {
			excluded[tool] = struct{}{}
		}
	}

	return &ToolPolicy{
		restrictedMode: cfg.Agent.RestrictedMode,
		excluded:       excluded,
		servers:        servers,
	}
}

// RestrictedMode reports whether the policy was built in restricted mode.
func (p *ToolPolicy) RestrictedMode() bool {
	return p.restrictedMode
}

// ToolServers returns the tool servers to register, filtered by policy.
// Servers whose tools are all excluded are dropped entirely.
func (p *ToolPolicy) ToolServers() []*ToolServer {
	var servers []*ToolServer
	for _, server := range p.servers {
		available := 0
		for _, tool := range server.Tools {
			if p.IsToolAvailable(server.QualifiedName(tool.Name)) {
				available++
			}
		}
		if available > 0 {
			servers = append(servers, server)
		}
	}
	return servers
}

// AllowedTools returns the sorted list of tools allowed under this policy.
func (p *ToolPolicy) AllowedTools() []string {
	set := make(map[string]struct{})

	for _, tool := range BuiltinTools {
		set[tool] = struct{}{}
	}
	for _, tool := range SearchTools {
		set[tool] = struct{}{}
	}
	for _, tool := range FetchTools {
		set[tool] = struct{}{}
	}
	for _, server := range p.servers {
		for _, tool := range server.Tools {
			set[server.QualifiedName(tool.Name)] = struct{}{}
		}
	}

	for tool := range p.excluded {
		delete(set, tool)
	}

	allowed := make([]string, 0, len(set))
	for tool := range set {
		allowed = append(allowed, tool)
	}
	sort.Strings(allowed)
	return allowed
}

// IsToolAvailable reports whether a tool is available under this policy.
func (p *ToolPolicy) IsToolAvailable(name string) bool {
	_, excluded := p.excluded[name]
	return !excluded
}
