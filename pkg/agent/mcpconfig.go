// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package agent

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// mcpServerEntry describes one server process in the MCP config file
// handed to the agent CLI.
type mcpServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// writeMCPConfig writes an MCP configuration pointing each tool server
// at a loop-mcp subprocess. The rw/ro directories travel as environment
// variables so the subprocess can rebuild the permission hooks.
func writeMCPConfig(path string, servers []*ToolServer, rwDir, roDir string) error {
	command := mcpCommand()
	entries := make(map[string]mcpServerEntry, len(servers))
	for _, server := range servers {
		entries[server.Name] = mcpServerEntry{
			Command: command,
			Env: map[string]string{
				"AGENT_LOOP_MCP_SERVER": server.Name,
				"AGENT_LOOP_RW_DIRS":    rwDir,
				"AGENT_LOOP_RO_DIRS":    roDir,
			},
		}
	}

	data, err := json.MarshalIndent(map[string]interface{}{"mcpServers": entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// mcpCommand locates the loop-mcp binary: an explicit override, then a
// sibling of the current executable, then PATH lookup by the CLI.
func mcpCommand() string {
	if path := os.Getenv("AGENT_LOOP_MCP_BIN"); path != "" {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "loop-mcp")
		if _, err := os.Stat(sibling); err == nil {
			return sibling
		}
	}
	return "loop-mcp"
}
