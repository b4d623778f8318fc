// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Command loop-mcp serves the agent's custom tools over MCP stdio.
//
// The loop CLI writes an MCP config pointing the agent runtime at this
// binary; every custom tool call the runtime makes dispatches through
// here, where the permission and allowlist hooks are enforced before a
// handler runs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
	"github.com/loop-ai-toolkit/agent-loop/pkg/agent/tools"
	"github.com/loop-ai-toolkit/agent-loop/pkg/cache"
	"github.com/loop-ai-toolkit/agent-loop/pkg/config"
	"github.com/loop-ai-toolkit/agent-loop/pkg/hooks"
	"github.com/loop-ai-toolkit/agent-loop/pkg/mcp"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Global.LogLevel),
	}))
	slog.SetDefault(logger)

	server, err := toolServer(cfg, os.Getenv("AGENT_LOOP_MCP_SERVER"))
	if err != nil {
		return err
	}

	policy := agent.NewToolPolicy(cfg, server)
	hookCfg := buildHooks(policy)

	slog.Info("Starting MCP server", "server", server.Name, "tools", len(server.Tools))
	return mcp.NewServer(server, hookCfg).ServeStdio(ctx, os.Stdin, os.Stdout)
}

// toolServer builds the tool server named by the MCP config entry.
func toolServer(cfg *config.Config, name string) (*agent.ToolServer, error) {
	switch name {
	case "", "example":
		return tools.NewExampleServer(tools.Options{
			Cache: cache.New(cfg.Cache.DefaultTTL, cfg.Cache.MaxSize),
		}), nil
	default:
		return nil, fmt.Errorf("unknown tool server: %s", name)
	}
}

// buildHooks rebuilds the session's hook config from the policy and the
// directory grants passed through the environment.
func buildHooks(policy *agent.ToolPolicy) hooks.Config {
	hookCfg := hooks.NewToolAllowlistHook(policy.AllowedTools())

	rwDirs := splitDirs(os.Getenv("AGENT_LOOP_RW_DIRS"))
	roDirs := splitDirs(os.Getenv("AGENT_LOOP_RO_DIRS"))
	if len(rwDirs) > 0 || len(roDirs) > 0 {
		hookCfg = hooks.Merge(hooks.NewPermissionHooks(rwDirs, roDirs), hookCfg)
	}

	return hooks.Merge(hookCfg, hooks.NewPostToolHooks())
}

func splitDirs(value string) []string {
	var dirs []string
	for _, dir := range strings.Split(value, string(os.PathListSeparator)) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
