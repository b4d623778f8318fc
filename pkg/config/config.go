// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for agent-loop.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. User Config: $HOME/.config/agent-loop/config.yaml
// 3. Project Config: ./.agent-loop.yaml (searched upward from cwd)
// 4. Environment Variables: AGENT_LOOP_*
package config

import (
	"os"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Agent  AgentConfig  `yaml:"agent"`
	Cache  CacheConfig  `yaml:"cache"`
	Trace  TraceConfig  `yaml:"trace"`
	Keys   KeysConfig   `yaml:"keys"`
	Global GlobalConfig `yaml:"global"`
}

// AgentConfig contains agent runtime settings.
type AgentConfig struct {
	Model             string        `yaml:"model"`
	MaxThinkingTokens int           `yaml:"max_thinking_tokens"`
	MaxTurns          int           `yaml:"max_turns"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxCostUSD        float64       `yaml:"max_cost_usd"`    // 0 = unlimited
	PermissionMode    string        `yaml:"permission_mode"` // default, bypass
	RestrictedMode    bool          `yaml:"restricted_mode"`
}

// CacheConfig tunes the in-memory TTL cache for upstream calls.
type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl"`
	MaxSize    int           `yaml:"max_size"`
}

// TraceConfig controls where session traces are written.
type TraceConfig struct {
	NotesRoot string `yaml:"notes_root"` // root of the notes/ tree
}

// KeysConfig names the environment variables holding API keys.
// Keys themselves never appear in config files - only env var names.
type KeysConfig struct {
	SearchKeyEnv string `yaml:"search_key_env"` // e.g., "SEARCH_API_KEY"
	FetchKeyEnv  string `yaml:"fetch_key_env"`  // e.g., "FETCH_API_KEY"
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// SearchKey returns the search API key from the configured env var,
// or empty when unset.
func (k KeysConfig) SearchKey() string {
	if k.SearchKeyEnv == "" {
		return ""
	}
	return os.Getenv(k.SearchKeyEnv)
}

// FetchKey returns the fetch API key from the configured env var,
// or empty when unset.
func (k KeysConfig) FetchKey() string {
	if k.FetchKeyEnv == "" {
		return ""
	}
	return os.Getenv(k.FetchKeyEnv)
}
