// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default config file names to search for
var defaultConfigFiles = []string{
	".agent-loop.yaml",
	".agent-loop.yml",
	"agent-loop.yaml",
	"agent-loop.yml",
}

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// LoadDefault searches for and loads configuration from default locations
// Search order:
// 1. Current directory
// 2. Parent directories (up to root)
// 3. User config directory (.config/agent-loop/)
func LoadDefault() (*Config, error) {
	if cfg, err := findInParents("."); err == nil {
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(homeDir, ".config", "agent-loop", "config.yaml")
		if cfg, err := Load(userConfigPath); err == nil {
			return cfg, nil
		}
	}

	// No config found - return defaults with env overrides applied
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromEnv loads config from environment variable path
// AGENT_LOOP_CONFIG can override the config file path
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("AGENT_LOOP_CONFIG"); path != "" {
		return Load(path)
	}
	return LoadDefault()
}

// findInParents searches for config file in current directory and parent directories
func findInParents(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, name := range defaultConfigFiles {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return Load(candidate)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no config file found")
		}
		dir = parent
	}
}

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero-valued fields with built-in defaults.
func applyDefaults(cfg *Config) {
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = "sonnet"
	}
	if cfg.Agent.MaxThinkingTokens == 0 {
		cfg.Agent.MaxThinkingTokens = 63999
	}
	if cfg.Agent.MaxTurns == 0 {
		cfg.Agent.MaxTurns = 50
	}
	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = 600 * time.Second
	}
	if cfg.Agent.PermissionMode == "" {
		cfg.Agent.PermissionMode = "bypass"
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 300 * time.Second
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 500
	}
	if cfg.Trace.NotesRoot == "" {
		cfg.Trace.NotesRoot = "notes"
	}
	if cfg.Global.LogLevel == "" {
		cfg.Global.LogLevel = "info"
	}
}

// applyEnvOverrides applies AGENT_LOOP_* environment variables.
// These take highest priority and override file-based config.
func applyEnvOverrides(cfg *Config) {
	if model := os.Getenv("AGENT_LOOP_MODEL"); model != "" {
		cfg.Agent.Model = model
	}
	if level := os.Getenv("AGENT_LOOP_LOG_LEVEL"); level != "" {
		cfg.Global.LogLevel = level
	}
	if root := os.Getenv("AGENT_LOOP_NOTES_ROOT"); root != "" {
		cfg.Trace.NotesRoot = root
	}
	if timeout := os.Getenv("AGENT_LOOP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Agent.Timeout = d
		}
	}
}
