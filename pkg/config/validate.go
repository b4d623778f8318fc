// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"strings"
)

var validPermissionModes = []string{"default", "bypass"}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent config: %w", err)
	}

	if c.Cache.DefaultTTL < 0 {
		return fmt.Errorf("cache config: default_ttl cannot be negative, got %v", c.Cache.DefaultTTL)
	}
	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache config: max_size cannot be negative, got %d", c.Cache.MaxSize)
	}

	if !containsFold(validLogLevels, c.Global.LogLevel) {
		return fmt.Errorf("global config: log_level must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	return nil
}

// Validate validates agent runtime settings
func (a *AgentConfig) Validate() error {
	if a.Model == "" {
		return fmt.Errorf("model is required")
	}
	if a.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %v", a.Timeout)
	}
	if a.MaxTurns < 0 {
		return fmt.Errorf("max_turns cannot be negative, got %d", a.MaxTurns)
	}
	if a.MaxThinkingTokens < 0 {
		return fmt.Errorf("max_thinking_tokens cannot be negative, got %d", a.MaxThinkingTokens)
	}
	if a.MaxCostUSD < 0 {
		return fmt.Errorf("max_cost_usd cannot be negative, got %v", a.MaxCostUSD)
	}
	if !containsFold(validPermissionModes, a.PermissionMode) {
		return fmt.Errorf("permission_mode must be one of: %s", strings.Join(validPermissionModes, ", "))
	}
	return nil
}

func containsFold(valid []string, value string) bool {
	for _, v := range valid {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
