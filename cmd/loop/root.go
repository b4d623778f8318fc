// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package main provides the loop CLI application.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/loop-ai-toolkit/agent-loop/pkg/config"
	"github.com/loop-ai-toolkit/agent-loop/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loop",
	Short: "Loop AI Toolkit agent runner",
	Long: `Loop AI Toolkit - a self-improving agent runner.

loop runs agent sessions against tasks, records full reasoning traces
under a notes directory, and feeds past sessions back into new runs.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
}

// loadConfig resolves configuration for a command invocation and applies
// the configured log level.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	slog.SetLogLoggerLevel(logLevel(cfg.Global.LogLevel))
	return cfg, nil
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
