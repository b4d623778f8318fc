// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
	"github.com/loop-ai-toolkit/agent-loop/pkg/agent/tools"
	"github.com/loop-ai-toolkit/agent-loop/pkg/cache"
	"github.com/loop-ai-toolkit/agent-loop/pkg/history"
	"github.com/loop-ai-toolkit/agent-loop/pkg/paths"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run an agent session on a task",
	Long: `Run one agent session on the given task.

The session's reasoning trace is written under the notes directory and
its result is saved to the session store. Previous sessions for the same
task are included in the prompt as context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		task := strings.Join(args, " ")

		rt, err := agent.NewProcessRuntime(cmd.Context(), runOpts.cliPath)
		if err != nil {
			return err
		}
		defer rt.Close()

		layout := paths.NewLayout(cfg.Trace.NotesRoot)
		store := history.NewStore(layout)

		if runOpts.taskID != "" {
			past, err := store.LoadSessions("")
			if err == nil {
				var same []*agent.SessionResult
				for _, r := range past {
					if r.TaskID == runOpts.taskID {
						same = append(same, r)
					}
				}
				if extra := history.FormatForContext(same, 0); extra != "" {
					task = task + "\n\n" + extra
				}
			}
		}

		var console io.Writer
		if runOpts.verbose {
			console = cmd.OutOrStdout()
		}

		server := tools.NewExampleServer(tools.Options{
			Cache: cache.New(cfg.Cache.DefaultTTL, cfg.Cache.MaxSize),
		})

		result, err := agent.RunAgent(cmd.Context(), rt, cfg, task, agent.RunOptions{
			SessionID: runOpts.sessionID,
			TaskID:    runOpts.taskID,
			TaskType:  runOpts.taskType,
			Layout:    layout,
			Store:     store,
			Servers:   []*agent.ToolServer{server},
			Console:   console,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session:    %s\n", result.SessionID)
		fmt.Fprintf(out, "Summary:    %s\n", result.Output.Summary)
		fmt.Fprintf(out, "Confidence: %.2f\n", result.Output.Confidence)
		if result.CostUSD > 0 {
			fmt.Fprintf(out, "Cost:       $%.4f\n", result.CostUSD)
		}
		return nil
	},
}

// runFlags holds the flags for the run command
type runFlags struct {
	sessionID string
	taskID    string
	taskType  string
	cliPath   string
	verbose   bool
}

var runOpts runFlags

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runOpts.sessionID, "session-id", "", "Session ID (generated when empty)")
	runCmd.Flags().StringVar(&runOpts.taskID, "task-id", "", "Task ID for grouping sessions")
	runCmd.Flags().StringVar(&runOpts.taskType, "task-type", "", "Task type for extra guidance (binary, numeric)")
	runCmd.Flags().StringVar(&runOpts.cliPath, "cli", "", "Path to the agent CLI binary")
	runCmd.Flags().BoolVarP(&runOpts.verbose, "verbose", "v", false, "Stream agent output to the terminal")
}
