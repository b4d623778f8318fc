// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loop-ai-toolkit/agent-loop/pkg/history"
	"github.com/loop-ai-toolkit/agent-loop/pkg/paths"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List sessions or show one session's history",
	Long: `Without arguments, list all known session IDs across agent versions.
With a session ID, show that session's recorded results oldest first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := history.NewStore(paths.NewLayout(cfg.Trace.NotesRoot))
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			ids := store.ListSessions()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No sessions recorded.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		}

		results, err := store.LoadSessions(args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("no results found for session %s", args[0])
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tSUMMARY\tCONFIDENCE\tOUTCOME")
		for _, r := range results {
			outcome := r.Outcome
			if outcome == "" {
				outcome = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", r.Timestamp, r.Output.Summary, r.Output.Confidence, outcome)
		}
		return tw.Flush()
	},
}

// submitCmd records the real-world outcome for a session.
var submitCmd = &cobra.Command{
	Use:   "submit <session-id> <outcome>",
	Short: "Record the outcome for a session",
	Long: `Record the observed outcome on a session's most recent result.
Outcomes feed back into future sessions for the same task.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store := history.NewStore(paths.NewLayout(cfg.Trace.NotesRoot))

		path, err := store.UpdateMetadata(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded outcome %q in %s\n", args[1], path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(submitCmd)
}
