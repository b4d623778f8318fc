// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loop-ai-toolkit/agent-loop/pkg/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display detailed version information including build date, git commit, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Info()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "loop version: %s\n", info["version"])
		fmt.Fprintf(out, "  agent version: %s\n", info["agentVersion"])
		fmt.Fprintf(out, "  build date: %s\n", info["buildDate"])
		fmt.Fprintf(out, "  git commit: %s\n", info["gitCommit"])
		fmt.Fprintf(out, "  go version: %s\n", info["goVersion"])
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
