// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loop-ai-toolkit/agent-loop/pkg/cache"
)

// cacheCmd groups cache introspection subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the in-memory tool cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Run: func(cmd *cobra.Command, args []string) {
		stats := cache.DefaultStats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Entries:  %d\n", stats.Size)
		fmt.Fprintf(out, "Hits:     %d\n", stats.Hits)
		fmt.Fprintf(out, "Misses:   %d\n", stats.Misses)
		fmt.Fprintf(out, "Hit rate: %.1f%%\n", stats.HitRate*100)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cache entries",
	Run: func(cmd *cobra.Command, args []string) {
		cache.ClearDefault()
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
