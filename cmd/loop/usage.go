// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loop-ai-toolkit/agent-loop/pkg/usage"
)

// usageCmd represents the usage command
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the token and cost usage dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if usageOpts.endpoint == "" {
			return fmt.Errorf("no usage endpoint configured (use --endpoint)")
		}

		report, err := usage.NewClient(usageOpts.endpoint).Fetch(cmd.Context(), usageOpts.days)
		if err != nil {
			return err
		}
		return usage.Render(cmd.OutOrStdout(), report)
	},
}

// usageFlags holds the flags for the usage command
type usageFlags struct {
	endpoint string
	days     int
}

var usageOpts usageFlags

func init() {
	rootCmd.AddCommand(usageCmd)

	usageCmd.Flags().StringVar(&usageOpts.endpoint, "endpoint", "", "Usage report endpoint URL")
	usageCmd.Flags().IntVar(&usageOpts.days, "days", 7, "Number of days to show")
}
