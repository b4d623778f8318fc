// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package usage

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// barWidth is the maximum bar length in the daily chart.
const barWidth = 40

// Render writes the report as a terminal dashboard with a scaled bar per
// day.
func Render(w io.Writer, report *Report) error {
	if len(report.Daily) == 0 {
		_, err := fmt.Fprintln(w, "No usage data.")
		return err
	}

	var maxTokens int64
	for _, d := range report.Daily {
		if t := d.TotalTokens(); t > maxTokens {
			maxTokens = t
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTOKENS\tCOST\t")
	for _, d := range report.Daily {
		fmt.Fprintf(tw, "%s\t%d\t$%.2f\t%s\n",
			d.Date, d.TotalTokens(), d.CostUSD, bar(d.TotalTokens(), maxTokens))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d tokens, $%.2f\n", report.TotalTokens(), report.TotalCostUSD)
	return err
}

// bar scales a value against the maximum into a fixed-width block bar.
func bar(value, max int64) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(value * barWidth / max)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
