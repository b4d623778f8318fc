// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package usage fetches and renders agent usage reports.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/errors"
)

// DefaultTimeout bounds the usage endpoint request.
const DefaultTimeout = 30 * time.Second

// DailyUsage is one day of token and cost figures.
type DailyUsage struct {
	Date         string  `json:"date"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// TotalTokens returns the combined token count for the day.
func (d DailyUsage) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens
}

// Report is the usage payload returned by the endpoint.
type Report struct {
	Daily        []DailyUsage `json:"daily"`
	TotalCostUSD float64      `json:"total_cost_usd"`
}

// TotalTokens sums tokens across all days.
func (r *Report) TotalTokens() int64 {
	var total int64
	for _, d := range r.Daily {
		total += d.TotalTokens()
	}
	return total
}

// Client fetches usage reports from an HTTP endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a usage client for the given endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Fetch retrieves the usage report, limited to the last days entries when
// days is positive.
func (c *Client) Fetch(ctx context.Context, days int) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid usage endpoint %q", c.endpoint), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.AgentError("usage request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.AgentError(
			fmt.Sprintf("usage endpoint returned %d: %s", resp.StatusCode, string(body)), nil)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, errors.AgentError("failed to decode usage report", err)
	}

	sort.Slice(report.Daily, func(i, j int) bool {
		return report.Daily[i].Date < report.Daily[j].Date
	})
	if days > 0 && len(report.Daily) > days {
		report.Daily = report.Daily[len(report.Daily)-days:]
	}
	return &report, nil
}
