// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package tools provides the example tool server.
//
// The search and fetch tools follow the standard registration pattern:
// descriptive self-documentation, tracked invocations, and memoized
// upstream calls so repeated queries within a session do not hit the
// upstream service again.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
	"github.com/loop-ai-toolkit/agent-loop/pkg/cache"
	"github.com/loop-ai-toolkit/agent-loop/pkg/errors"
	"github.com/loop-ai-toolkit/agent-loop/pkg/metrics"
)

// SearchFunc performs an upstream search query.
type SearchFunc func(ctx context.Context, query string, limit int) (string, error)

// FetchFunc retrieves the content of a URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// Options configures the example tool server.
type Options struct {
	// Cache memoizes upstream calls; defaults to the process-wide cache.
	Cache *cache.TTLCache

	// Metrics tracks tool invocations; defaults to the process registry.
	Metrics *metrics.Registry

	// Search and Fetch are the upstream implementations; placeholders are
	// used when nil.
	Search SearchFunc
	Fetch  FetchFunc

	// SearchTTL and FetchTTL override the cache default TTL per tool.
	SearchTTL time.Duration
	FetchTTL  time.Duration
}

// NewExampleServer creates the example tool server.
func NewExampleServer(opts Options) *agent.ToolServer {
	c := opts.Cache
	if c == nil {
		c = cache.Default()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.Default()
	}
	search := opts.Search
	if search == nil {
		search = placeholderSearch
	}
	fetch := opts.Fetch
	if fetch == nil {
		fetch = placeholderFetch
	}

	memoSearch := cache.Cached(c, "search", opts.SearchTTL,
		func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
			query, _ := kwargs["query"].(string)
			return search(ctx, query, intArg(kwargs, "limit", 5))
		})

	memoFetch := cache.Cached(c, "fetch", opts.FetchTTL,
		func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
			url, _ := kwargs["url"].(string)
			return fetch(ctx, url)
		})

	searchHandler := metrics.Tracked(reg, "search",
		func(ctx context.Context, input map[string]interface{}) (*agent.ToolResult, error) {
			query, _ := input["query"].(string)
			if query == "" {
				return agent.ErrorResult("Error: query is required"), nil
			}

			result, err := memoSearch(ctx, nil, input)
			if err != nil {
				return nil, errors.ToolError("search failed", err)
			}
			return agent.TextResult(result), nil
		})

	fetchHandler := metrics.Tracked(reg, "fetch",
		func(ctx context.Context, input map[string]interface{}) (*agent.ToolResult, error) {
			url, _ := input["url"].(string)
			if url == "" {
				return agent.ErrorResult("Error: url is required"), nil
			}

			result, err := memoFetch(ctx, nil, input)
			if err != nil {
				return nil, errors.ToolError("fetch failed", err)
			}
			return agent.TextResult(result), nil
		})

	return &agent.ToolServer{
		Name:    "example",
		Version: "1.0.0",
		Tools: []agent.Tool{
			{
				Name: "search",
				Description: "Search for information using keyword queries. " +
					"Use this when the agent needs to find data that isn't available in local notes " +
					"or when exploring a topic before making decisions. " +
					"Exists because the agent has no built-in knowledge beyond its training data. " +
					"Returns a JSON object with {query, results: [{title, url}], count}.",
				InputSchema: map[string]string{"query": "string", "limit": "integer"},
				Handler:     searchHandler,
			},
			{
				Name: "fetch",
				Description: "Fetch the full content of a web page by URL. " +
					"Use this when the agent has a specific URL to retrieve - e.g., from search " +
					"results, a known reference, or a link found in notes. " +
					"Exists because the agent cannot browse the web directly; this tool provides " +
					"read access to individual pages. " +
					"Returns a JSON object with {url, content, status}.",
				InputSchema: map[string]string{"url": "string"},
				Handler:     fetchHandler,
			},
		},
	}
}

// intArg reads an integer parameter that may arrive as a JSON number.
func intArg(input map[string]interface{}, key string, fallback int) int {
	switch v := input[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func placeholderSearch(ctx context.Context, query string, limit int) (string, error) {
	result := map[string]interface{}{
		"query": query,
		"results": []map[string]string{
			{"title": "Example Result 1", "url": "https://example.com/1"},
			{"title": "Example Result 2", "url": "https://example.com/2"},
		},
		"count": 2,
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode search result: %w", err)
	}
	return string(data), nil
}

func placeholderFetch(ctx context.Context, url string) (string, error) {
	result := map[string]interface{}{
		"url":     url,
		"content": "Example content from the URL",
		"status":  200,
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode fetch result: %w", err)
	}
	return string(data), nil
}
