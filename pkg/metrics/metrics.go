// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package metrics tracks tool invocations during agent sessions.
//
// A Registry keeps per-tool call counts, error counts, and cumulative
// durations. The in-process summary is session-scoped and resettable; the
// Prometheus collectors are process-lifetime cumulative.
package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ToolStats holds per-tool invocation statistics.
type ToolStats struct {
	Calls         int64         `json:"calls"`
	Errors        int64         `json:"errors"`
	TotalDuration time.Duration `json:"total_duration"`
}

// Registry records tool invocation metrics.
type Registry struct {
	mu    sync.Mutex
	tools map[string]*ToolStats

	calls    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRegistry creates a Registry whose Prometheus collectors register with
// reg. Pass prometheus.NewRegistry() in tests to isolate collectors.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		tools: make(map[string]*ToolStats),
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agent_loop",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations by tool name.",
		}, []string{"tool"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agent_loop",
			Name:      "tool_errors_total",
			Help:      "Total failed tool invocations by tool name.",
		}, []string{"tool"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agent_loop",
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, created on first use against
// the default Prometheus registerer.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// Record registers one tool invocation.
func (r *Registry) Record(tool string, d time.Duration, err error) {
	r.mu.Lock()
	stats, ok := r.tools[tool]
	if !ok {
		stats = &ToolStats{}
		r.tools[tool] = stats
	}
	stats.Calls++
	stats.TotalDuration += d
	if err != nil {
		stats.Errors++
	}
	r.mu.Unlock()

	r.calls.WithLabelValues(tool).Inc()
	r.duration.WithLabelValues(tool).Observe(d.Seconds())
	if err != nil {
		r.errors.WithLabelValues(tool).Inc()
	}
}

// Summary returns a copy of the per-tool statistics.
func (r *Registry) Summary() map[string]ToolStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := make(map[string]ToolStats, len(r.tools))
	for tool, stats := range r.tools {
		summary[tool] = *stats
	}
	return summary
}

// Reset clears the session-scoped summary. The Prometheus collectors are
// cumulative and unaffected.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]*ToolStats)
}

// LogSummary logs the current per-tool statistics.
func (r *Registry) LogSummary() {
	for tool, stats := range r.Summary() {
		slog.Info("Tool metrics",
			"tool", tool,
			"calls", stats.Calls,
			"errors", stats.Errors,
			"total_duration", stats.TotalDuration,
		)
	}
}

// Tracked wraps fn so every invocation is recorded in r under name.
func Tracked[I, O any](r *Registry, name string, fn func(context.Context, I) (O, error)) func(context.Context, I) (O, error) {
	return func(ctx context.Context, input I) (O, error) {
		start := time.Now()
		out, err := fn(ctx, input)
		r.Record(name, time.Since(start), err)
		return out, err
	}
}
