// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loop-ai-toolkit/agent-loop/pkg/metrics"
)

func newTestRegistry() *metrics.Registry {
	return metrics.NewRegistry(prometheus.NewRegistry())
}

// TestRecordAndSummary tests basic recording.
func TestRecordAndSummary(t *testing.T) {
	r := newTestRegistry()

	r.Record("search", 10*time.Millisecond, nil)
	r.Record("search", 20*time.Millisecond, errors.New("boom"))
	r.Record("fetch", 5*time.Millisecond, nil)

	summary := r.Summary()

	search := summary["search"]
	if search.Calls != 2 {
		t.Errorf("Expected 2 search calls, got %d", search.Calls)
	}
	if search.Errors != 1 {
		t.Errorf("Expected 1 search error, got %d", search.Errors)
	}
	if search.TotalDuration != 30*time.Millisecond {
		t.Errorf("Expected 30ms total duration, got %v", search.TotalDuration)
	}

	if summary["fetch"].Calls != 1 {
		t.Errorf("Expected 1 fetch call, got %d", summary["fetch"].Calls)
	}
}

// TestReset tests that Reset clears the session summary.
func TestReset(t *testing.T) {
	r := newTestRegistry()

	r.Record("search", time.Millisecond, nil)
	r.Reset()

	if len(r.Summary()) != 0 {
		t.Errorf("Expected empty summary after reset, got %v", r.Summary())
	}
}

// TestSummaryIsCopy tests that mutating the summary does not affect the
// registry.
func TestSummaryIsCopy(t *testing.T) {
	r := newTestRegistry()
	r.Record("search", time.Millisecond, nil)

	summary := r.Summary()
	entry := summary["search"]
	entry.Calls = 99
	summary["search"] = entry

	if r.Summary()["search"].Calls != 1 {
		t.Error("Expected registry stats to be unaffected by summary mutation")
	}
}

// TestTracked tests the wrapper records calls and propagates results.
func TestTracked(t *testing.T) {
	r := newTestRegistry()
	wantErr := errors.New("tool failed")

	fn := metrics.Tracked(r, "echo", func(ctx context.Context, input string) (string, error) {
		if input == "fail" {
			return "", wantErr
		}
		return input, nil
	})

	ctx := context.Background()

	out, err := fn(ctx, "hello")
	if err != nil || out != "hello" {
		t.Errorf("Expected ('hello', nil), got (%q, %v)", out, err)
	}

	if _, err := fn(ctx, "fail"); !errors.Is(err, wantErr) {
		t.Errorf("Expected error to propagate, got %v", err)
	}

	stats := r.Summary()["echo"]
	if stats.Calls != 2 {
		t.Errorf("Expected 2 tracked calls, got %d", stats.Calls)
	}
	if stats.Errors != 1 {
		t.Errorf("Expected 1 tracked error, got %d", stats.Errors)
	}
}
