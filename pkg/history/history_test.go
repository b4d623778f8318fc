// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package history_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
	"github.com/loop-ai-toolkit/agent-loop/pkg/history"
	"github.com/loop-ai-toolkit/agent-loop/pkg/paths"
)

func newTestStore(t *testing.T) (*history.Store, *paths.Layout) {
	t.Helper()
	layout := paths.NewLayout(t.TempDir())
	return history.NewStore(layout), layout
}

func sessionAt(sessionID string, ts time.Time) *agent.SessionResult {
	return &agent.SessionResult{
		SessionID: sessionID,
		Timestamp: ts.Format(time.RFC3339),
		Output:    agent.AgentOutput{Summary: "done", Confidence: 0.9},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)

	result := sessionAt("abc-123", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	path, err := store.Save(result)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "20260301_100000.json" {
		t.Errorf("Expected timestamped filename, got %s", filepath.Base(path))
	}

	loaded, err := store.LoadSessions("abc-123")
	if err != nil {
		t.Fatalf("LoadSessions failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(loaded))
	}
	if loaded[0].Output.Summary != "done" {
		t.Errorf("Expected summary 'done', got %q", loaded[0].Output.Summary)
	}
}

func TestLoadSessionsOrderedAcrossVersions(t *testing.T) {
	store, layout := newTestStore(t)

	// A result written by an older agent version.
	oldDir := filepath.Join(layout.TracesDir(), "0.0.9", "sessions", "s1")
	if err := os.MkdirAll(oldDir, 0755); err != nil {
		t.Fatal(err)
	}
	old := `{"session_id":"s1","timestamp":"2026-01-01T00:00:00Z","output":{"summary":"old","confidence":0.5}}`
	if err := os.WriteFile(filepath.Join(oldDir, "20260101_000000.json"), []byte(old), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save(sessionAt("s1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadSessions("s1")
	if err != nil {
		t.Fatalf("LoadSessions failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 sessions across versions, got %d", len(loaded))
	}
	if loaded[0].Output.Summary != "old" {
		t.Errorf("Expected oldest first, got %q", loaded[0].Output.Summary)
	}
}

func TestLoadSkipsCorruptFiles(t *testing.T) {
	store, layout := newTestStore(t)

	if _, err := store.Save(sessionAt("s1", time.Now())); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(layout.SessionsDir(""), "s1")
	if err := os.WriteFile(filepath.Join(dir, "20260101_000000.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadSessions("s1")
	if err != nil {
		t.Fatalf("LoadSessions failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("Expected corrupt file skipped, got %d sessions", len(loaded))
	}
}

func TestLatestSession(t *testing.T) {
	store, _ := newTestStore(t)

	if latest, err := store.LatestSession("missing"); err != nil || latest != nil {
		t.Errorf("Expected nil for unknown session, got %v, %v", latest, err)
	}

	first := sessionAt("s1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	second := sessionAt("s1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	second.Output.Summary = "newer"
	for _, r := range []*agent.SessionResult{first, second} {
		if _, err := store.Save(r); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := store.LatestSession("s1")
	if err != nil {
		t.Fatalf("LatestSession failed: %v", err)
	}
	if latest.Output.Summary != "newer" {
		t.Errorf("Expected newest result, got %q", latest.Output.Summary)
	}
}

func TestUpdateMetadata(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Save(sessionAt("s1", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(sessionAt("s1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}

	path, err := store.UpdateMetadata("s1", "correct")
	if err != nil {
		t.Fatalf("UpdateMetadata failed: %v", err)
	}
	if !strings.Contains(path, "20260102_000000.json") {
		t.Errorf("Expected latest file updated, got %s", path)
	}

	latest, err := store.LatestSession("s1")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Outcome != "correct" {
		t.Errorf("Expected outcome 'correct', got %q", latest.Outcome)
	}
	if latest.SubmittedAt == "" {
		t.Error("Expected submitted_at to be stamped")
	}
}

func TestUpdateMetadataUnknownSession(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.UpdateMetadata("nope", "correct"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestListSessions(t *testing.T) {
	store, _ := newTestStore(t)
	for _, id := range []string{"b-session", "a-session"} {
		if _, err := store.Save(sessionAt(id, time.Now())); err != nil {
			t.Fatal(err)
		}
	}

	ids := store.ListSessions()
	if len(ids) != 2 || ids[0] != "a-session" || ids[1] != "b-session" {
		t.Errorf("Expected sorted session IDs, got %v", ids)
	}
}

func TestFormatForContext(t *testing.T) {
	results := []*agent.SessionResult{
		{
			SessionID: "11111111-aaaa",
			Timestamp: "2026-01-01T00:00:00Z",
			Output:    agent.AgentOutput{Summary: "older", Confidence: 0.4},
		},
		{
			SessionID: "22222222-bbbb",
			Timestamp: "2026-01-02T00:00:00Z",
			Output:    agent.AgentOutput{Summary: "newer", Confidence: 0.8, Factors: []string{"a", "b"}},
			Outcome:   "correct",
		},
	}

	out := history.FormatForContext(results, 0)
	if !strings.HasPrefix(out, "## Previous Sessions") {
		t.Errorf("Expected markdown heading, got %q", out)
	}
	newerIdx := strings.Index(out, "newer")
	olderIdx := strings.Index(out, "older")
	if newerIdx == -1 || olderIdx == -1 || newerIdx > olderIdx {
		t.Errorf("Expected newest first, got %q", out)
	}
	if !strings.Contains(out, "Session 22222222") {
		t.Errorf("Expected shortened session ID, got %q", out)
	}
	if !strings.Contains(out, "Outcome: correct") {
		t.Errorf("Expected outcome line, got %q", out)
	}

	if history.FormatForContext(nil, 3) != "" {
		t.Error("Expected empty output for no results")
	}
}

func TestFormatForContextLimitsSessions(t *testing.T) {
	var results []*agent.SessionResult
	for i := 0; i < 10; i++ {
		results = append(results, &agent.SessionResult{
			SessionID: "s",
			Timestamp: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
			Output:    agent.AgentOutput{Summary: "s"},
		})
	}

	out := history.FormatForContext(results, 3)
	if got := strings.Count(out, "### Session"); got != 3 {
		t.Errorf("Expected 3 sessions in context, got %d", got)
	}
}
