// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package paths_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/paths"
)

// TestParseTimestamp tests timestamp extraction from filenames.
func TestParseTimestamp(t *testing.T) {
	ts, err := paths.ParseTimestamp("20240115_093015.json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := time.Date(2024, 1, 15, 9, 30, 15, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("Expected %v, got %v", want, ts)
	}
}

// TestParseTimestampLastMatchWins tests that the last occurrence is parsed.
func TestParseTimestampLastMatchWins(t *testing.T) {
	ts, err := paths.ParseTimestamp("run_20240101_000000_retry_20240102_120000.md")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ts.Day() != 2 || ts.Hour() != 12 {
		t.Errorf("Expected last timestamp to win, got %v", ts)
	}
}

// TestParseTimestampMissing tests the error path.
func TestParseTimestampMissing(t *testing.T) {
	if _, err := paths.ParseTimestamp("no-timestamp-here.json"); err == nil {
		t.Error("Expected error for filename without timestamp")
	}
}

// TestLayoutWritePaths tests version-specific write paths.
func TestLayoutWritePaths(t *testing.T) {
	l := paths.NewLayout("notes")

	if got := l.SessionsDir("0.2.0"); got != filepath.Join("notes", "traces", "0.2.0", "sessions") {
		t.Errorf("Unexpected sessions dir: %s", got)
	}
	if got := l.OutputsDir("0.2.0"); got != filepath.Join("notes", "traces", "0.2.0", "outputs") {
		t.Errorf("Unexpected outputs dir: %s", got)
	}
	if got := l.TraceLogsDir("0.2.0"); got != filepath.Join("notes", "traces", "0.2.0", "logs") {
		t.Errorf("Unexpected logs dir: %s", got)
	}
}

// TestLayoutCrossVersionIteration tests reading across version directories.
func TestLayoutCrossVersionIteration(t *testing.T) {
	root := t.TempDir()
	l := paths.NewLayout(root)

	for _, dir := range []string{
		filepath.Join(root, "traces", "0.1.0", "sessions", "alpha"),
		filepath.Join(root, "traces", "0.2.0", "sessions", "alpha"),
		filepath.Join(root, "traces", "0.2.0", "sessions", "beta"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	all := l.SessionDirs("", "")
	if len(all) != 3 {
		t.Errorf("Expected 3 session dirs across versions, got %d", len(all))
	}

	alpha := l.SessionDirs("alpha", "")
	if len(alpha) != 2 {
		t.Errorf("Expected 2 dirs for session 'alpha', got %d", len(alpha))
	}

	onlyNew := l.SessionDirs("", "0.2.0")
	if len(onlyNew) != 2 {
		t.Errorf("Expected 2 dirs for version 0.2.0, got %d", len(onlyNew))
	}

	ids := l.ListSessionIDs("")
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("Expected deduplicated sorted ids [alpha beta], got %v", ids)
	}
}

// TestLayoutMissingRoot tests that a nonexistent notes root yields empty
// results rather than errors.
func TestLayoutMissingRoot(t *testing.T) {
	l := paths.NewLayout(filepath.Join(t.TempDir(), "absent"))

	if dirs := l.SessionDirs("", ""); len(dirs) != 0 {
		t.Errorf("Expected no session dirs, got %v", dirs)
	}
	if ids := l.ListSessionIDs(""); len(ids) != 0 {
		t.Errorf("Expected no session ids, got %v", ids)
	}
}

// TestTraceLogFiles tests markdown log discovery.
func TestTraceLogFiles(t *testing.T) {
	root := t.TempDir()
	l := paths.NewLayout(root)

	logDir := filepath.Join(root, "traces", "0.1.0", "logs", "alpha")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create log dir: %v", err)
	}
	for _, name := range []string{"20240101_000000.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(logDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	files := l.TraceLogFiles("alpha")
	if len(files) != 1 {
		t.Errorf("Expected 1 markdown log file, got %d: %v", len(files), files)
	}

	if files := l.TraceLogFiles("missing"); len(files) != 0 {
		t.Errorf("Expected no files for unknown session, got %v", files)
	}
}
