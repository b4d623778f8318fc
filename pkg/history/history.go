// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package history persists session results and feeds past sessions back
// into new prompts.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
	"github.com/loop-ai-toolkit/agent-loop/pkg/paths"
)

// loadConcurrency bounds parallel session-file reads.
const loadConcurrency = 8

// Store reads and writes session results under a notes layout.
type Store struct {
	layout *paths.Layout
}

// NewStore creates a Store over the given layout.
func NewStore(layout *paths.Layout) *Store {
	return &Store{layout: layout}
}

// Save writes a session result to its version-specific directory and
// returns the file path. The filename timestamp comes from the result's
// own timestamp so repeated saves of the same session sort correctly.
func (s *Store) Save(result *agent.SessionResult) (string, error) {
	ts, err := time.Parse(time.RFC3339, result.Timestamp)
	if err != nil {
		ts = time.Now()
	}

	dir := filepath.Join(s.layout.SessionsDir(""), result.SessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	path := filepath.Join(dir, paths.Timestamp(ts)+".json")
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode session result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write session result: %w", err)
	}

	slog.Debug("Saved session result", "path", path)
	return path, nil
}

// LoadSessions reads session results across all versions, oldest first.
// With a sessionID, only that session's results are returned. Files that
// fail to parse are skipped with a warning.
func (s *Store) LoadSessions(sessionID string) ([]*agent.SessionResult, error) {
	var files []string
	for _, dir := range s.layout.SessionDirs(sessionID, "") {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	var mu sync.Mutex
	results := make([]*agent.SessionResult, 0, len(files))

	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for _, file := range files {
		g.Go(func() error {
			result, err := readSessionFile(file)
			if err != nil {
				slog.Warn("Skipping unreadable session file", "path", file, "error", err)
				return nil
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp < results[j].Timestamp
	})
	return results, nil
}

// LatestSession returns the most recent result for a session, or nil when
// none exist.
func (s *Store) LatestSession(sessionID string) (*agent.SessionResult, error) {
	results, err := s.LoadSessions(sessionID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[len(results)-1], nil
}

// ListSessions returns all known session IDs, sorted.
func (s *Store) ListSessions() []string {
	return s.layout.ListSessionIDs("")
}

// UpdateMetadata sets the outcome on a session's most recent result file
// and stamps it as submitted. Returns the updated file path.
func (s *Store) UpdateMetadata(sessionID, outcome string) (string, error) {
	path, result, err := s.latestFile(sessionID)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no results found for session %s", sessionID)
	}

	result.Outcome = outcome
	result.SubmittedAt = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode session result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to update session result: %w", err)
	}
	return path, nil
}

// latestFile finds the newest result file for a session across versions.
func (s *Store) latestFile(sessionID string) (string, *agent.SessionResult, error) {
	var latestPath string
	var latestTS time.Time

	for _, dir := range s.layout.SessionDirs(sessionID, "") {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			ts, err := paths.ParseTimestamp(entry.Name())
			if err != nil {
				continue
			}
			if latestPath == "" || ts.After(latestTS) {
				latestPath = filepath.Join(dir, entry.Name())
				latestTS = ts
			}
		}
	}
	if latestPath == "" {
		return "", nil, nil
	}

	result, err := readSessionFile(latestPath)
	if err != nil {
		return "", nil, err
	}
	return latestPath, result, nil
}

func readSessionFile(path string) (*agent.SessionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result agent.SessionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", path, err)
	}
	return &result, nil
}
