// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package paths centralizes the on-disk layout for agent session data.
//
// Writers use version-specific directories; readers iterate across all
// versions:
//
//	notes/traces/<version>/sessions/<session_id>/<timestamp>.json
//	notes/traces/<version>/outputs/<task_id>/<timestamp>/
//	notes/traces/<version>/logs/<session_id>/<timestamp>.md
//	notes/scores.csv
//	notes/feedback_loop/
package paths

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/version"
)

// TimestampFormat is the filename timestamp layout (YYYYMMDD_HHMMSS).
const TimestampFormat = "20060102_150405"

var timestampRe = regexp.MustCompile(`\d{8}_\d{6}`)

// Timestamp formats t for use in trace filenames.
func Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}

// ParseTimestamp parses the last YYYYMMDD_HHMMSS occurrence from a filename
// or string.
func ParseTimestamp(name string) (time.Time, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	matches := timestampRe.FindAllString(stem, -1)
	if len(matches) == 0 {
		return time.Time{}, &ParseError{Name: name}
	}
	return time.Parse(TimestampFormat, matches[len(matches)-1])
}

// ParseError reports a filename without a recognizable timestamp.
type ParseError struct {
	Name string
}

func (e *ParseError) Error() string {
	return "no YYYYMMDD_HHMMSS timestamp found in: " + e.Name
}

// Layout resolves session data paths under a notes root directory.
type Layout struct {
	root string
}

// NewLayout creates a Layout rooted at the given notes directory.
func NewLayout(root string) *Layout {
	return &Layout{root: root}
}

// Root returns the notes root directory.
func (l *Layout) Root() string { return l.root }

// TracesDir returns notes/traces.
func (l *Layout) TracesDir() string {
	return filepath.Join(l.root, "traces")
}

// FeedbackDir returns notes/feedback_loop.
func (l *Layout) FeedbackDir() string {
	return filepath.Join(l.root, "feedback_loop")
}

// ScoresCSV returns notes/scores.csv.
func (l *Layout) ScoresCSV() string {
	return filepath.Join(l.root, "scores.csv")
}

// -- Write paths (version-specific) ------------------------------------------

// SessionsDir returns the session JSON directory for ver, defaulting to the
// current agent version when ver is empty.
func (l *Layout) SessionsDir(ver string) string {
	if ver == "" {
		ver = version.AgentVersion
	}
	return filepath.Join(l.TracesDir(), ver, "sessions")
}

// OutputsDir returns the agent output directory for ver.
func (l *Layout) OutputsDir(ver string) string {
	if ver == "" {
		ver = version.AgentVersion
	}
	return filepath.Join(l.TracesDir(), ver, "outputs")
}

// TraceLogsDir returns the reasoning log directory for ver.
func (l *Layout) TraceLogsDir(ver string) string {
	if ver == "" {
		ver = version.AgentVersion
	}
	return filepath.Join(l.TracesDir(), ver, "logs")
}

// -- Read paths (cross-version iteration) -------------------------------------

// versionDirs returns all version directories under notes/traces, sorted.
func (l *Layout) versionDirs() []string {
	entries, err := os.ReadDir(l.TracesDir())
	if err != nil {
		return nil
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			dirs = append(dirs, filepath.Join(l.TracesDir(), entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

// SessionDirs returns session directories across all (or one) versions.
// With a sessionID, only that session's directories are returned.
func (l *Layout) SessionDirs(sessionID, ver string) []string {
	var verDirs []string
	if ver != "" {
		verDirs = []string{filepath.Join(l.TracesDir(), ver)}
	} else {
		verDirs = l.versionDirs()
	}

	var dirs []string
	for _, verDir := range verDirs {
		base := filepath.Join(verDir, "sessions")
		if sessionID != "" {
			candidate := filepath.Join(base, sessionID)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				dirs = append(dirs, candidate)
			}
			continue
		}
		entries, err := os.ReadDir(base)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, filepath.Join(base, entry.Name()))
			}
		}
	}
	return dirs
}

// OutputDirs returns output directories across all (or one) versions.
func (l *Layout) OutputDirs(taskID, ver string) []string {
	var verDirs []string
	if ver != "" {
		verDirs = []string{filepath.Join(l.TracesDir(), ver)}
	} else {
		verDirs = l.versionDirs()
	}

	var dirs []string
	for _, verDir := range verDirs {
		base := filepath.Join(verDir, "outputs")
		if taskID != "" {
			candidate := filepath.Join(base, taskID)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				dirs = append(dirs, candidate)
			}
			continue
		}
		entries, err := os.ReadDir(base)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, filepath.Join(base, entry.Name()))
			}
		}
	}
	return dirs
}

// TraceLogFiles returns reasoning log files (.md) across all versions,
// optionally filtered to one session.
func (l *Layout) TraceLogFiles(sessionID string) []string {
	var files []string
	for _, verDir := range l.versionDirs() {
		base := filepath.Join(verDir, "logs")
		if sessionID != "" {
			base = filepath.Join(base, sessionID)
		}
		filepath.WalkDir(base, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}

// ListSessionIDs returns all session IDs across versions, deduplicated and
// sorted.
func (l *Layout) ListSessionIDs(ver string) []string {
	seen := make(map[string]struct{})
	for _, dir := range l.SessionDirs("", ver) {
		seen[filepath.Base(dir)] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
