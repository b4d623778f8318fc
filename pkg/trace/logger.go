// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package trace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger accumulates agent reasoning for feedback loop analysis.
//
// Blocks logged during agent execution are saved as a markdown trace file
// for later analysis.
type Logger struct {
	path  string
	lines []string
}

// NewLogger creates a trace logger that will save to path.
func NewLogger(path, title string) *Logger {
	return &Logger{
		path: path,
		lines: []string{
			fmt.Sprintf("# Trace: %s\n", title),
			fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC3339)),
		},
	}
}

// LogBlock adds a formatted content block to the trace.
func (l *Logger) LogBlock(block Block) {
	l.lines = append(l.lines, FormatMarkdown(block))
}

// LogText adds raw text to the trace, under an optional heading.
func (l *Logger) LogText(text, heading string) {
	if heading != "" {
		l.lines = append(l.lines, fmt.Sprintf("## %s\n\n%s\n", heading, text))
		return
	}
	l.lines = append(l.lines, text+"\n")
}

// Path returns the destination trace file path.
func (l *Logger) Path() string { return l.path }

// Save writes the accumulated trace to disk, creating parent directories
// as needed.
func (l *Logger) Save() (string, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return "", fmt.Errorf("failed to create trace directory: %w", err)
	}
	if err := os.WriteFile(l.path, []byte(strings.Join(l.lines, "\n")), 0644); err != nil {
		return "", fmt.Errorf("failed to write trace: %w", err)
	}
	slog.Info("Saved trace", "path", l.path)
	return l.path, nil
}
