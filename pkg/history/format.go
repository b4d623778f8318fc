// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package history

import (
	"fmt"
	"strings"

	"github.com/loop-ai-toolkit/agent-loop/pkg/agent"
)

// DefaultContextSessions is how many past sessions FormatForContext
// includes when maxSessions is zero.
const DefaultContextSessions = 5

// FormatForContext renders past session results as markdown for inclusion
// in a new session's prompt. Only the most recent maxSessions results are
// included, newest first.
func FormatForContext(results []*agent.SessionResult, maxSessions int) string {
	if len(results) == 0 {
		return ""
	}
	if maxSessions <= 0 {
		maxSessions = DefaultContextSessions
	}
	if len(results) > maxSessions {
		results = results[len(results)-maxSessions:]
	}

	var b strings.Builder
	b.WriteString("## Previous Sessions\n\n")
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		fmt.Fprintf(&b, "### Session %s (%s)\n", shortID(r.SessionID), r.Timestamp)
		fmt.Fprintf(&b, "- Summary: %s\n", r.Output.Summary)
		fmt.Fprintf(&b, "- Confidence: %.2f\n", r.Output.Confidence)
		if len(r.Output.Factors) > 0 {
			fmt.Fprintf(&b, "- Factors: %s\n", strings.Join(r.Output.Factors, "; "))
		}
		if r.Outcome != "" {
			fmt.Fprintf(&b, "- Outcome: %s\n", r.Outcome)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
