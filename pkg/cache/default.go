// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package cache

import "sync"

var (
	defaultOnce  sync.Once
	defaultCache *TTLCache
)

// Default returns the process-wide cache shared by call sites that do not
// construct their own. It is created on first use with DefaultTTL and
// DefaultMaxSize and lives for the process duration; the only reset is its
// own Clear.
func Default() *TTLCache {
	defaultOnce.Do(func() {
		defaultCache = New(DefaultTTL, DefaultMaxSize)
	})
	return defaultCache
}

// DefaultStats returns statistics from the process-wide cache.
func DefaultStats() Stats {
	return Default().Stats()
}

// ClearDefault clears the process-wide cache. Counters are untouched.
func ClearDefault() {
	Default().Clear()
}
