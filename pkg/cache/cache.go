// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package cache provides in-memory TTL caching for expensive upstream calls.
//
// A TTLCache stores opaque values keyed by string, each with an individual
// expiration, under a global capacity bound. Eviction is expiration-first:
// when the store is full, expired entries are swept and, if needed, the
// entry closest to expiring is dropped. This is a proxy for "least likely
// to still be useful" rather than true LRU.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the time-to-live applied when a caller does not specify one.
const DefaultTTL = 5 * time.Minute

// DefaultMaxSize is the capacity bound applied when none is specified.
const DefaultMaxSize = 500

// Entry is a cached value with its absolute expiration instant.
// An entry is valid until ExpiresAt has passed; validity is re-checked on
// every read, never precomputed.
type Entry struct {
	Value     interface{}
	ExpiresAt time.Time
}

func (e Entry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTLCache is a mutex-guarded in-memory cache with per-entry expiration and
// a bounded size. It is safe for concurrent use. The zero value is not
// usable; construct instances with New.
//
// The cache holds no external resources and needs no teardown; it is safe
// to let an instance be garbage-collected.
type TTLCache struct {
	mu         sync.Mutex
	entries    map[string]Entry
	defaultTTL time.Duration
	maxSize    int
	hits       int64
	misses     int64
}

// New creates a TTLCache with the given default TTL and capacity bound.
// Non-positive values fall back to DefaultTTL and DefaultMaxSize.
func New(defaultTTL time.Duration, maxSize int) *TTLCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &TTLCache{
		entries:    make(map[string]Entry),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
	}
}

// Get retrieves a value from the cache. It returns the value and true on a
// hit, nil and false otherwise. An expired entry is removed as a side
// effect of the lookup that observes it. Exactly one counter (hit or miss)
// is updated per call.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if entry.expired(time.Now()) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return entry.Value, true
}

// Set stores a value using the default TTL.
func (c *TTLCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with an explicit TTL. A ttl <= 0 is not an
// error: it produces an entry that is already expired on the next read.
//
// When the store is at capacity, expired entries are swept first; if the
// store is still full, the entry with the earliest expiration is evicted.
// The new entry then overwrites any existing entry at key unconditionally.
// After SetWithTTL returns the store size never exceeds the capacity bound.
func (c *TTLCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictExpired()
	}

	if len(c.entries) >= c.maxSize {
		c.evictEarliest()
	}

	c.entries[key] = Entry{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// evictExpired removes all expired entries. Caller must hold the lock.
func (c *TTLCache) evictExpired() int {
	now := time.Now()
	evicted := 0
	for key, entry := range c.entries {
		if entry.ExpiresAt.Before(now) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// evictEarliest removes the single entry with the earliest expiration.
// Caller must hold the lock.
func (c *TTLCache) evictEarliest() {
	var earliestKey string
	var earliest time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.ExpiresAt.Before(earliest) {
			earliestKey = key
			earliest = entry.ExpiresAt
			first = false
		}
	}
	if !first {
		delete(c.entries, earliestKey)
	}
}

// Clear removes all entries. The hit/miss counters are cumulative lifetime
// statistics and are deliberately untouched. Clearing an empty cache is a
// no-op.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Len returns the current number of entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DefaultTTL returns the TTL applied when a caller does not specify one.
func (c *TTLCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}
