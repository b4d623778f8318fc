// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package cache

// Stats is a point-in-time snapshot of cache statistics. Hits and misses
// are process-lifetime counters; they survive Clear and are never reset by
// the cache itself.
type Stats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// Stats returns a snapshot of the cache statistics. HitRate is 0 when no
// lookups have occurred.
func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total < 1 {
		total = 1
	}
	return Stats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: float64(c.hits) / float64(total),
	}
}
