// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Func is an operation that can be memoized: a context-aware call taking
// positional and keyword arguments. The arguments only need to be
// representable as strings for key derivation; the cache does not otherwise
// constrain the signature.
type Func[T any] func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (T, error)

// Cached adapts fn into a memoized operation backed by c. The returned
// function derives a key from name and the call arguments, returns the
// cached value on a hit without invoking fn, and on a miss invokes fn and
// stores the result for ttl (the cache default when ttl <= 0).
//
// Failures propagate to the caller unchanged and are never cached, so
// transient errors do not poison the cache. A call cancelled before fn
// completes likewise caches nothing. When a key cannot be derived (an
// argument with no stable string representation) the call fails closed:
// the CacheKeyError propagates and fn is not invoked.
//
// Concurrent calls with the same key that both miss each invoke fn
// independently; there is no single-flight de-duplication. The last write
// to acquire the lock wins.
func Cached[T any](c *TTLCache, name string, ttl time.Duration, fn Func[T]) Func[T] {
	if ttl <= 0 {
		ttl = c.DefaultTTL()
	}

	return func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (T, error) {
		key, err := DeriveKey(name, args, kwargs)
		if err != nil {
			var zero T
			return zero, err
		}

		if value, ok := c.Get(key); ok {
			if typed, ok := value.(T); ok {
				slog.Debug("cache hit", "op", name, "key", key)
				return typed, nil
			}
			// A differently-typed value under this key means a truncated-hash
			// collision with another operation. Fall through and recompute.
			slog.Warn("cache key collision", "op", name, "key", key)
		}

		slog.Debug("cache miss", "op", name, "key", key)
		result, err := fn(ctx, args, kwargs)
		if err != nil {
			var zero T
			return zero, err
		}

		c.SetWithTTL(key, result, ttl)
		return result, nil
	}
}
