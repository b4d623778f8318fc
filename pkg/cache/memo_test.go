// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package cache_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/cache"
	looperrors "github.com/loop-ai-toolkit/agent-loop/pkg/errors"
)

// TestCachedHitSkipsInvocation tests that a hit returns the memoized value
// without invoking the underlying operation.
func TestCachedHitSkipsInvocation(t *testing.T) {
	c := cache.New(time.Minute, 10)

	var calls int32
	fn := cache.Cached(c, "search", 0, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "result", nil
	})

	ctx := context.Background()
	args := []interface{}{"golang"}

	first, err := fn(ctx, args, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := fn(ctx, args, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first != "result" || second != "result" {
		t.Errorf("Expected 'result' from both calls, got %q and %q", first, second)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly 1 invocation, got %d", got)
	}
}

// TestCachedDistinctArguments tests that different arguments invoke the
// operation separately.
func TestCachedDistinctArguments(t *testing.T) {
	c := cache.New(time.Minute, 10)

	var calls int32
	fn := cache.Cached(c, "search", 0, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return args[0].(string), nil
	})

	ctx := context.Background()
	if _, err := fn(ctx, []interface{}{"a"}, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := fn(ctx, []interface{}{"b"}, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 invocations for distinct arguments, got %d", got)
	}
}

// TestCachedFailureNotCached tests that errors propagate and nothing is
// stored, so the next identical call invokes the operation again.
func TestCachedFailureNotCached(t *testing.T) {
	c := cache.New(time.Minute, 10)
	wantErr := errors.New("upstream unavailable")

	var calls int32
	fn := cache.Cached(c, "fetch", 0, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", wantErr
	})

	ctx := context.Background()
	args := []interface{}{"https://example.com"}

	if _, err := fn(ctx, args, nil); !errors.Is(err, wantErr) {
		t.Errorf("Expected error to propagate unchanged, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected no entry cached after failure, size is %d", c.Len())
	}

	if _, err := fn(ctx, args, nil); !errors.Is(err, wantErr) {
		t.Errorf("Expected error on second call, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected the operation to run again after a failure, got %d invocations", got)
	}
}

// TestCachedCancellationNotCached tests that a cancelled invocation caches
// nothing.
func TestCachedCancellationNotCached(t *testing.T) {
	c := cache.New(time.Minute, 10)

	fn := cache.Cached(c, "slow", 0, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "done", nil
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fn(ctx, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected no entry cached after cancellation, size is %d", c.Len())
	}
}

// TestCachedTTLOverride tests that a per-wrapper TTL is honored.
func TestCachedTTLOverride(t *testing.T) {
	c := cache.New(time.Minute, 10)

	var calls int32
	fn := cache.Cached(c, "short", 10*time.Millisecond, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	ctx := context.Background()
	if _, err := fn(ctx, nil, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := fn(ctx, nil, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected re-invocation after TTL override elapsed, got %d invocations", got)
	}
}

// TestCachedUnrepresentableArgument tests that a key derivation failure
// fails closed: the error propagates, the operation is not invoked, and
// nothing is cached.
func TestCachedUnrepresentableArgument(t *testing.T) {
	c := cache.New(time.Minute, 10)

	var calls int32
	fn := cache.Cached(c, "search", 0, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "result", nil
	})

	_, err := fn(context.Background(), []interface{}{func() {}}, nil)
	if err == nil {
		t.Fatal("Expected an error for an unrepresentable argument, got nil")
	}
	if !looperrors.IsType(err, looperrors.ErrCacheKey) {
		t.Errorf("Expected a cache key error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("Expected the operation not to be invoked, got %d invocations", got)
	}
	if c.Len() != 0 {
		t.Errorf("Expected no entry cached, size is %d", c.Len())
	}
}

// TestCachedKwargOrderShareEntry tests that kwarg ordering does not split
// the memoized entry.
func TestCachedKwargOrderShareEntry(t *testing.T) {
	c := cache.New(time.Minute, 10)

	var calls int32
	fn := cache.Cached(c, "search", 0, func(ctx context.Context, args []interface{}, kwargs map[string]interface{}) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "shared", nil
	})

	ctx := context.Background()
	if _, err := fn(ctx, nil, map[string]interface{}{"a": 1, "b": 2}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := fn(ctx, nil, map[string]interface{}{"b": 2, "a": 1}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected kwarg order to share one entry, got %d invocations", got)
	}
}
