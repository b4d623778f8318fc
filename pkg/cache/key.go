// Copyright 2026 Loop AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/loop-ai-toolkit/agent-loop/pkg/errors"
)

// keyDelimiter separates key components. Pathological argument values that
// contain the delimiter could in theory collide; this is a best-effort
// memoization key, not a security boundary.
const keyDelimiter = "|"

// keyHashLen is the number of hex characters kept from the SHA-256 digest.
// 16 characters (64 bits) make accidental collisions negligible for stores
// in the hundreds-to-thousands of entries.
const keyHashLen = 16

// DeriveKey generates a deterministic cache key from an operation name,
// positional arguments, and keyword arguments.
//
// Positional arguments are order-sensitive; keyword arguments are sorted by
// name so that call-site ordering does not affect the key. Two calls with
// the same operation and argument values always produce the same key;
// differing arguments produce different keys up to hash truncation.
//
// Arguments whose printed form includes a memory address (functions,
// channels, pointers) would yield a different key on every call, so they
// are rejected with a CacheKeyError instead.
func DeriveKey(op string, args []interface{}, kwargs map[string]interface{}) (string, error) {
	parts := make([]string, 0, 1+len(args)+len(kwargs))
	parts = append(parts, op)

	for i, arg := range args {
		repr, err := argRepr(arg)
		if err != nil {
			return "", errors.CacheKeyError(
				fmt.Sprintf("positional argument %d of %q is not representable", i, op), err)
		}
		parts = append(parts, repr)
	}

	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		repr, err := argRepr(kwargs[name])
		if err != nil {
			return "", errors.CacheKeyError(
				fmt.Sprintf("keyword argument %q of %q is not representable", name, op), err)
		}
		parts = append(parts, name+"="+repr)
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, keyDelimiter)))
	return hex.EncodeToString(sum[:])[:keyHashLen], nil
}

// argRepr renders one argument value deterministically.
func argRepr(v interface{}) (string, error) {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.Ptr, reflect.UnsafePointer:
		return "", fmt.Errorf("%T has no stable string representation", v)
	}
	return fmt.Sprintf("%#v", v), nil
}
