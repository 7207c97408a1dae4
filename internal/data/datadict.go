// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package data

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrMissingKey = errors.New("key not found in data dict")
	ErrKeyExists  = errors.New("key already present in data dict")
	ErrWrongType  = errors.New("unexpected value type in data dict")
)

// DataDict is the mutable container passed through every component during
// one batch pass. The problem populates it and each component reads earlier
// values and adds its own. It is not safe for concurrent use.
type DataDict map[string]any

// New returns an empty DataDict.
func New() DataDict {
	return make(DataDict)
}

// Extend adds all given values, failing without modification if any key is
// already present.
func (d DataDict) Extend(values map[string]any) error {
	for k := range values {
		if _, exists := d[k]; exists {
			return fmt.Errorf("%w: %s", ErrKeyExists, k)
		}
	}
	for k, v := range values {
		d[k] = v
	}
	return nil
}

// Keys returns the present keys in lexical order.
func (d DataDict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key, asserted to T.
func Get[T any](d DataDict, key string) (T, error) {
	var zero T
	raw, ok := d[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, want %T", ErrWrongType, key, raw, zero)
	}
	return v, nil
}
