// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// AnySize is the dimension wildcard: a slot declared with AnySize at some
// position accepts any size at that position.
const AnySize = -1

// Definition is the contract for one named data slot.
type Definition struct {
	// Dimensions describes the shape of the slot. AnySize marks a free
	// dimension; a nil slice places no constraint on the shape at all.
	Dimensions []int

	// Types is the set of semantic types the slot may carry. An empty set, or
	// a set containing cty.DynamicPseudoType, accepts everything.
	Types []cty.Type

	// Description is a human readable explanation of the slot.
	Description string
}

// NewDefinition is a convenience constructor.
func NewDefinition(dims []int, types []cty.Type, description string) Definition {
	return Definition{Dimensions: dims, Types: types, Description: description}
}

// Accepts reports whether a value of type ty may be stored in the slot.
func (d Definition) Accepts(ty cty.Type) bool {
	if len(d.Types) == 0 {
		return true
	}
	for _, t := range d.Types {
		if t.Equals(cty.DynamicPseudoType) || t.Equals(ty) {
			return true
		}
	}
	return false
}

// Check validates that a slot produced as described by produced satisfies the
// requirements of d. Each returned error is one independent mismatch.
func (d Definition) Check(key string, produced Definition) []error {
	var errs []error

	if d.Dimensions != nil && produced.Dimensions != nil {
		if len(d.Dimensions) != len(produced.Dimensions) {
			errs = append(errs, fmt.Errorf("field '%s': expected %d dimensions %s, got %d dimensions %s",
				key, len(d.Dimensions), formatDims(d.Dimensions), len(produced.Dimensions), formatDims(produced.Dimensions)))
		} else {
			for i, want := range d.Dimensions {
				got := produced.Dimensions[i]
				if want == AnySize || got == AnySize || want == got {
					continue
				}
				errs = append(errs, fmt.Errorf("field '%s': dimension %d mismatch, expected %d, got %d (expected %s, got %s)",
					key, i, want, got, formatDims(d.Dimensions), formatDims(produced.Dimensions)))
				break
			}
		}
	}

	for _, ty := range produced.Types {
		if !d.Accepts(ty) {
			errs = append(errs, fmt.Errorf("field '%s': type mismatch, expected one of %s, got %s",
				key, formatTypes(d.Types), formatTypes(produced.Types)))
			break
		}
	}

	return errs
}

// String renders the definition as "dims, types, description".
func (d Definition) String() string {
	return fmt.Sprintf("%s, %s, %s", formatDims(d.Dimensions), formatTypes(d.Types), d.Description)
}

func formatDims(dims []int) string {
	if dims == nil {
		return "[*]"
	}
	parts := make([]string, len(dims))
	for i, dim := range dims {
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatTypes(types []cty.Type) string {
	if len(types) == 0 {
		return "[any]"
	}
	parts := make([]string, len(types))
	for i, ty := range types {
		parts[i] = TypeString(ty)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DefinitionSet maps slot names to their definitions.
type DefinitionSet map[string]Definition

// Keys returns the slot names in lexical order.
func (s DefinitionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the set. Definitions are values, so the copy
// can grow independently of the original.
func (s DefinitionSet) Clone() DefinitionSet {
	out := make(DefinitionSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String renders the set one slot per line, in key order.
func (s DefinitionSet) String() string {
	var b strings.Builder
	for _, k := range s.Keys() {
		fmt.Fprintf(&b, "%s: %s\n", k, s[k])
	}
	return b.String()
}
