// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Priority orders pipeline stages. It is an exact rational number, so two
// priorities written as "0.1" and 0.1 compare equal and no rounding can make
// distinct configured values collide.
type Priority struct {
	r *big.Rat
}

// ParsePriority converts a configured value, a number or a numeric string,
// into a Priority.
func ParsePriority(v cty.Value) (Priority, error) {
	if v.IsNull() || !v.IsKnown() {
		return Priority{}, fmt.Errorf("priority has no value")
	}
	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return Priority{}, fmt.Errorf("priority is not a number: %w", err)
	}
	bf := num.AsBigFloat()
	if bf.IsInf() {
		return Priority{}, fmt.Errorf("priority must be finite")
	}
	// The shortest decimal form that round-trips at the value's precision
	// recovers the literal the user wrote.
	r, ok := new(big.Rat).SetString(bf.Text('g', -1))
	if !ok {
		return Priority{}, fmt.Errorf("priority %s cannot be represented exactly", bf.Text('g', -1))
	}
	return Priority{r: r}, nil
}

// MustPriority builds a Priority from a float64 literal. It is meant for
// tests and programmatic configuration.
func MustPriority(f float64) Priority {
	p, err := ParsePriority(cty.NumberFloatVal(f))
	if err != nil {
		panic(err)
	}
	return p
}

// Compare returns -1, 0 or +1.
func (p Priority) Compare(o Priority) int {
	return p.r.Cmp(o.r)
}

// Key returns a canonical representation usable as a map key.
func (p Priority) Key() string {
	return p.r.RatString()
}

// String renders the priority as a decimal number.
func (p Priority) String() string {
	if p.r == nil {
		return "<nil>"
	}
	f, _ := p.r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}
