// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package component

import "strings"

// Capability is a bit set of the roles a registered type can play.
type Capability uint8

const (
	// CapComponent marks a type usable as a pipeline element at all.
	CapComponent Capability = 1 << iota
	// CapProblem marks the data source of a pipeline.
	CapProblem
	// CapModel marks a trainable component.
	CapModel
	// CapLoss marks a component whose output is a backpropagation root.
	CapLoss
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapComponent, "Component"},
	{CapProblem, "Problem"},
	{CapModel, "Model"},
	{CapLoss, "Loss"},
}

// Has reports whether all bits of other are set in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// String renders the set as e.g. "Component|Model".
func (c Capability) String() string {
	var parts []string
	for _, cn := range capabilityNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
