// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package component

import (
	"context"

	"github.com/specialistvlad/pipegrid/internal/data"
)

// Component is a single stage of a pipeline.
type Component interface {
	// Name returns the configuration section name the component was built from.
	Name() string

	// InputDefinitions returns the slots the component reads.
	InputDefinitions() data.DefinitionSet

	// OutputDefinitions returns the slots the component writes.
	OutputDefinitions() data.DefinitionSet

	// HandshakeInputs checks the declared inputs against all, the definitions
	// accumulated so far, and returns the number of problems found. Problems
	// are logged when log is set.
	HandshakeInputs(ctx context.Context, all data.DefinitionSet, log bool) int

	// ExportOutputs merges the declared outputs into all and returns the
	// number of conflicts found.
	ExportOutputs(ctx context.Context, all data.DefinitionSet, log bool) int

	// Forward processes one batch, reading from and writing to dd.
	Forward(ctx context.Context, dd data.DataDict) error
}

// Problem is the data source of a pipeline. Its output definitions seed the
// handshake and its batches seed every execution pass.
type Problem interface {
	Component

	// Len returns the number of samples available.
	Len() int

	// Batch assembles a DataDict holding the samples at the given indices.
	Batch(ctx context.Context, indices []int) (data.DataDict, error)
}

// Model is a trainable component.
type Model interface {
	Component

	Freeze()
	Unfreeze()
	Frozen() bool
}

// Loss is a component whose output slot is a root for backpropagation.
type Loss interface {
	Component

	// LossKey returns the DataDict key holding the loss value.
	LossKey() string
}
