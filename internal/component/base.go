// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package component

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/data"
)

// StreamsParam is the parameter used to rename a component's default slot keys.
const StreamsParam = "streams"

// Base carries the state common to all components. Concrete components embed
// it, declare their slots in their constructor and implement Forward.
type Base struct {
	name    string
	streams map[string]string
	inputs  data.DefinitionSet
	outputs data.DefinitionSet
}

// NewBase reads the common parameters of a component section.
func NewBase(name string, params config.Params) (Base, error) {
	streams, err := params.StringMap(StreamsParam)
	if err != nil {
		return Base{}, err
	}
	return Base{
		name:    name,
		streams: streams,
		inputs:  make(data.DefinitionSet),
		outputs: make(data.DefinitionSet),
	}, nil
}

// Name returns the configuration section name.
func (b *Base) Name() string {
	return b.name
}

// Stream returns the DataDict key bound to the default key, honouring the
// `streams` remapping.
func (b *Base) Stream(key string) string {
	if mapped, ok := b.streams[key]; ok && mapped != "" {
		return mapped
	}
	return key
}

// DeclareInput registers an input slot under the remapped name of key and
// returns that name.
func (b *Base) DeclareInput(key string, def data.Definition) string {
	stream := b.Stream(key)
	b.inputs[stream] = def
	return stream
}

// DeclareOutput registers an output slot under the remapped name of key and
// returns that name.
func (b *Base) DeclareOutput(key string, def data.Definition) string {
	stream := b.Stream(key)
	b.outputs[stream] = def
	return stream
}

// InputDefinitions returns a copy of the declared inputs.
func (b *Base) InputDefinitions() data.DefinitionSet {
	return b.inputs.Clone()
}

// OutputDefinitions returns a copy of the declared outputs.
func (b *Base) OutputDefinitions() data.DefinitionSet {
	return b.outputs.Clone()
}

// HandshakeInputs implements the default input check: every declared input
// must be present in all and compatible with its definition there.
func (b *Base) HandshakeInputs(ctx context.Context, all data.DefinitionSet, log bool) int {
	return CheckInputs(ctx, b.name, b.inputs, all, log)
}

// ExportOutputs implements the default export: every declared output must be
// new to all.
func (b *Base) ExportOutputs(ctx context.Context, all data.DefinitionSet, log bool) int {
	return MergeOutputs(ctx, b.name, b.outputs, all, log)
}

// CheckInputs validates inputs against all on behalf of the named component.
// Components that override HandshakeInputs can reuse it for the common part.
func CheckInputs(ctx context.Context, name string, inputs, all data.DefinitionSet, log bool) int {
	logger := ctxlog.FromContext(ctx).With("component", name)
	errors := 0
	for _, key := range inputs.Keys() {
		produced, ok := all[key]
		if !ok {
			if log {
				logger.Error(fmt.Sprintf("Input definition: expected field '%s' not found in DataDict keys (%s)", key, strings.Join(all.Keys(), ", ")))
			}
			errors++
			continue
		}
		for _, err := range inputs[key].Check(key, produced) {
			if log {
				logger.Error("Input definition: " + err.Error())
			}
			errors++
		}
	}
	return errors
}

// MergeOutputs adds outputs to all on behalf of the named component, counting
// keys that are already defined.
func MergeOutputs(ctx context.Context, name string, outputs, all data.DefinitionSet, log bool) int {
	logger := ctxlog.FromContext(ctx).With("component", name)
	errors := 0
	for _, key := range outputs.Keys() {
		if _, exists := all[key]; exists {
			if log {
				logger.Error(fmt.Sprintf("Output definition: field '%s' already exists in DataDict", key))
			}
			errors++
			continue
		}
		all[key] = outputs[key]
	}
	return errors
}
