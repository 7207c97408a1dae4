// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
)

var (
	ErrIndexOutOfRange = errors.New("pipeline index out of range")
	ErrAlreadyBuilt    = errors.New("pipeline has already been built")
)

// PriorityParam is the section parameter holding a stage's priority.
const PriorityParam = "priority"

// stage is a scheduled component together with its registration.
type stage struct {
	priority Priority
	comp     component.Component
	reg      *registry.Registration
}

// Pipeline owns the problem and the priority-ordered stages built from a
// configuration.
type Pipeline struct {
	registry *registry.Registry

	problem    component.Problem
	problemReg *registry.Registration

	stages map[string]*stage
	order  []*stage
	built  bool

	models []component.Model
	losses []component.Loss

	definitions data.DefinitionSet
}

// New creates an empty pipeline resolving types through reg.
func New(reg *registry.Registry) *Pipeline {
	return &Pipeline{
		registry: reg,
		stages:   make(map[string]*stage),
	}
}

// Problem returns the registered problem, or nil.
func (p *Pipeline) Problem() component.Problem {
	return p.problem
}

// Models returns the stages tagged as Model, in build order.
func (p *Pipeline) Models() []component.Model {
	return append([]component.Model(nil), p.models...)
}

// Losses returns the stages tagged as Loss, in build order.
func (p *Pipeline) Losses() []component.Loss {
	return append([]component.Loss(nil), p.losses...)
}

// LossKeys returns the DataDict keys of all loss values.
func (p *Pipeline) LossKeys() []string {
	keys := make([]string, 0, len(p.losses))
	for _, l := range p.losses {
		keys = append(keys, l.LossKey())
	}
	return keys
}

// Definitions returns the DefinitionSet produced by the last successful
// handshake, or nil if none succeeded.
func (p *Pipeline) Definitions() data.DefinitionSet {
	if p.definitions == nil {
		return nil
	}
	return p.definitions.Clone()
}

// Len returns the number of scheduled stages plus one for the problem.
func (p *Pipeline) Len() int {
	n := len(p.order)
	if p.problem != nil {
		n++
	}
	return n
}

// At returns the stage at position i of the ascending priority order.
func (p *Pipeline) At(i int) (component.Component, error) {
	if i < 0 || i >= len(p.order) {
		return nil, fmt.Errorf("%w: %d (stages: %d)", ErrIndexOutOfRange, i, len(p.order))
	}
	return p.order[i].comp, nil
}

// PriorityAt returns the priority of the stage at position i.
func (p *Pipeline) PriorityAt(i int) (Priority, error) {
	if i < 0 || i >= len(p.order) {
		return Priority{}, fmt.Errorf("%w: %d (stages: %d)", ErrIndexOutOfRange, i, len(p.order))
	}
	return p.order[i].priority, nil
}

// Stages returns the scheduled stages in execution order.
func (p *Pipeline) Stages() []component.Component {
	out := make([]component.Component, len(p.order))
	for i, st := range p.order {
		out[i] = st.comp
	}
	return out
}
