package testutil

import (
	"context"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
)

// FakeType describes a component type for tests. Its constructor produces a
// component with fixed definitions; Forward records the call and writes the
// section name into every declared output.
type FakeType struct {
	// Alias is the short name; the qualified name is "pipegrid.fake.<Alias>".
	Alias        string
	Capabilities component.Capability
	Inputs       data.DefinitionSet
	Outputs      data.DefinitionSet

	// NewErr is returned by the constructor when set.
	NewErr error
	// ForwardErr is returned by Forward when set.
	ForwardErr error
	// Plain builds a component that implements only component.Component,
	// whatever its declared capabilities.
	Plain bool
	// Samples is the dataset size of problems.
	Samples int
	// Calls receives the section name of every Forward invocation.
	Calls *[]string
}

// Registration converts the fake into a registry entry.
func (f FakeType) Registration() registry.Registration {
	return registry.Registration{
		Name:         registry.Namespace + ".fake." + f.Alias,
		Alias:        f.Alias,
		Capabilities: f.Capabilities,
		New:          f.build,
	}
}

func (f FakeType) build(ctx context.Context, name string, params config.Params) (component.Component, error) {
	if f.NewErr != nil {
		return nil, f.NewErr
	}
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	for k, v := range f.Inputs {
		base.DeclareInput(k, v)
	}
	for k, v := range f.Outputs {
		base.DeclareOutput(k, v)
	}

	plain := &Plain{Base: base, fake: f}
	switch {
	case f.Plain:
		return plain, nil
	case f.Capabilities.Has(component.CapProblem):
		return &Problem{Plain: plain}, nil
	default:
		return &Stage{Plain: plain}, nil
	}
}

// SimpleModule is a test helper for easily creating a mock module that
// registers a set of fake types.
type SimpleModule struct {
	Types []FakeType
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for _, f := range m.Types {
		r.Register(f.Registration())
	}
}

// NewRegistry returns a registry with the given fake types registered.
func NewRegistry(types ...FakeType) *registry.Registry {
	r := registry.New()
	(&SimpleModule{Types: types}).Register(r)
	return r
}

// Plain is a component implementing nothing beyond component.Component.
type Plain struct {
	component.Base
	fake FakeType
}

// Forward implements component.Component.
func (p *Plain) Forward(ctx context.Context, dd data.DataDict) error {
	if p.fake.Calls != nil {
		*p.fake.Calls = append(*p.fake.Calls, p.Name())
	}
	if p.fake.ForwardErr != nil {
		return p.fake.ForwardErr
	}
	for key := range p.OutputDefinitions() {
		dd[key] = p.Name()
	}
	return nil
}

// Stage additionally satisfies component.Model and component.Loss.
type Stage struct {
	*Plain
	frozen bool
}

func (s *Stage) Freeze()      { s.frozen = true }
func (s *Stage) Unfreeze()    { s.frozen = false }
func (s *Stage) Frozen() bool { return s.frozen }

// LossKey returns the first output key in lexical order.
func (s *Stage) LossKey() string {
	keys := s.OutputDefinitions().Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Problem additionally satisfies component.Problem.
type Problem struct {
	*Plain
}

// Len implements component.Problem.
func (p *Problem) Len() int { return p.fake.Samples }

// Batch fills every declared output with the requested indices.
func (p *Problem) Batch(ctx context.Context, indices []int) (data.DataDict, error) {
	dd := data.New()
	for key := range p.OutputDefinitions() {
		dd[key] = append([]int(nil), indices...)
	}
	return dd, nil
}
