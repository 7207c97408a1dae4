package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a pipeline
// configuration.
type Model struct {
	// Problems holds every problem section found, in load order. A valid
	// configuration has exactly one.
	Problems []*Section

	// Pipeline holds the pipeline sections in their declared order, including
	// reserved and skipped ones.
	Pipeline []*Section
}

// Section is a single named configuration entry. Block-like entries carry
// Params; scalar entries (e.g. `seed_numpy = 42`) carry only Value.
type Section struct {
	Name   string
	Params Params
	Value  cty.Value
	Range  hcl.Range
}

// IsBlock reports whether the section is a parameter block rather than a
// scalar entry.
func (s *Section) IsBlock() bool {
	return s.Params != nil
}

// NewSection is a convenience constructor for a block section, mostly used
// by tests and programmatic configuration.
func NewSection(name string, params map[string]cty.Value) *Section {
	p := make(Params, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &Section{Name: name, Params: p}
}

// Find returns the first pipeline section with the given name.
func (m *Model) Find(name string) (*Section, bool) {
	for _, s := range m.Pipeline {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
