package sentences

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Default slot keys, renamable through the `streams` parameter.
const (
	SentencesKey = "sentences"
	LabelsKey    = "labels"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of a Sentences section.
type Input struct {
	Sentences []string `param:"sentences"`
	Labels    []string `param:"labels,optional"`
}

// Sentences is a problem serving sentences, and optionally their labels,
// listed directly in the configuration.
type Sentences struct {
	component.Base
	input     Input
	sentences string
	labels    string
}

// New is the constructor registered for the Sentences type.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	s := &Sentences{Base: base}
	if err := params.Decode(&s.input); err != nil {
		return nil, err
	}
	if len(s.input.Labels) > 0 && len(s.input.Labels) != len(s.input.Sentences) {
		return nil, fmt.Errorf("got %d labels for %d sentences", len(s.input.Labels), len(s.input.Sentences))
	}

	s.sentences = s.DeclareOutput(SentencesKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "raw sentences"))
	if len(s.input.Labels) > 0 {
		s.labels = s.DeclareOutput(LabelsKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "sentence labels"))
	}
	return s, nil
}

// Len implements component.Problem.
func (s *Sentences) Len() int {
	return len(s.input.Sentences)
}

// Batch implements component.Problem.
func (s *Sentences) Batch(ctx context.Context, indices []int) (data.DataDict, error) {
	sentences := make([]string, 0, len(indices))
	var labels []string
	if s.labels != "" {
		labels = make([]string, 0, len(indices))
	}
	for _, i := range indices {
		if i < 0 || i >= len(s.input.Sentences) {
			return nil, fmt.Errorf("sample index %d out of range [0, %d)", i, len(s.input.Sentences))
		}
		sentences = append(sentences, s.input.Sentences[i])
		if labels != nil {
			labels = append(labels, s.input.Labels[i])
		}
	}

	dd := data.New()
	dd[s.sentences] = sentences
	if labels != nil {
		dd[s.labels] = labels
	}
	return dd, nil
}

// Forward implements component.Component. The problem fills the DataDict in
// Batch, so there is nothing left to do here.
func (s *Sentences) Forward(ctx context.Context, dd data.DataDict) error {
	return nil
}

// Register registers the Sentences type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".problems.Sentences",
		Alias:        "Sentences",
		Capabilities: component.CapComponent | component.CapProblem,
		New:          New,
		Description:  "Sentences and optional labels listed in the configuration.",
	})
}
