package majority

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Default slot keys, renamable through the `streams` parameter.
const (
	InputsKey      = "inputs"
	TargetsKey     = "targets"
	PredictionsKey = "predictions"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of a MajorityClassifier section.
type Input struct {
	// Default is predicted before any label has been seen.
	Default string `param:"default,optional"`
}

// Classifier is a baseline model that predicts, for every sample, the most
// frequent target label it has been trained on. Ties go to the label that
// sorts first. While frozen it keeps predicting but stops counting.
type Classifier struct {
	component.Base
	input Input

	in, targets, predictions string

	counts map[string]int
	frozen bool
}

// New is the constructor registered for the MajorityClassifier type.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	c := &Classifier{Base: base, counts: make(map[string]int)}
	if err := params.Decode(&c.input); err != nil {
		return nil, err
	}

	c.in = c.DeclareInput(InputsKey, data.NewDefinition(nil, nil, "samples, only their count is used"))
	c.targets = c.DeclareInput(TargetsKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "target labels"))
	c.predictions = c.DeclareOutput(PredictionsKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "predicted labels"))
	return c, nil
}

func (c *Classifier) Freeze()      { c.frozen = true }
func (c *Classifier) Unfreeze()    { c.frozen = false }
func (c *Classifier) Frozen() bool { return c.frozen }

// Majority returns the label currently predicted.
func (c *Classifier) Majority() string {
	best, bestCount := c.input.Default, 0
	for label, n := range c.counts {
		if n > bestCount || (n == bestCount && label < best) {
			best, bestCount = label, n
		}
	}
	return best
}

// Forward implements component.Component.
func (c *Classifier) Forward(ctx context.Context, dd data.DataDict) error {
	raw, ok := dd[c.in]
	if !ok {
		return fmt.Errorf("%w: %s", data.ErrMissingKey, c.in)
	}
	samples := reflect.ValueOf(raw)
	if samples.Kind() != reflect.Slice && samples.Kind() != reflect.Array {
		return fmt.Errorf("%w: %s holds %T, want a slice", data.ErrWrongType, c.in, raw)
	}

	if !c.frozen {
		targets, err := data.Get[[]string](dd, c.targets)
		if err != nil {
			return err
		}
		for _, label := range targets {
			c.counts[label]++
		}
	}

	label := c.Majority()
	out := make([]string, samples.Len())
	for i := range out {
		out[i] = label
	}
	dd[c.predictions] = out
	return nil
}

// Register registers the MajorityClassifier type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".models.MajorityClassifier",
		Alias:        "MajorityClassifier",
		Capabilities: component.CapComponent | component.CapModel,
		New:          New,
		Description:  "Predicts the most frequent label seen during training.",
	})
}
