package zeroone

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
	PredictionsKey = "predictions"
	TargetsKey     = "targets"
	LossKey        = "loss"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Loss computes the fraction of predictions that differ from their target.
type Loss struct {
	component.Base
	predictions, targets, loss string
}

// New is the constructor registered for the ZeroOneLoss type.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	l := &Loss{Base: base}
	l.predictions = l.DeclareInput(PredictionsKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "predicted labels"))
	l.targets = l.DeclareInput(TargetsKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "target labels"))
	l.loss = l.DeclareOutput(LossKey, data.NewDefinition([]int{1}, []cty.Type{cty.Number}, "zero-one loss of the batch"))
	return l, nil
}

// LossKey implements component.Loss.
func (l *Loss) LossKey() string {
	return l.loss
}

// Forward implements component.Component. An empty batch has a loss of 0.
func (l *Loss) Forward(ctx context.Context, dd data.DataDict) error {
	predictions, err := data.Get[[]string](dd, l.predictions)
	if err != nil {
		return err
	}
	targets, err := data.Get[[]string](dd, l.targets)
	if err != nil {
		return err
	}
	if len(predictions) != len(targets) {
		return fmt.Errorf("got %d predictions for %d targets", len(predictions), len(targets))
	}

	wrong := 0
	for i := range predictions {
		if predictions[i] != targets[i] {
			wrong++
		}
	}
	loss := 0.0
	if len(targets) > 0 {
		loss = float64(wrong) / float64(len(targets))
	}
	dd[l.loss] = loss
	return nil
}

// Register registers the ZeroOneLoss type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".losses.ZeroOneLoss",
		Alias:        "ZeroOneLoss",
		Capabilities: component.CapComponent | component.CapLoss,
		New:          New,
		Description:  "Fraction of mismatched predictions.",
	})
}
