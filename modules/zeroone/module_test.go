package zeroone_test

import (
	"testing"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/specialistvlad/pipegrid/internal/testutil"
	"github.com/specialistvlad/pipegrid/modules/zeroone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newLoss(t *testing.T, params map[string]cty.Value) component.Loss {
	t.Helper()
	ctx, _ := testutil.LogContext()
	r := registry.New()
	(&zeroone.Module{}).Register(r)

	params[registry.TypeParam] = cty.StringVal("ZeroOneLoss")
	comp, _, err := r.Create(ctx, "loss", config.NewSection("loss", params).Params)
	require.NoError(t, err)
	return comp.(component.Loss)
}

func TestLoss_Forward(t *testing.T) {
	t.Parallel()
	l := newLoss(t, map[string]cty.Value{})
	ctx, _ := testutil.LogContext()

	assert.Equal(t, "loss", l.LossKey())

	dd := data.DataDict{
		"predictions": []string{"a", "b", "c", "d"},
		"targets":     []string{"a", "x", "c", "y"},
	}
	require.NoError(t, l.Forward(ctx, dd))
	assert.InDelta(t, 0.5, dd["loss"], 1e-9)

	dd = data.DataDict{"predictions": []string{}, "targets": []string{}}
	require.NoError(t, l.Forward(ctx, dd))
	assert.Equal(t, 0.0, dd["loss"])

	err := l.Forward(ctx, data.DataDict{"predictions": []string{"a"}, "targets": []string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 1 predictions for 0 targets")
}

func TestLoss_RenamedKey(t *testing.T) {
	t.Parallel()
	l := newLoss(t, map[string]cty.Value{
		"streams": cty.ObjectVal(map[string]cty.Value{
			"loss":    cty.StringVal("error_rate"),
			"targets": cty.StringVal("labels"),
		}),
	})
	assert.Equal(t, "error_rate", l.LossKey())
	assert.Equal(t, []string{"labels", "predictions"}, l.InputDefinitions().Keys())
	assert.Equal(t, []string{"error_rate"}, l.OutputDefinitions().Keys())
}
