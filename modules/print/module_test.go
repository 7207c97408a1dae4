package print

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/specialistvlad/pipegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newViewer(t *testing.T, params map[string]cty.Value) (*Viewer, *bytes.Buffer) {
	t.Helper()
	ctx, _ := testutil.LogContext()
	r := registry.New()
	(&Module{}).Register(r)

	params[registry.TypeParam] = cty.StringVal("StreamViewer")
	comp, _, err := r.Create(ctx, "viewer", config.NewSection("viewer", params).Params)
	require.NoError(t, err)

	v := comp.(*Viewer)
	buf := &bytes.Buffer{}
	v.out = buf
	return v, buf
}

func TestViewer_SelectedKeys(t *testing.T) {
	t.Parallel()
	v, buf := newViewer(t, map[string]cty.Value{
		"keys":  cty.TupleVal([]cty.Value{cty.StringVal("sentences"), cty.StringVal("loss"), cty.StringVal("absent")}),
		"limit": cty.NumberIntVal(2),
	})
	assert.Equal(t, []string{"absent", "loss", "sentences"}, v.InputDefinitions().Keys())

	ctx, logs := testutil.LogContext()
	dd := data.DataDict{
		"sentences": []string{"a b", "c d", "e f", "g h"},
		"loss":      0.25,
		"ignored":   []int{1},
	}
	require.NoError(t, v.Forward(ctx, dd))

	want := "  viewer:\n" +
		"      sentences = [\"a b\" \"c d\"] ... (2 more)\n" +
		"      loss = 0.25\n" +
		"      absent = (missing)\n"
	assert.Equal(t, want, buf.String())
	assert.Len(t, dd, 3)
	assert.Contains(t, logs.String(), "Printing streams")
}

func TestViewer_AllKeys(t *testing.T) {
	t.Parallel()
	v, buf := newViewer(t, map[string]cty.Value{})
	assert.Empty(t, v.InputDefinitions())

	ctx, _ := testutil.LogContext()
	require.NoError(t, v.Forward(ctx, data.DataDict{"b": []int{1, 2}, "a": nil}))
	assert.Equal(t, "  viewer:\n      a = (null)\n      b = [1 2]\n", buf.String())
}

func TestViewer_InvalidLimit(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.LogContext()
	r := registry.New()
	(&Module{}).Register(r)

	_, _, err := r.Create(ctx, "viewer", config.Params{
		registry.TypeParam: cty.StringVal("StreamViewer"),
		"limit":            cty.NumberIntVal(0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be positive")
}

func TestViewer_TypedKeys(t *testing.T) {
	t.Parallel()
	v, _ := newViewer(t, map[string]cty.Value{
		"keys":  cty.TupleVal([]cty.Value{cty.StringVal("tokens"), cty.StringVal("loss")}),
		"types": cty.ObjectVal(map[string]cty.Value{"tokens": cty.StringVal("list(string)")}),
	})

	defs := v.InputDefinitions()
	assert.Equal(t, []cty.Type{cty.List(cty.String)}, defs["tokens"].Types)
	assert.Empty(t, defs["loss"].Types)

	ctx, _ := testutil.LogContext()
	r := registry.New()
	(&Module{}).Register(r)
	for _, tc := range []struct {
		types  cty.Value
		errMsg string
	}{
		{types: cty.ObjectVal(map[string]cty.Value{"tokens": cty.StringVal("list(")}), errMsg: "type of key 'tokens'"},
		{types: cty.ObjectVal(map[string]cty.Value{"other": cty.StringVal("string")}), errMsg: "not listed in keys"},
	} {
		_, _, err := r.Create(ctx, "viewer", config.Params{
			registry.TypeParam: cty.StringVal("StreamViewer"),
			"keys":             cty.TupleVal([]cty.Value{cty.StringVal("tokens")}),
			"types":            tc.types,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.errMsg)
	}
}
