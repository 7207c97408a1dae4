package sentences_test

import (
	"testing"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/specialistvlad/pipegrid/internal/testutil"
	"github.com/specialistvlad/pipegrid/modules/sentences"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func tuple(values ...string) cty.Value {
	out := make([]cty.Value, len(values))
	for i, v := range values {
		out[i] = cty.StringVal(v)
	}
	return cty.TupleVal(out)
}

func newProblem(t *testing.T, params map[string]cty.Value) (component.Problem, error) {
	t.Helper()
	ctx, _ := testutil.LogContext()
	r := registry.New()
	(&sentences.Module{}).Register(r)

	params[registry.TypeParam] = cty.StringVal("Sentences")
	comp, _, err := r.Create(ctx, "data", config.NewSection("data", params).Params)
	if err != nil {
		return nil, err
	}
	return comp.(component.Problem), nil
}

func TestSentences_Batch(t *testing.T) {
	t.Parallel()
	p, err := newProblem(t, map[string]cty.Value{
		"sentences": tuple("the cat", "a dog", "birds fly"),
		"labels":    tuple("cat", "dog", "bird"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"labels", "sentences"}, p.OutputDefinitions().Keys())

	ctx, _ := testutil.LogContext()
	dd, err := p.Batch(ctx, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"birds fly", "the cat"}, dd["sentences"])
	assert.Equal(t, []string{"bird", "cat"}, dd["labels"])

	_, err = p.Batch(ctx, []int{3})
	require.Error(t, err)
}

func TestSentences_Streams(t *testing.T) {
	t.Parallel()
	p, err := newProblem(t, map[string]cty.Value{
		"sentences": tuple("x"),
		"streams":   cty.ObjectVal(map[string]cty.Value{"sentences": cty.StringVal("text")}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, p.OutputDefinitions().Keys())

	ctx, _ := testutil.LogContext()
	dd, err := p.Batch(ctx, []int{0})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, dd["text"])
	assert.NotContains(t, dd, "labels")
}

func TestSentences_Invalid(t *testing.T) {
	t.Parallel()

	_, err := newProblem(t, map[string]cty.Value{})
	require.ErrorIs(t, err, config.ErrMissingParam)

	_, err = newProblem(t, map[string]cty.Value{
		"sentences": tuple("a", "b"),
		"labels":    tuple("only one"),
	})
	var cerr *registry.ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "got 1 labels for 2 sentences")
}
