package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestDefinition_Check(t *testing.T) {
	t.Parallel()

	image := NewDefinition([]int{AnySize, 28, 28}, []cty.Type{cty.Number}, "images")

	testCases := []struct {
		name      string
		want      Definition
		produced  Definition
		errCount  int
		errSubstr string
	}{
		{
			name:     "identical definitions",
			want:     image,
			produced: image,
		},
		{
			name:     "wildcard on consumer side",
			want:     NewDefinition([]int{AnySize, AnySize, AnySize}, []cty.Type{cty.Number}, ""),
			produced: image,
		},
		{
			name:     "wildcard on producer side",
			want:     NewDefinition([]int{4, 28, 28}, []cty.Type{cty.Number}, ""),
			produced: image,
		},
		{
			name:      "dimension count mismatch",
			want:      NewDefinition([]int{AnySize, 784}, []cty.Type{cty.Number}, ""),
			produced:  image,
			errCount:  1,
			errSubstr: "expected 2 dimensions",
		},
		{
			name:      "fixed dimension mismatch",
			want:      NewDefinition([]int{AnySize, 32, 32}, []cty.Type{cty.Number}, ""),
			produced:  image,
			errCount:  1,
			errSubstr: "dimension 1 mismatch",
		},
		{
			name:      "type mismatch",
			want:      NewDefinition([]int{AnySize, 28, 28}, []cty.Type{cty.String}, ""),
			produced:  image,
			errCount:  1,
			errSubstr: "type mismatch",
		},
		{
			name:      "shape and type mismatch count separately",
			want:      NewDefinition([]int{AnySize}, []cty.Type{cty.String}, ""),
			produced:  image,
			errCount:  2,
			errSubstr: "dimensions",
		},
		{
			name:     "untyped consumer accepts anything",
			want:     NewDefinition(nil, nil, ""),
			produced: image,
		},
		{
			name:     "any type accepts anything",
			want:     NewDefinition([]int{AnySize, 28, 28}, []cty.Type{cty.DynamicPseudoType}, ""),
			produced: image,
		},
		{
			name:     "producer types subset of consumer types",
			want:     NewDefinition(nil, []cty.Type{cty.String, cty.Number}, ""),
			produced: NewDefinition(nil, []cty.Type{cty.Number}, ""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			errs := tc.want.Check("image", tc.produced)
			require.Len(t, errs, tc.errCount)
			if tc.errSubstr != "" {
				assert.Contains(t, errs[0].Error(), tc.errSubstr)
			}
		})
	}
}

func TestDefinition_String(t *testing.T) {
	t.Parallel()

	d := NewDefinition([]int{AnySize, 10}, []cty.Type{cty.Number, cty.List(cty.String)}, "logits")
	assert.Equal(t, "[-1, 10], [number, list(string)], logits", d.String())
	assert.Equal(t, "[*], [any], ", Definition{}.String())
}

func TestDefinitionSet_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := DefinitionSet{"a": NewDefinition([]int{1}, nil, "a")}
	clone := orig.Clone()
	clone["b"] = NewDefinition([]int{2}, nil, "b")

	assert.Len(t, orig, 1)
	assert.Len(t, clone, 2)
	assert.Equal(t, []string{"a", "b"}, clone.Keys())
	assert.Equal(t, "a: [1], [any], a\nb: [2], [any], b\n", clone.String())
}
