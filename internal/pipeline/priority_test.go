package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		value   cty.Value
		want    string
		wantErr string
	}{
		{name: "integer", value: cty.NumberIntVal(3), want: "3"},
		{name: "float", value: cty.NumberFloatVal(1.5), want: "1.5"},
		{name: "negative", value: cty.NumberFloatVal(-0.25), want: "-0.25"},
		{name: "numeric string", value: cty.StringVal("2.0"), want: "2"},
		{name: "exponent string", value: cty.StringVal("1e3"), want: "1000"},
		{name: "not numeric", value: cty.StringVal("high"), wantErr: "not a number"},
		{name: "boolean", value: cty.True, wantErr: "not a number"},
		{name: "null", value: cty.NullVal(cty.Number), wantErr: "no value"},
		{name: "unknown", value: cty.UnknownVal(cty.Number), wantErr: "no value"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := ParsePriority(tc.value)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.String())
		})
	}
}

func TestPriority_ExactComparison(t *testing.T) {
	t.Parallel()

	parsedLiteral, err := cty.ParseNumberVal("0.1")
	require.NoError(t, err)

	fromLiteral, err := ParsePriority(parsedLiteral)
	require.NoError(t, err)
	fromString, err := ParsePriority(cty.StringVal("0.1"))
	require.NoError(t, err)
	fromFloat := MustPriority(0.1)

	assert.Equal(t, 0, fromLiteral.Compare(fromString))
	assert.Equal(t, 0, fromLiteral.Compare(fromFloat))
	assert.Equal(t, fromLiteral.Key(), fromFloat.Key())
	assert.Equal(t, "1/10", fromFloat.Key())

	// Values a float64 cannot tell apart remain distinct.
	a, err := ParsePriority(cty.StringVal("1.00000000000000000001"))
	require.NoError(t, err)
	b, err := ParsePriority(cty.StringVal("1"))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Compare(b))
	assert.NotEqual(t, a.Key(), b.Key())

	assert.Equal(t, -1, MustPriority(1).Compare(MustPriority(2)))
	assert.Equal(t, "<nil>", Priority{}.String())
}
