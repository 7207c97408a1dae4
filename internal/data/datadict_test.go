package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDict_Extend(t *testing.T) {
	t.Parallel()

	dd := New()
	require.NoError(t, dd.Extend(map[string]any{"a": 1, "b": "x"}))
	assert.Equal(t, []string{"a", "b"}, dd.Keys())

	// A colliding key rejects the whole batch of values.
	err := dd.Extend(map[string]any{"c": 3, "a": 2})
	require.ErrorIs(t, err, ErrKeyExists)
	assert.Equal(t, 1, dd["a"])
	assert.NotContains(t, dd, "c")
}

func TestGet(t *testing.T) {
	t.Parallel()

	dd := DataDict{"tokens": [][]string{{"a"}}, "count": 3}

	tokens, err := Get[[][]string](dd, "tokens")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}}, tokens)

	_, err = Get[string](dd, "count")
	require.ErrorIs(t, err, ErrWrongType)

	_, err = Get[int](dd, "missing")
	require.ErrorIs(t, err, ErrMissingKey)
}
