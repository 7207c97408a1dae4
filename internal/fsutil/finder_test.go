package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, name := range []string{"z.hcl", "a/b.hcl", "a/c.txt", ".cache/hidden.hcl", "a/.d/e.hcl"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "b.hcl"), filepath.Join(root, "z.hcl")}, files)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
	require.Error(t, err)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
}
