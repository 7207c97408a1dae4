package hcl

import (
	"testing"

	"github.com/specialistvlad/pipegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_EvalContext(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"main.hcl": `
problem "db" {
  type  = "SQLiteTable"
  path  = env.CORPUS_DB
  query = upper("select text from corpus")
}

pipeline {
  skip = join(",", ["viewer", lower("EXTRA")])
  viewer {
    keys = split(" ", trimspace("  a b "))
  }
}
`,
	})

	l := &Loader{Environ: []string{"CORPUS_DB=/data/corpus.db", "BROKEN(x86)=ignored", "EMPTY="}}
	ctx, _ := testutil.LogContext()
	model, err := l.Load(ctx, dir)
	require.NoError(t, err)

	path, err := model.Problems[0].Params.String("path")
	require.NoError(t, err)
	assert.Equal(t, "/data/corpus.db", path)
	query, err := model.Problems[0].Params.String("query")
	require.NoError(t, err)
	assert.Equal(t, "SELECT TEXT FROM CORPUS", query)

	skip, _ := model.Find("skip")
	assert.Equal(t, "viewer,extra", skip.Value.AsString())

	viewer, _ := model.Find("viewer")
	keys, err := viewer.Params.Strings("keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestLoader_MissingEnvVariable(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, map[string]string{
		"main.hcl": "pipeline {\n  a { path = env.NOT_SET }\n}\n",
	})

	l := &Loader{Environ: []string{}}
	ctx, _ := testutil.LogContext()
	_, err := l.Load(ctx, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported attribute")
}

func TestHCLIdentifier(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]bool{
		"HOME":              true,
		"_private":          true,
		"my-var2":           true,
		"":                  false,
		"2FAST":             false,
		"ProgramFiles(x86)": false,
	} {
		assert.Equal(t, want, hclIdentifier(name), name)
	}
}
