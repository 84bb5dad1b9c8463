package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirRules_FromFlags(t *testing.T) {
	o := &CommandOptions{Keep: []string{"a/b"}, Delete: []string{"c"}}

	rs, functions, err := o.dirRules()
	require.NoError(t, err)
	assert.Equal(t, []string{rules.TargetAll}, functions)
	assert.Equal(t, []string{rules.KeyKeep, rules.KeyDelete}, rs.Keys)
	assert.NoError(t, rules.Validate(rs, functions))
	assert.Equal(t, rules.UnitRules{Target: rules.TargetAll, Keep: []string{"a/b"}, Delete: []string{"c"}},
		rs.ForTarget(rules.TargetAll))
}

func TestDirRules_FromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serverless.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
functions:
  api: {}
custom:
  prunePath:
    delete:
      api: [docs]
`), 0o644))

	o := &CommandOptions{ConfigFile: path}
	rs, functions, err := o.dirRules()
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, functions)
	assert.Equal(t, []string{"docs"}, rs.ForTarget(rules.TargetAll).Delete)
}

func TestDir_Command(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"keep.txt", "drop.txt", "sub/x.txt"} {
		full := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	RootCmd.SetArgs([]string{"dir", root, "--keep", "keep.txt", "--log-format", "text", "-v", "error"})
	require.NoError(t, RootCmd.Execute())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Name())
}
