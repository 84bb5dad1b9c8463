package paths

import (
	"path/filepath"
	"testing"

	"github.com/kukaryambik/prunepath/pkg/fsys"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"a/b":          "a/b",
		"./a//b/":      "a/b",
		"/a/b":         "a/b",
		`a\b\c.txt`:    "a/b/c.txt",
		"a/./b/../c":   "a/c",
		"":             "",
		"/":            "",
		".":            "",
		"./":           "",
		"../x":         "../x",
		"a/../../x":    "../x",
		"node_modules": "node_modules",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestEscapes(t *testing.T) {
	assert.True(t, Escapes(".."))
	assert.True(t, Escapes("../a"))
	assert.True(t, Escapes("a/../../b"))
	assert.False(t, Escapes("a/../b"))
	assert.False(t, Escapes("..a/b"))
}

func TestWithin(t *testing.T) {
	assert.True(t, Within("a/b", "a/b"))
	assert.True(t, Within("a/b/c", "a/b"))
	assert.False(t, Within("a/bc", "a/b"))
	assert.False(t, Within("a", "a/b"))
}

func TestJoinAndDepth(t *testing.T) {
	root := filepath.FromSlash("/tmp/unit")
	assert.Equal(t, filepath.FromSlash("/tmp/unit/a/b"), Join(root, "./a//b/"))
	assert.Equal(t, 3, Depth(filepath.FromSlash("/tmp/unit")))
	assert.Less(t, Depth(filepath.Join(root, "a")), Depth(filepath.Join(root, "a", "b")))
}

func TestPathFrom(t *testing.T) {
	assert.True(t, PathFrom("/a/b", []string{"/x", "/a"}))
	assert.True(t, PathFrom("/a", []string{"/a"}))
	assert.False(t, PathFrom("/ab", []string{"/a"}))
}

func TestResolverCheck(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/unit/Lib", 0o755))
	require.NoError(t, afero.WriteFile(mem, "/unit/Lib/File.txt", nil, 0o644))

	r := NewResolver(fsys.New(mem), "/unit")

	status, resolved, err := r.Check(r.Resolve("Lib/File.txt"))
	require.NoError(t, err)
	assert.Equal(t, Found, status)
	assert.Equal(t, "/unit/Lib/File.txt", resolved)

	status, resolved, err = r.Check(r.Resolve("lib/file.txt"))
	require.NoError(t, err)
	assert.Equal(t, CaseMismatch, status)
	assert.Equal(t, "/unit/Lib/File.txt", resolved)

	status, _, err = r.Check(r.Resolve("Lib/none.txt"))
	require.NoError(t, err)
	assert.Equal(t, Missing, status)
	assert.Equal(t, "missing", status.String())
}
