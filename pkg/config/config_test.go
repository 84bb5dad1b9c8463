package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kukaryambik/prunepath/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleService = `
service: my-service
functions:
  Api:
    handler: api.handler
  worker: {}
  cron:
package:
  individually: true
custom:
  prunePath:
    keep:
      all:
        - node_modules/library/file3.txt
    delete:
      worker: [node_modules/file2.txt]
      cron:
`

func TestParse(t *testing.T) {
	svc, err := Parse([]byte(sampleService))
	require.NoError(t, err)

	assert.Equal(t, "my-service", svc.Name)
	assert.Equal(t, []string{"Api", "worker", "cron"}, svc.Functions)
	assert.True(t, svc.Package.Individually)
	assert.Equal(t, DefaultArtifactDir, svc.Package.ArtifactDirectory)

	rs := svc.PrunePath
	require.NotNil(t, rs)
	assert.Equal(t, []string{rules.KeyKeep, rules.KeyDelete}, rs.Keys)
	assert.Equal(t, rules.KindTargets, rs.Keep.Kind)
	assert.Equal(t, []string{"node_modules/library/file3.txt"}, rs.Keep.Targets[rules.TargetAll])
	assert.Equal(t, []string{"worker", "cron"}, rs.Delete.Keys())
	assert.Empty(t, rs.Delete.Targets["cron"])

	// An empty target list is reported once paths are checked.
	assert.NoError(t, rules.Validate(rs, svc.Functions))
	assert.EqualError(t, svc.Validate(), "Empty value for key: cron")
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind *rules.Error
	}{
		{
			name: "no custom",
			doc:  "service: s\nfunctions: {a: {}}\n",
			kind: rules.ErrConfigMissing,
		},
		{
			name: "no prunePath",
			doc:  "service: s\nfunctions: {a: {}}\ncustom:\n  other: 1\n",
			kind: rules.ErrConfigMissing,
		},
		{
			name: "empty prunePath",
			doc:  "functions: {a: {}}\ncustom:\n  prunePath:\n",
			kind: rules.ErrEmptyConfig,
		},
		{
			name: "legacy list",
			doc:  "functions: {a: {}}\ncustom:\n  prunePath:\n    keep: [x]\n",
			kind: rules.ErrLegacyShape,
		},
		{
			name: "invalid key",
			doc:  "functions: {a: {}}\ncustom:\n  prunePath:\n    keep: {all: [x]}\n    bogus: 1\n",
			kind: rules.ErrInvalidKey,
		},
		{
			name: "no functions",
			doc:  "custom:\n  prunePath:\n    delete: {all: [x]}\n",
			kind: rules.ErrNoTargets,
		},
		{
			name: "function name case matters",
			doc:  "functions: {Api: {}}\ncustom:\n  prunePath:\n    delete: {api: [x]}\n",
			kind: rules.ErrUnknownTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.ErrorIs(t, svc.Validate(), tt.kind)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("custom:\n  prunePath:\n    keep: scalar\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("functions: [a, b]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("service: [unclosed\n"))
	assert.Error(t, err)

	svc, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, svc.PrunePath)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(sampleService), 0o644))

	svc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, svc.Dir)
	assert.Equal(t, filepath.Join(dir, ".serverless"), svc.ArtifactDir())

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}

func TestArtifactDir(t *testing.T) {
	svc := &Service{Dir: "/srv/app", Package: Package{ArtifactDirectory: "build/out"}}
	assert.Equal(t, filepath.Join("/srv/app", "build/out"), svc.ArtifactDir())

	svc.Package.ArtifactDirectory = "/abs/out"
	assert.Equal(t, "/abs/out", svc.ArtifactDir())
}
