package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAMLDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gomus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
strategy: dichotomic
trim_iterations: 5
trim_to_fixpoint: true
workers: 4
`), 0o644))

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dichotomic", d.Strategy)
	assert.Equal(t, 5, d.TrimIterations)
	assert.True(t, d.TrimToFixpoint)
	assert.Equal(t, 4, d.Workers)
}

func TestLoadMissingFileReturnsZeroDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Defaults{}, d)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gomus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: [unterminated\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
