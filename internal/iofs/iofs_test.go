package iofs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CUAHSI-APPS/timeseries-manager/internal/iofs"
	"github.com/CUAHSI-APPS/timeseries-manager/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))

	for _, dir := range []string{
		config.ConfigDir(home),
		config.WorkspaceDir(home),
		config.LogDir(home),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), dir)
	}

	// A second run is a no-op.
	require.NoError(t, iofs.EnsureDirs(home))
}

func TestEnsureConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))

	path := config.ConfigFilePath(home)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, iofs.ConfigYAML, string(data))

	// An existing file is never overwritten.
	require.NoError(t, os.WriteFile(path, []byte("edited: true\n"), 0644))
	require.NoError(t, iofs.EnsureConfigFile(home))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited: true\n", string(data))
}

func TestResetSessionDir(t *testing.T) {
	workspace := t.TempDir()
	dir, err := iofs.ResetSessionDir(workspace, "f3b2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workspace, "f3b2"), dir)

	stale := filepath.Join(dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	_, err = iofs.ResetSessionDir(workspace, "f3b2")
	require.NoError(t, err)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.sqlite")
	dst := filepath.Join(dir, "dst.sqlite")
	require.NoError(t, os.WriteFile(src, []byte("template bytes"), 0644))

	require.NoError(t, iofs.CopyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "template bytes", string(data))

	err = iofs.CopyFile(filepath.Join(dir, "absent"), dst)
	assert.Error(t, err)
}

func TestEmbeddedAssets(t *testing.T) {
	assert.NotEmpty(t, iofs.ConfigYAML)
	assert.NotEmpty(t, iofs.PolicyYAML)
	assert.Contains(t, iofs.PolicyYAML, "tolerated")
}
