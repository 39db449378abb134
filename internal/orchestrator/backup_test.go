package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupIfMissingCreatesSiblingOnce(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sharedassets0.assets")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

	logger := hclog.NewNullLogger()
	require.NoError(t, backupIfMissing(target, logger))

	bak := backupPath(target)
	data, err := os.ReadFile(bak)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	// Mutate the live file, then call backupIfMissing again: the
	// existing backup must not be overwritten.
	require.NoError(t, os.WriteFile(target, []byte("mutated"), 0o644))
	require.NoError(t, backupIfMissing(target, logger))

	data, err = os.ReadFile(bak)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestRevertRestoresFromBackup(t *testing.T) {
	gameDir := t.TempDir()
	assetsDir := filepath.Join(gameDir, "PapersPlease_Data")
	require.NoError(t, os.MkdirAll(assetsDir, 0o755))

	assetsFile := assetsPath(gameDir)
	require.NoError(t, os.WriteFile(assetsFile, []byte("original"), 0o644))

	logger := hclog.NewNullLogger()
	require.NoError(t, backupIfMissing(assetsFile, logger))
	require.NoError(t, os.WriteFile(assetsFile, []byte("patched"), 0o644))

	require.NoError(t, Revert(gameDir, logger))

	data, err := os.ReadFile(assetsFile)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestRevertErrorsWhenNoBackupsExist(t *testing.T) {
	gameDir := t.TempDir()
	err := Revert(gameDir, hclog.NewNullLogger())
	require.Error(t, err)
}
