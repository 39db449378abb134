package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestApplyPatchTreeCopiesSubstitutesAndAddsNewFiles(t *testing.T) {
	unpacked := t.TempDir()
	patch := t.TempDir()

	writeFile(t, filepath.Join(unpacked, "assets", "art", "splash.png"), "old-png")
	writeFile(t, filepath.Join(unpacked, "assets", "art", "untouched.png"), "same")
	writeFile(t, filepath.Join(unpacked, "assets", "strings.xml"), `<root><a id="1">old</a></root>`)

	writeFile(t, filepath.Join(patch, "assets", "art", "splash.png"), "new-png")
	writeFile(t, filepath.Join(patch, "assets", "strings.xml"), `<root><a id="1">new</a></root>`)
	writeFile(t, filepath.Join(patch, "assets", "extra.csv"), "a,b,c")
	writeFile(t, filepath.Join(patch, "assets", "extra.qqq"), "anything")

	require.NoError(t, ApplyPatchTree(unpacked, patch))

	data, err := os.ReadFile(filepath.Join(unpacked, "assets", "art", "splash.png"))
	require.NoError(t, err)
	assert.Equal(t, "new-png", string(data))

	data, err = os.ReadFile(filepath.Join(unpacked, "assets", "art", "untouched.png"))
	require.NoError(t, err)
	assert.Equal(t, "same", string(data))

	data, err = os.ReadFile(filepath.Join(unpacked, "assets", "strings.xml"))
	require.NoError(t, err)
	assert.Equal(t, `<root><a id="1">new</a></root>`, string(data))

	data, err = os.ReadFile(filepath.Join(unpacked, "assets", "extra.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", string(data))

	// A new patch-only file with an unrecognized extension is still added
	// as a straight copy: the unrecognized-extension rejection only
	// applies when substituting an existing unpacked file.
	data, err = os.ReadFile(filepath.Join(unpacked, "assets", "extra.qqq"))
	require.NoError(t, err)
	assert.Equal(t, "anything", string(data))
}

func TestApplyPatchTreeRejectsUnrecognizedExtension(t *testing.T) {
	unpacked := t.TempDir()
	patch := t.TempDir()

	writeFile(t, filepath.Join(unpacked, "assets", "model.bin"), "old")
	writeFile(t, filepath.Join(patch, "assets", "model.bin"), "new")

	err := ApplyPatchTree(unpacked, patch)
	require.Error(t, err)
}

func TestApplyPatchTreeNoPatchAssetsDirIsNoOp(t *testing.T) {
	unpacked := t.TempDir()
	patch := t.TempDir()
	writeFile(t, filepath.Join(unpacked, "assets", "a.txt"), "same")

	require.NoError(t, ApplyPatchTree(unpacked, patch))

	data, err := os.ReadFile(filepath.Join(unpacked, "assets", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "same", string(data))
}
