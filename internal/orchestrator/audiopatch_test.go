package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/papers-modkit/internal/assetsfile"
)

func TestModdedResourceNameLengthInvariant(t *testing.T) {
	assert.GreaterOrEqual(t, len(moddedResourceName), 21)
	assert.LessOrEqual(t, len(moddedResourceName), 24)
}

func TestStageAudioPatchesAppendsAndBuildsClips(t *testing.T) {
	dir := t.TempDir()
	fsbPath := filepath.Join(dir, "explosion.fsb")
	require.NoError(t, os.WriteFile(fsbPath, []byte("FSB5FAKEBYTES"), 0o644))

	entries := []audioPatchEntry{
		{
			ObjectName:        "explosion",
			PatchedPath:       "explosion.fsb",
			LoadType:          0,
			Channels:          2,
			Frequency:         44100,
			BitsPerSample:     16,
			Length:            1.5,
			CompressionFormat: "vorbis",
		},
	}
	existing := map[string]int64{"explosion": 42}

	resourcePath := filepath.Join(dir, moddedResourceName)
	out, err := stageAudioPatches(entries, dir, resourcePath, existing)
	require.NoError(t, err)

	clip, ok := out[42]
	require.True(t, ok)
	assert.Equal(t, "explosion", clip.ObjectName)
	assert.Equal(t, assetsfile.CompressionVorbis, clip.CompressionFormat)
	assert.Equal(t, moddedResourceName, clip.Resource.Source)
	assert.Equal(t, int64(0), clip.Resource.Offset)
	assert.Equal(t, int64(len("FSB5FAKEBYTES")), clip.Resource.Size)

	written, err := os.ReadFile(resourcePath)
	require.NoError(t, err)
	assert.Equal(t, "FSB5FAKEBYTES", string(written))
}

func TestStageAudioPatchesRejectsUnknownObjectName(t *testing.T) {
	dir := t.TempDir()
	entries := []audioPatchEntry{{ObjectName: "nope", CompressionFormat: "pcm"}}
	_, err := stageAudioPatches(entries, dir, filepath.Join(dir, moddedResourceName), map[string]int64{})
	require.Error(t, err)
}

func TestStageAudioPatchesRejectsNonFsbPatchedPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "explosion.wav"), []byte("RIFF"), 0o644))

	entries := []audioPatchEntry{
		{ObjectName: "explosion", PatchedPath: "explosion.wav", CompressionFormat: "pcm"},
	}
	existing := map[string]int64{"explosion": 42}

	_, err := stageAudioPatches(entries, dir, filepath.Join(dir, moddedResourceName), existing)
	require.Error(t, err)
}

func TestLoadAudioPatchesMissingFileReturnsNil(t *testing.T) {
	entries, err := loadAudioPatches(filepath.Join(t.TempDir(), "audio_patches.json"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestLoadAudioPatchesParsesDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audio_patches.json")
	payload := []map[string]any{
		{"objectName": "siren", "patchedPath": "siren.fsb", "compressionFormat": "pcm"},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	entries, err := loadAudioPatches(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "siren", entries[0].ObjectName)
}
