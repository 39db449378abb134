package artdat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/papers-modkit/internal/xxtea"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	entries := []Entry{
		{Name: "assets/a/b.txt", Size: 3},
		{Name: "assets/c.bin", Size: 1},
	}

	encoded := encodeHeader(entries)
	assert.Equal(t, `[{name:"assets/a/b.txt",size:3},{name:"assets/c.bin",size:1}]`, encoded)

	decoded, err := decodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

func TestDecodeHeaderEmptyArray(t *testing.T) {
	decoded, err := decodeHeader("[]")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeHeaderRejectsMalformed(t *testing.T) {
	_, err := decodeHeader("[{name:\"x\"}]")
	require.Error(t, err)
}

// TestPackUnpackRoundTrip encodes spec.md §8 scenario 2: two files,
// a/b.txt ("hi\n") and c.bin (one zero byte).
func TestPackUnpackRoundTrip(t *testing.T) {
	root := t.TempDir()
	assetsDir := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(assetsDir, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "a", "b.txt"), []byte("hi\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "c.bin"), []byte{0x00}, 0o644))

	key := "ABCDEF0123456789"
	packed, err := Pack(assetsDir, key)
	require.NoError(t, err)

	outDir := filepath.Join(root, "out")
	require.NoError(t, Unpack(packed, key, outDir, nil))

	gotB, err := os.ReadFile(filepath.Join(outDir, "assets", "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hi\n"), gotB)

	gotC, err := os.ReadFile(filepath.Join(outDir, "assets", "c.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, gotC)
}

// TestPackOnUnpackOutputDoesNotDoublePrefixAssets covers the orchestrator's
// repack path: it calls Pack directly on Unpack's output directory, whose
// entries are already named "assets/…", so Pack must not prefix again.
func TestPackOnUnpackOutputDoesNotDoublePrefixAssets(t *testing.T) {
	root := t.TempDir()
	assetsDir := filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(assetsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "a.txt"), []byte("x"), 0o644))

	key := "ABCDEF0123456789"
	packed, err := Pack(assetsDir, key)
	require.NoError(t, err)

	unpackedDir := filepath.Join(root, "unpacked")
	require.NoError(t, Unpack(packed, key, unpackedDir, nil))

	// Repack directly on unpackedDir, which already contains "assets/a.txt".
	repacked, err := Pack(unpackedDir, key)
	require.NoError(t, err)

	reunpackedDir := filepath.Join(root, "reunpacked")
	require.NoError(t, Unpack(repacked, key, reunpackedDir, nil))

	data, err := os.ReadFile(filepath.Join(reunpackedDir, "assets", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	_, err = os.Stat(filepath.Join(reunpackedDir, "assets", "assets", "a.txt"))
	assert.True(t, os.IsNotExist(err), "repack must not double-prefix assets/")
}

func TestUnpackSkipsPathTraversal(t *testing.T) {
	root := t.TempDir()
	entries := []Entry{{Name: "../../escape.txt", Size: 4}}
	headerBytes := []byte(encodeHeader(entries))

	payload := []byte("evil")
	buf := make([]byte, 0, 2+len(headerBytes)+len(payload))
	lenBuf := []byte{byte(len(headerBytes)), byte(len(headerBytes) >> 8)}
	buf = append(buf, lenBuf...)
	buf = append(buf, headerBytes...)
	buf = append(buf, payload...)

	key := "some-key-00000000"
	packed := append([]byte(nil), buf...)

	outDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	sched := xxtea.Schedule(key)
	wordLen := len(packed) - len(packed)%4
	require.NoError(t, xxtea.Encrypt(sched, packed[:wordLen]))

	err := Unpack(packed, key, outDir, nil)
	require.NoError(t, err)

	escapedTarget := filepath.Join(outDir, "../../escape.txt")
	_, statErr := os.Stat(escapedTarget)
	assert.True(t, os.IsNotExist(statErr), "escape.txt must not have been written outside the output root")
}
