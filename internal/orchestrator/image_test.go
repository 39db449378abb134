package orchestrator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/papers-modkit/internal/assetsfile"
)

// TestRebuildObjectTablePaddingRuleWorkedExample encodes spec.md §8
// scenario 6: unpadded sizes [7, 9, 12] with the Art.dat object (path_id
// 1) replaced so its byte_size becomes 37, producing offsets [0, 40, 56].
func TestRebuildObjectTablePaddingRuleWorkedExample(t *testing.T) {
	original := []assetsfile.ObjectInfo{
		{PathID: 1, ByteStart: 0, ByteSize: 7, TypeID: 0},
		{PathID: 2, ByteStart: 8, ByteSize: 9, TypeID: 0},
		{PathID: 3, ByteStart: 24, ByteSize: 12, TypeID: 0},
	}

	// 37 = newArtLen(21) + artObjectHeaderLen(16).
	out, final := rebuildObjectTable(original, 1, 21)

	require.Len(t, out, 3)
	assert.Equal(t, uint64(0), out[0].ByteStart)
	assert.Equal(t, uint32(40), out[0].ByteSize)
	assert.Equal(t, uint64(40), out[1].ByteStart)
	assert.Equal(t, uint32(12), out[1].ByteSize)
	assert.Equal(t, uint64(56), out[2].ByteStart)
	assert.Equal(t, uint32(12), out[2].ByteSize)
	assert.Equal(t, uint64(72), final)
}

func sampleOriginalFile() *assetsfile.File {
	return &assetsfile.File{
		Header: assetsfile.Header{
			Version:         assetsfile.SupportedVersion,
			OffsetFirstFile: 256,
			Endianness:      assetsfile.Big,
		},
		Content: assetsfile.Content{
			UnityVersion: "2019.4.0f1",
			Types: []assetsfile.SerializedType{
				{ClassID: assetsfile.ClassTextAsset},
			},
			Objects: []assetsfile.ObjectInfo{
				{PathID: 1, ByteStart: 0, ByteSize: 16, TypeID: 0},
				{PathID: 2, ByteStart: 24, ByteSize: 8, TypeID: 0},
			},
		},
	}
}

// TestRebuildImageRecomputesOffsetsAndFileSize checks the image builder's
// rebuilt object table and header: with an empty Art.dat payload and no
// audio patches, the objects are laid out back to back from offset 0 and
// file_size covers offset_first_file plus the rebuilt object region.
func TestRebuildImageRecomputesOffsetsAndFileSize(t *testing.T) {
	f := sampleOriginalFile()

	// Object 1 (path_id 1) is the Art.dat TextAsset: 16 bytes = the
	// artObjectHeaderLen framing around a zero-length payload, matching
	// the declared byte_size of 16 exactly with no padding needed.
	artFraming := bytes.Repeat([]byte{0}, 16)
	object2Data := bytes.Repeat([]byte{0xAB}, 8)

	var src bytes.Buffer
	src.Write(artFraming)
	src.Write(make([]byte, 24-16))
	src.Write(object2Data)
	srcReader := bytes.NewReader(src.Bytes())

	var out bytes.Buffer
	err := RebuildImage(f, srcReader, 1, nil, audioPatchSet{}, &out)
	require.NoError(t, err)

	rebuilt, err := assetsfile.Read(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	// Object 1 (the art object) is unchanged in size, so object 2 now
	// starts immediately after it rather than at its original offset.
	assert.Equal(t, uint64(0), rebuilt.Content.Objects[0].ByteStart)
	assert.Equal(t, uint64(16), rebuilt.Content.Objects[1].ByteStart)
	assert.Equal(t, uint64(256+24), rebuilt.Header.FileSize)
}
