package assetsfile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAudioClip() *AudioClip {
	return &AudioClip{
		ObjectName:        "explosion",
		LoadType:          1,
		Channels:          2,
		Frequency:         44100,
		BitsPerSample:     16,
		Length:            1.5,
		IsTrackerFormat:   false,
		SubsoundIndex:     0,
		PreloadAudioData:  true,
		LoadInBackground:  false,
		Legacy3D:          false,
		Resource:          StreamedResource{Source: "archive:/CAB-abcdef0123456789", Offset: 0, Size: 4096},
		CompressionFormat: CompressionVorbis,
	}
}

func TestAudioClipRoundTrip(t *testing.T) {
	clip := sampleAudioClip()

	var buf bytes.Buffer
	endPos, err := WriteAudioClip(&buf, binary.LittleEndian, clip, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), endPos)

	got, gotPos, err := ReadAudioClip(bytes.NewReader(buf.Bytes()), binary.LittleEndian, 0)
	require.NoError(t, err)
	assert.Equal(t, clip, got)
	assert.Equal(t, endPos, gotPos)
}

func TestAudioClipRoundTripFromNonZeroStart(t *testing.T) {
	clip := sampleAudioClip()

	var buf bytes.Buffer
	require.NoError(t, buf.WriteByte(0xAB))
	require.NoError(t, buf.WriteByte(0xCD))
	startPos := int64(buf.Len())

	endPos, err := WriteAudioClip(&buf, binary.BigEndian, clip, startPos)
	require.NoError(t, err)

	r := bytes.NewReader(buf.Bytes())
	_, err = r.Seek(startPos, 0)
	require.NoError(t, err)

	got, gotPos, err := ReadAudioClip(r, binary.BigEndian, startPos)
	require.NoError(t, err)
	assert.Equal(t, clip, got)
	assert.Equal(t, endPos, gotPos)
}
