package orchestrator

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/papers-modkit/internal/assetsfile"
	"github.com/provide-io/papers-modkit/internal/binfmt"
)

func buildTextAssetObject(t *testing.T, order binary.ByteOrder, name string, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var pos int64
	require.NoError(t, binfmt.WriteAlignedString(&buf, order, name, 4, &pos))
	require.NoError(t, binfmt.WriteU32(&buf, order, uint32(len(payload))))
	pos += 4
	_, err := buf.Write(payload)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFindAndExtractArtDatObject(t *testing.T) {
	order := binary.BigEndian
	payload := []byte("encrypted-art-bytes")
	objBytes := buildTextAssetObject(t, order, artObjectName, payload)
	other := buildTextAssetObject(t, order, "icon", []byte("png-bytes"))

	var region bytes.Buffer
	region.Write(other)
	region.Write(objBytes)
	src := bytes.NewReader(region.Bytes())

	resolved := []assetsfile.ResolvedObject{
		{PathID: 1, ByteStart: 0, ByteSize: uint32(len(other)), ClassID: assetsfile.ClassTextAsset},
		{PathID: 2, ByteStart: uint64(len(other)), ByteSize: uint32(len(objBytes)), ClassID: assetsfile.ClassTextAsset},
	}

	obj, err := findArtDatObject(src, order, 0, resolved)
	require.NoError(t, err)
	assert.Equal(t, int64(2), obj.PathID)

	data, err := extractArtDat(src, order, 0, *obj)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFindArtDatObjectErrorsWhenMissing(t *testing.T) {
	_, err := findArtDatObject(bytes.NewReader(nil), binary.BigEndian, 0, nil)
	require.Error(t, err)
}

func TestWriteArtObjectRoundTrip(t *testing.T) {
	order := binary.BigEndian
	payload := []byte("hello art")

	var buf bytes.Buffer
	n, err := writeArtObject(&buf, order, payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(artObjectHeaderLen+len(payload)), n)

	resolved := []assetsfile.ResolvedObject{
		{PathID: 1, ByteStart: 0, ByteSize: uint32(buf.Len()), ClassID: assetsfile.ClassTextAsset},
	}
	src := bytes.NewReader(buf.Bytes())
	obj, err := findArtDatObject(src, order, 0, resolved)
	require.NoError(t, err)
	data, err := extractArtDat(src, order, 0, *obj)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}
