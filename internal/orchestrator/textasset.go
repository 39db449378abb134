package orchestrator

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/provide-io/papers-modkit/internal/assetsfile"
	"github.com/provide-io/papers-modkit/internal/binfmt"
	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// artObjectName is the AlignedString name that identifies the Art.dat
// TextAsset object inside the objects table, per spec.md §4.8 step 2.
const artObjectName = "Art.dat"

// artObjectHeaderLen is ART_OBJECT_HEADER_LEN from spec.md §4.8 step 7: a
// u32 name length, the seven bytes "Art.dat", one pad byte to reach a
// 4-byte boundary, and a u32 payload length.
const artObjectHeaderLen = 4 + 7 + 1 + 4

// findArtDatObject scans resolved for the sole TextAsset whose payload
// name is exactly "Art.dat".
func findArtDatObject(src io.ReaderAt, order binary.ByteOrder, offsetFirstFile uint64, resolved []assetsfile.ResolvedObject) (*assetsfile.ResolvedObject, error) {
	for i := range resolved {
		obj := resolved[i]
		if obj.ClassID != assetsfile.ClassTextAsset {
			continue
		}
		name, err := readObjectPayloadName(src, order, offsetFirstFile, obj)
		if err != nil {
			continue
		}
		if name == artObjectName {
			return &obj, nil
		}
	}
	return nil, fmt.Errorf("no TextAsset object named %q found in object table: %w", artObjectName, perr.ErrMalformedInput)
}

func readObjectPayloadName(src io.ReaderAt, order binary.ByteOrder, offsetFirstFile uint64, obj assetsfile.ResolvedObject) (string, error) {
	sr := io.NewSectionReader(src, int64(offsetFirstFile+obj.ByteStart), int64(obj.ByteSize))
	var pos int64
	return binfmt.ReadAlignedString(sr, order, 4, &pos)
}

// extractArtDat streams the Art.dat TextAsset's payload: an AlignedString
// name, a u32 length, then that many bytes.
func extractArtDat(src io.ReaderAt, order binary.ByteOrder, offsetFirstFile uint64, obj assetsfile.ResolvedObject) ([]byte, error) {
	sr := io.NewSectionReader(src, int64(offsetFirstFile+obj.ByteStart), int64(obj.ByteSize))
	var pos int64
	if _, err := binfmt.ReadAlignedString(sr, order, 4, &pos); err != nil {
		return nil, err
	}
	length, err := binfmt.ReadU32(sr, order)
	if err != nil {
		return nil, err
	}
	pos += 4
	data, err := binfmt.ReadBytes(sr, int(length))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// writeArtObject writes the Art.dat TextAsset payload framing of spec.md
// §4.8 step 9: AlignedString "Art.dat" (align 4), a u32 payload length,
// then the encrypted Art.dat bytes. It returns the number of bytes
// written, which always equals artObjectHeaderLen + len(data).
func writeArtObject(w io.Writer, order binary.ByteOrder, data []byte) (uint64, error) {
	var pos int64
	if err := binfmt.WriteAlignedString(w, order, artObjectName, 4, &pos); err != nil {
		return 0, err
	}
	if err := binfmt.WriteU32(w, order, uint32(len(data))); err != nil {
		return 0, err
	}
	pos += 4
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	pos += int64(len(data))
	return uint64(pos), nil
}
