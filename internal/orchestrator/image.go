package orchestrator

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/provide-io/papers-modkit/internal/assetsfile"
	"github.com/provide-io/papers-modkit/internal/binfmt"
	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// rebuildObjectTable recomputes byte_start/byte_size for every object per
// spec.md §4.8 step 7's later padding revision (§9 Design Notes): the
// padding needed to reach the next 4-byte boundary is always folded into
// the current object's declared byte_size, the remaining 0-4 bytes of
// slack needed to reach the next 8-byte boundary are not. It returns the
// new table and the final current_offset (the object-data region length).
func rebuildObjectTable(original []assetsfile.ObjectInfo, artPathID int64, newArtLen int) ([]assetsfile.ObjectInfo, uint64) {
	out := make([]assetsfile.ObjectInfo, len(original))
	var current uint64

	for i, o := range original {
		n := assetsfile.ObjectInfo{PathID: o.PathID, TypeID: o.TypeID, ByteStart: current}
		if o.PathID == artPathID {
			n.ByteSize = uint32(newArtLen) + artObjectHeaderLen
		} else {
			n.ByteSize = o.ByteSize
		}

		current += uint64(n.ByteSize)
		if current%8 != 0 {
			padding := 8 - (current % 8)
			n.ByteSize += uint32(padding % 4)
			current += padding
		}
		out[i] = n
	}

	return out, current
}

// audioPatchSet maps an AudioClip object's path_id to its replacement.
type audioPatchSet map[int64]*assetsfile.AudioClip

// RebuildImage serializes the full new AssetsFile image: recomputed
// header and object table, zero-padded up to offset_first_file, then the
// streamed object-data region, per spec.md §4.8 steps 7-9.
func RebuildImage(original *assetsfile.File, src io.ReaderAt, artPathID int64, newArtData []byte, audioPatches audioPatchSet, w io.Writer) error {
	order := assetsfile.ContentByteOrder(original.Header.Endianness)

	newObjects, finalOffset := rebuildObjectTable(original.Content.Objects, artPathID, len(newArtData))

	newFile := *original
	newFile.Content.Objects = newObjects
	newFile.Header.FileSize = original.Header.OffsetFirstFile + finalOffset

	var headerAndContent bytes.Buffer
	if err := assetsfile.Write(&headerAndContent, &newFile); err != nil {
		return err
	}
	if uint64(headerAndContent.Len()) > original.Header.OffsetFirstFile {
		return fmt.Errorf("serialized header+content is %d bytes, exceeding offset_first_file %d: %w",
			headerAndContent.Len(), original.Header.OffsetFirstFile, perr.ErrIntegrityError)
	}
	if _, err := w.Write(headerAndContent.Bytes()); err != nil {
		return err
	}
	if err := binfmt.WriteZeroes(w, int64(original.Header.OffsetFirstFile)-int64(headerAndContent.Len())); err != nil {
		return err
	}

	var written uint64
	for i, obj := range newObjects {
		if obj.ByteStart > written {
			if err := binfmt.WriteZeroes(w, int64(obj.ByteStart-written)); err != nil {
				return err
			}
			written = obj.ByteStart
		}

		n, err := writeObjectData(w, order, obj, original.Content.Objects[i], src, artPathID, newArtData, audioPatches, original.Header.OffsetFirstFile)
		if err != nil {
			return err
		}
		written += n
	}

	if finalOffset > written {
		if err := binfmt.WriteZeroes(w, int64(finalOffset-written)); err != nil {
			return err
		}
	}

	return nil
}

func writeObjectData(
	w io.Writer,
	order binary.ByteOrder,
	newObj assetsfile.ObjectInfo,
	originalObj assetsfile.ObjectInfo,
	src io.ReaderAt,
	artPathID int64,
	newArtData []byte,
	audioPatches audioPatchSet,
	offsetFirstFile uint64,
) (uint64, error) {
	switch {
	case newObj.PathID == artPathID:
		return writeArtObject(w, order, newArtData)

	case audioPatches[newObj.PathID] != nil:
		n, err := assetsfile.WriteAudioClip(w, order, audioPatches[newObj.PathID], 0)
		if err != nil {
			return 0, err
		}
		return uint64(n), nil

	default:
		sr := io.NewSectionReader(src, int64(offsetFirstFile+originalObj.ByteStart), int64(originalObj.ByteSize))
		if _, err := io.Copy(w, sr); err != nil {
			return 0, fmt.Errorf("copying object data for path_id %d: %w", originalObj.PathID, perr.ErrIoError)
		}
		return uint64(originalObj.ByteSize), nil
	}
}
