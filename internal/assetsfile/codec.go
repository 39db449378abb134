package assetsfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/provide-io/papers-modkit/internal/binfmt"
	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// Read parses a complete AssetsFile from r. The header is always
// big-endian; the content section's endianness is selected by the
// header's Endianness byte, per spec.md §4.5.
func Read(r io.Reader) (*File, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	order := ContentByteOrder(header.Endianness)

	var pos int64
	content, err := readContent(r, order, &pos)
	if err != nil {
		return nil, err
	}

	return &File{Header: *header, Content: *content}, nil
}

func readHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	var err error
	if h.Unknown, err = binfmt.ReadU64(r, binary.BigEndian); err != nil {
		return nil, err
	}
	if h.Version, err = binfmt.ReadU32(r, binary.BigEndian); err != nil {
		return nil, err
	}
	if h.Version != SupportedVersion {
		return nil, fmt.Errorf("unsupported AssetsFile version %d (only %d is supported): %w", h.Version, SupportedVersion, perr.ErrUnsupportedFormat)
	}
	if h.Padding, err = binfmt.ReadU32(r, binary.BigEndian); err != nil {
		return nil, err
	}
	if h.MetadataSize, err = binfmt.ReadU64(r, binary.BigEndian); err != nil {
		return nil, err
	}
	if h.FileSize, err = binfmt.ReadU64(r, binary.BigEndian); err != nil {
		return nil, err
	}
	if h.OffsetFirstFile, err = binfmt.ReadU64(r, binary.BigEndian); err != nil {
		return nil, err
	}
	endByte, err := binfmt.ReadBytes(r, 1)
	if err != nil {
		return nil, err
	}
	switch endByte[0] {
	case 0:
		h.Endianness = Little
	case 1:
		h.Endianness = Big
	default:
		return nil, fmt.Errorf("invalid endianness byte %d: %w", endByte[0], perr.ErrMalformedInput)
	}
	unknown2, err := binfmt.ReadBytes(r, 7)
	if err != nil {
		return nil, err
	}
	copy(h.Unknown2[:], unknown2)

	return h, nil
}

// readContent parses the content section. pos tracks the stream position
// relative to the start of the content section (the header's fixed size is
// a multiple of 4, so this is equivalent to tracking absolute position for
// every alignment decision made here).
func readContent(r io.Reader, order binary.ByteOrder, pos *int64) (*Content, error) {
	c := &Content{}
	var err error

	if c.UnityVersion, err = readCountedNulString(r, pos); err != nil {
		return nil, err
	}
	if c.Target, err = readCountedI32(r, order, pos); err != nil {
		return nil, err
	}
	if c.EnableTypeTree, err = readCountedBool(r, pos); err != nil {
		return nil, err
	}
	if c.EnableTypeTree {
		return nil, fmt.Errorf("type trees are enabled, only stripped files are supported: %w", perr.ErrUnsupportedFormat)
	}

	typeCount, err := readCountedI32(r, order, pos)
	if err != nil {
		return nil, err
	}
	c.Types, err = readTypes(r, order, typeCount, pos)
	if err != nil {
		return nil, err
	}

	objectCount, err := readCountedI32(r, order, pos)
	if err != nil {
		return nil, err
	}
	c.Objects = make([]ObjectInfo, objectCount)
	for i := range c.Objects {
		if c.Objects[i], err = readObjectInfo(r, order, pos); err != nil {
			return nil, err
		}
	}

	scriptCount, err := readCountedI32(r, order, pos)
	if err != nil {
		return nil, err
	}
	c.ScriptTypes = make([]ScriptType, scriptCount)
	for i := range c.ScriptTypes {
		if c.ScriptTypes[i], err = readScriptType(r, order, pos); err != nil {
			return nil, err
		}
	}

	externalsCount, err := readCountedI32(r, order, pos)
	if err != nil {
		return nil, err
	}
	c.Externals = make([]FileIdentifier, externalsCount)
	for i := range c.Externals {
		if c.Externals[i], err = readFileIdentifier(r, order, pos); err != nil {
			return nil, err
		}
	}

	refTypeCount, err := readCountedI32(r, order, pos)
	if err != nil {
		return nil, err
	}
	c.RefTypes, err = readTypes(r, order, refTypeCount, pos)
	if err != nil {
		return nil, err
	}

	if c.UserInformation, err = readCountedNulString(r, pos); err != nil {
		return nil, err
	}

	return c, nil
}

func readTypes(r io.Reader, order binary.ByteOrder, count int32, pos *int64) ([]SerializedType, error) {
	out := make([]SerializedType, count)
	for i := range out {
		t, err := readSerializedType(r, order, pos)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func readSerializedType(r io.Reader, order binary.ByteOrder, pos *int64) (SerializedType, error) {
	var t SerializedType
	var err error
	if t.ClassID, err = readCountedI32(r, order, pos); err != nil {
		return t, err
	}
	if t.IsStrippedType, err = readCountedBool(r, pos); err != nil {
		return t, err
	}
	scriptIdx, err := binfmt.ReadU16(r, order)
	if err != nil {
		return t, err
	}
	*pos += 2
	t.ScriptTypeIndex = scriptIdx
	if t.ClassID == 114 {
		id, err := binfmt.ReadBytes(r, 16)
		if err != nil {
			return t, err
		}
		*pos += 16
		var arr [16]byte
		copy(arr[:], id)
		t.ScriptID = &arr
	}
	hash, err := binfmt.ReadBytes(r, 16)
	if err != nil {
		return t, err
	}
	*pos += 16
	copy(t.OldTypeHash[:], hash)
	return t, nil
}

// readObjectInfo aligns the stream to 4 bytes before path_id, its first
// field, per original_source's br(align_before(4)) on ObjectInfo.path_id.
func readObjectInfo(r io.Reader, order binary.ByteOrder, pos *int64) (ObjectInfo, error) {
	var o ObjectInfo
	if err := binfmt.AlignToRead(r, 4, pos); err != nil {
		return o, err
	}
	var err error
	if o.PathID, err = binfmt.ReadI64(r, order); err != nil {
		return o, err
	}
	*pos += 8
	if o.ByteStart, err = binfmt.ReadU64(r, order); err != nil {
		return o, err
	}
	*pos += 8
	if o.ByteSize, err = binfmt.ReadU32(r, order); err != nil {
		return o, err
	}
	*pos += 4
	if o.TypeID, err = readCountedI32(r, order, pos); err != nil {
		return o, err
	}
	return o, nil
}

// readScriptType aligns the stream to 4 bytes before local_identifier_in_file,
// its second field, per original_source's br(align_before(4)) placement.
func readScriptType(r io.Reader, order binary.ByteOrder, pos *int64) (ScriptType, error) {
	var s ScriptType
	var err error
	if s.LocalSerializedFileIndex, err = readCountedI32(r, order, pos); err != nil {
		return s, err
	}
	if err := binfmt.AlignToRead(r, 4, pos); err != nil {
		return s, err
	}
	if s.LocalIdentifierInFile, err = binfmt.ReadI64(r, order); err != nil {
		return s, err
	}
	*pos += 8
	return s, nil
}

func readFileIdentifier(r io.Reader, order binary.ByteOrder, pos *int64) (FileIdentifier, error) {
	var f FileIdentifier
	var err error
	if f.TempEmpty, err = readCountedNulString(r, pos); err != nil {
		return f, err
	}
	guid, err := binfmt.ReadBytes(r, 16)
	if err != nil {
		return f, err
	}
	*pos += 16
	copy(f.GUID[:], guid)
	if f.Type, err = readCountedI32(r, order, pos); err != nil {
		return f, err
	}
	if f.Path, err = readCountedNulString(r, pos); err != nil {
		return f, err
	}
	return f, nil
}

func readCountedI32(r io.Reader, order binary.ByteOrder, pos *int64) (int32, error) {
	v, err := binfmt.ReadI32(r, order)
	if err != nil {
		return 0, err
	}
	*pos += 4
	return v, nil
}

func readCountedBool(r io.Reader, pos *int64) (bool, error) {
	v, err := binfmt.ReadBool(r)
	if err != nil {
		return false, err
	}
	*pos++
	return v, nil
}

func readCountedNulString(r io.Reader, pos *int64) (string, error) {
	s, err := binfmt.ReadNulString(r)
	if err != nil {
		return "", err
	}
	*pos += int64(len(s)) + 1
	return s, nil
}

// Write serializes f back to w: the header always big-endian, the content
// in the endianness f.Header.Endianness names. Array lengths are derived
// from the slice lengths, never read from the model.
func Write(w io.Writer, f *File) error {
	if err := writeHeader(w, &f.Header); err != nil {
		return err
	}

	order := ContentByteOrder(f.Header.Endianness)

	var pos int64
	return writeContent(w, order, &f.Content, &pos)
}

func writeHeader(w io.Writer, h *Header) error {
	if err := binfmt.WriteU64(w, binary.BigEndian, h.Unknown); err != nil {
		return err
	}
	if err := binfmt.WriteU32(w, binary.BigEndian, h.Version); err != nil {
		return err
	}
	if err := binfmt.WriteU32(w, binary.BigEndian, h.Padding); err != nil {
		return err
	}
	if err := binfmt.WriteU64(w, binary.BigEndian, h.MetadataSize); err != nil {
		return err
	}
	if err := binfmt.WriteU64(w, binary.BigEndian, h.FileSize); err != nil {
		return err
	}
	if err := binfmt.WriteU64(w, binary.BigEndian, h.OffsetFirstFile); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(h.Endianness)}); err != nil {
		return err
	}
	if _, err := w.Write(h.Unknown2[:]); err != nil {
		return err
	}
	return nil
}

func writeContent(w io.Writer, order binary.ByteOrder, c *Content, pos *int64) error {
	if err := writeCountedNulString(w, c.UnityVersion, pos); err != nil {
		return err
	}
	if err := writeCountedI32(w, order, c.Target, pos); err != nil {
		return err
	}
	if err := writeCountedBool(w, c.EnableTypeTree, pos); err != nil {
		return err
	}

	if err := writeCountedI32(w, order, int32(len(c.Types)), pos); err != nil {
		return err
	}
	for _, t := range c.Types {
		if err := writeSerializedType(w, order, t, pos); err != nil {
			return err
		}
	}

	if err := writeCountedI32(w, order, int32(len(c.Objects)), pos); err != nil {
		return err
	}
	for _, o := range c.Objects {
		if err := writeObjectInfo(w, order, o, pos); err != nil {
			return err
		}
	}

	if err := writeCountedI32(w, order, int32(len(c.ScriptTypes)), pos); err != nil {
		return err
	}
	for _, s := range c.ScriptTypes {
		if err := writeScriptType(w, order, s, pos); err != nil {
			return err
		}
	}

	if err := writeCountedI32(w, order, int32(len(c.Externals)), pos); err != nil {
		return err
	}
	for _, e := range c.Externals {
		if err := writeFileIdentifier(w, order, e, pos); err != nil {
			return err
		}
	}

	if err := writeCountedI32(w, order, int32(len(c.RefTypes)), pos); err != nil {
		return err
	}
	for _, t := range c.RefTypes {
		if err := writeSerializedType(w, order, t, pos); err != nil {
			return err
		}
	}

	return writeCountedNulString(w, c.UserInformation, pos)
}

func writeSerializedType(w io.Writer, order binary.ByteOrder, t SerializedType, pos *int64) error {
	if err := writeCountedI32(w, order, t.ClassID, pos); err != nil {
		return err
	}
	if err := writeCountedBool(w, t.IsStrippedType, pos); err != nil {
		return err
	}
	if err := binfmt.WriteU16(w, order, t.ScriptTypeIndex); err != nil {
		return err
	}
	*pos += 2
	if t.ClassID == 114 {
		if t.ScriptID == nil {
			return fmt.Errorf("SerializedType with class_id 114 is missing script_id: %w", perr.ErrMalformedInput)
		}
		if _, err := w.Write(t.ScriptID[:]); err != nil {
			return err
		}
		*pos += 16
	}
	if _, err := w.Write(t.OldTypeHash[:]); err != nil {
		return err
	}
	*pos += 16
	return nil
}

func writeObjectInfo(w io.Writer, order binary.ByteOrder, o ObjectInfo, pos *int64) error {
	if err := binfmt.AlignToWrite(w, 4, pos); err != nil {
		return err
	}
	if err := binfmt.WriteI64(w, order, o.PathID); err != nil {
		return err
	}
	*pos += 8
	if err := binfmt.WriteU64(w, order, o.ByteStart); err != nil {
		return err
	}
	*pos += 8
	if err := binfmt.WriteU32(w, order, o.ByteSize); err != nil {
		return err
	}
	*pos += 4
	return writeCountedI32(w, order, o.TypeID, pos)
}

func writeScriptType(w io.Writer, order binary.ByteOrder, s ScriptType, pos *int64) error {
	if err := writeCountedI32(w, order, s.LocalSerializedFileIndex, pos); err != nil {
		return err
	}
	if err := binfmt.AlignToWrite(w, 4, pos); err != nil {
		return err
	}
	if err := binfmt.WriteI64(w, order, s.LocalIdentifierInFile); err != nil {
		return err
	}
	*pos += 8
	return nil
}

func writeFileIdentifier(w io.Writer, order binary.ByteOrder, f FileIdentifier, pos *int64) error {
	if err := writeCountedNulString(w, f.TempEmpty, pos); err != nil {
		return err
	}
	if _, err := w.Write(f.GUID[:]); err != nil {
		return err
	}
	*pos += 16
	if err := writeCountedI32(w, order, f.Type, pos); err != nil {
		return err
	}
	return writeCountedNulString(w, f.Path, pos)
}

func writeCountedI32(w io.Writer, order binary.ByteOrder, v int32, pos *int64) error {
	if err := binfmt.WriteI32(w, order, v); err != nil {
		return err
	}
	*pos += 4
	return nil
}

func writeCountedBool(w io.Writer, v bool, pos *int64) error {
	if err := binfmt.WriteBool(w, v); err != nil {
		return err
	}
	*pos++
	return nil
}

func writeCountedNulString(w io.Writer, s string, pos *int64) error {
	if err := binfmt.WriteNulString(w, s); err != nil {
		return err
	}
	*pos += int64(len(s)) + 1
	return nil
}
