// Package assetsfile implements the AssetsFile model and codec: spec.md
// §3 and §4.5, plus the AudioClip object type of §4.6. It is grounded on
// the teacher's PSPFIndex fixed-layout Pack()/Unpack() style
// (pkg/psp/format_2025/index.go) — a struct with an explicit byte-range
// per field — generalized here to content whose endianness is a runtime
// property of the file rather than a compile-time constant.
package assetsfile

import "encoding/binary"

// Endianness selects the byte order of every multi-byte integer in the
// content section (the header itself is always big-endian).
type Endianness uint8

const (
	Little Endianness = 0
	Big    Endianness = 1
)

// ContentByteOrder resolves the binary.ByteOrder the content section
// (and any object payload inside it) is encoded with.
func ContentByteOrder(e Endianness) binary.ByteOrder {
	if e == Little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// SupportedVersion is the only AssetsFile version this codec understands.
const SupportedVersion = 22

// Class ID constants used as opaque object-type tags, per spec.md §3.
const (
	ClassTextAsset = 49
	ClassAudioClip = 83
)

// Header is the big-endian AssetsFileHeader.
type Header struct {
	Unknown         uint64
	Version         uint32
	Padding         uint32
	MetadataSize    uint64
	FileSize        uint64
	OffsetFirstFile uint64
	Endianness      Endianness
	Unknown2        [7]byte
}

// SerializedType describes one entry of the type table.
type SerializedType struct {
	ClassID         int32
	IsStrippedType  bool
	ScriptTypeIndex uint16
	// ScriptID is present iff ClassID == 114, per spec.md §3.
	ScriptID    *[16]byte
	OldTypeHash [16]byte
}

// ObjectInfo is one row of the per-object table.
type ObjectInfo struct {
	PathID    int64 // aligned to 4 before this field
	ByteStart uint64
	ByteSize  uint32
	TypeID    int32
}

// ScriptType is one row of the script-type table.
type ScriptType struct {
	LocalSerializedFileIndex int32
	LocalIdentifierInFile    int64 // aligned to 4 before this field
}

// FileIdentifier is one row of the externals table.
type FileIdentifier struct {
	TempEmpty string
	GUID      [16]byte
	Type      int32
	Path      string
}

// Content is the endianness-dependent body of an AssetsFile.
type Content struct {
	UnityVersion    string
	Target          int32
	EnableTypeTree  bool
	Types           []SerializedType
	Objects         []ObjectInfo
	ScriptTypes     []ScriptType
	Externals       []FileIdentifier
	RefTypes        []SerializedType
	UserInformation string
}

// File is a fully parsed AssetsFile: header plus content.
type File struct {
	Header  Header
	Content Content
}

// ResolvedObject pairs an ObjectInfo with the class id its TypeID resolves
// to via the type table, mirroring original_source's resolve_object_classes.
type ResolvedObject struct {
	PathID    int64
	ByteStart uint64
	ByteSize  uint32
	ClassID   int32
}

// ResolveObjectClasses resolves every object's TypeID to a class id.
func (f *File) ResolveObjectClasses() ([]ResolvedObject, error) {
	out := make([]ResolvedObject, 0, len(f.Content.Objects))
	for _, obj := range f.Content.Objects {
		if int(obj.TypeID) < 0 || int(obj.TypeID) >= len(f.Content.Types) {
			return nil, errBadTypeID(obj)
		}
		out = append(out, ResolvedObject{
			PathID:    obj.PathID,
			ByteStart: obj.ByteStart,
			ByteSize:  obj.ByteSize,
			ClassID:   f.Content.Types[obj.TypeID].ClassID,
		})
	}
	return out, nil
}
