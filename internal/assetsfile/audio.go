package assetsfile

import (
	"encoding/binary"
	"io"

	"github.com/provide-io/papers-modkit/internal/binfmt"
)

// AudioCompressionFormat mirrors original_source's brw(repr=u32) enum over
// Unity's supported clip encodings.
type AudioCompressionFormat uint32

const (
	CompressionPCM AudioCompressionFormat = iota
	CompressionVorbis
	CompressionADPCM
	CompressionMP3
	CompressionVAG
	CompressionHEVAG
	CompressionXMA
	CompressionAAC
	CompressionGCADPCM
	CompressionATRAC9
)

// StreamedResource points at the externally stored bytes of an AudioClip,
// per spec.md §3: in practice "archive:/CAB-…" for an unchanged clip, or
// the name of a sibling resource file for a redirected one.
type StreamedResource struct {
	Source string
	Offset int64
	Size   int64
}

// AudioClip is the structured form of an AudioClip object's payload,
// per spec.md §4.6.
type AudioClip struct {
	ObjectName        string
	LoadType          int32
	Channels          int32
	Frequency         int32
	BitsPerSample     int32
	Length            float32
	IsTrackerFormat   bool
	SubsoundIndex     int32
	PreloadAudioData  bool
	LoadInBackground  bool
	Legacy3D          bool
	Resource          StreamedResource
	CompressionFormat AudioCompressionFormat
}

// ReadAudioClip parses an AudioClip payload in the given byte order, at
// the given starting stream position (so alignment lands correctly when
// the clip is read from the middle of an object data region). It returns
// the updated position alongside the parsed clip.
func ReadAudioClip(r io.Reader, order binary.ByteOrder, startPos int64) (*AudioClip, int64, error) {
	pos := startPos
	a := &AudioClip{}
	var err error

	if a.ObjectName, err = binfmt.ReadAlignedString(r, order, 4, &pos); err != nil {
		return nil, 0, err
	}
	if a.LoadType, err = binfmt.ReadI32(r, order); err != nil {
		return nil, 0, err
	}
	pos += 4
	if a.Channels, err = binfmt.ReadI32(r, order); err != nil {
		return nil, 0, err
	}
	pos += 4
	if a.Frequency, err = binfmt.ReadI32(r, order); err != nil {
		return nil, 0, err
	}
	pos += 4
	if a.BitsPerSample, err = binfmt.ReadI32(r, order); err != nil {
		return nil, 0, err
	}
	pos += 4
	if a.Length, err = binfmt.ReadF32(r, order); err != nil {
		return nil, 0, err
	}
	pos += 4
	if a.IsTrackerFormat, err = binfmt.ReadBool(r); err != nil {
		return nil, 0, err
	}
	pos++

	if err := binfmt.AlignToRead(r, 4, &pos); err != nil {
		return nil, 0, err
	}
	if a.SubsoundIndex, err = binfmt.ReadI32(r, order); err != nil {
		return nil, 0, err
	}
	pos += 4
	if a.PreloadAudioData, err = binfmt.ReadBool(r); err != nil {
		return nil, 0, err
	}
	pos++
	if a.LoadInBackground, err = binfmt.ReadBool(r); err != nil {
		return nil, 0, err
	}
	pos++
	if a.Legacy3D, err = binfmt.ReadBool(r); err != nil {
		return nil, 0, err
	}
	pos++

	if err := binfmt.AlignToRead(r, 4, &pos); err != nil {
		return nil, 0, err
	}
	if a.Resource.Source, err = binfmt.ReadAlignedString(r, order, 4, &pos); err != nil {
		return nil, 0, err
	}
	if a.Resource.Offset, err = binfmt.ReadI64(r, order); err != nil {
		return nil, 0, err
	}
	pos += 8
	if a.Resource.Size, err = binfmt.ReadI64(r, order); err != nil {
		return nil, 0, err
	}
	pos += 8

	format, err := binfmt.ReadU32(r, order)
	if err != nil {
		return nil, 0, err
	}
	pos += 4
	a.CompressionFormat = AudioCompressionFormat(format)

	return a, pos, nil
}

// WriteAudioClip serializes a in the given byte order starting at startPos,
// mirroring ReadAudioClip's field order and alignment exactly, and returns
// the updated stream position.
func WriteAudioClip(w io.Writer, order binary.ByteOrder, a *AudioClip, startPos int64) (int64, error) {
	pos := startPos

	if err := binfmt.WriteAlignedString(w, order, a.ObjectName, 4, &pos); err != nil {
		return 0, err
	}
	if err := binfmt.WriteI32(w, order, a.LoadType); err != nil {
		return 0, err
	}
	pos += 4
	if err := binfmt.WriteI32(w, order, a.Channels); err != nil {
		return 0, err
	}
	pos += 4
	if err := binfmt.WriteI32(w, order, a.Frequency); err != nil {
		return 0, err
	}
	pos += 4
	if err := binfmt.WriteI32(w, order, a.BitsPerSample); err != nil {
		return 0, err
	}
	pos += 4
	if err := binfmt.WriteF32(w, order, a.Length); err != nil {
		return 0, err
	}
	pos += 4
	if err := binfmt.WriteBool(w, a.IsTrackerFormat); err != nil {
		return 0, err
	}
	pos++

	if err := binfmt.AlignToWrite(w, 4, &pos); err != nil {
		return 0, err
	}
	if err := binfmt.WriteI32(w, order, a.SubsoundIndex); err != nil {
		return 0, err
	}
	pos += 4
	if err := binfmt.WriteBool(w, a.PreloadAudioData); err != nil {
		return 0, err
	}
	pos++
	if err := binfmt.WriteBool(w, a.LoadInBackground); err != nil {
		return 0, err
	}
	pos++
	if err := binfmt.WriteBool(w, a.Legacy3D); err != nil {
		return 0, err
	}
	pos++

	if err := binfmt.AlignToWrite(w, 4, &pos); err != nil {
		return 0, err
	}
	if err := binfmt.WriteAlignedString(w, order, a.Resource.Source, 4, &pos); err != nil {
		return 0, err
	}
	if err := binfmt.WriteI64(w, order, a.Resource.Offset); err != nil {
		return 0, err
	}
	pos += 8
	if err := binfmt.WriteI64(w, order, a.Resource.Size); err != nil {
		return 0, err
	}
	pos += 8

	if err := binfmt.WriteU32(w, order, uint32(a.CompressionFormat)); err != nil {
		return 0, err
	}
	pos += 4

	return pos, nil
}
