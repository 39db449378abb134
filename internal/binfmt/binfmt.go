// Package binfmt implements the endian-aware primitives every wire codec
// in papers-modkit is built on: fixed-width integer reads/writes, the
// Unity-style length-prefixed aligned string, and stream alignment.
//
// Every function here operates on an io.Reader/io.Writer rather than a
// byte slice, so the same helpers serve both the whole-buffer Art.dat
// codec and the large, streamed AssetsFile object region.
package binfmt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// ReadU16 reads an unsigned 16-bit integer in the given byte order.
func ReadU16(r io.Reader, order binary.ByteOrder) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u16: %w: %v", perr.ErrMalformedInput, err)
	}
	return order.Uint16(buf[:]), nil
}

// ReadU32 reads an unsigned 32-bit integer in the given byte order.
func ReadU32(r io.Reader, order binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u32: %w: %v", perr.ErrMalformedInput, err)
	}
	return order.Uint32(buf[:]), nil
}

// ReadI32 reads a signed 32-bit integer in the given byte order.
func ReadI32(r io.Reader, order binary.ByteOrder) (int32, error) {
	v, err := ReadU32(r, order)
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer in the given byte order.
func ReadU64(r io.Reader, order binary.ByteOrder) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u64: %w: %v", perr.ErrMalformedInput, err)
	}
	return order.Uint64(buf[:]), nil
}

// ReadI64 reads a signed 64-bit integer in the given byte order.
func ReadI64(r io.Reader, order binary.ByteOrder) (int64, error) {
	v, err := ReadU64(r, order)
	return int64(v), err
}

// ReadF32 reads an IEEE-754 32-bit float in the given byte order.
func ReadF32(r io.Reader, order binary.ByteOrder) (float32, error) {
	v, err := ReadU32(r, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBool reads a single byte and treats any non-zero value as true.
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, fmt.Errorf("read bool: %w: %v", perr.ErrMalformedInput, err)
	}
	return buf[0] != 0, nil
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read %d bytes: %w: %v", n, perr.ErrMalformedInput, err)
	}
	return buf, nil
}

// ReadNulString reads bytes until (and consuming) a NUL terminator.
func ReadNulString(r io.Reader) (string, error) {
	var buf []byte
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", fmt.Errorf("read nul-terminated string: %w: %v", perr.ErrMalformedInput, err)
		}
		if b[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, b[0])
	}
}

// ReadAlignedString reads a u32-length-prefixed UTF-8 string in the given
// byte order, then skips the zero padding that brings the stream position
// to a multiple of align. The padding bytes are not validated to be zero;
// AlignToRead below skips the pad.
func ReadAlignedString(r io.Reader, order binary.ByteOrder, align int64, pos *int64) (string, error) {
	length, err := ReadU32(r, order)
	if err != nil {
		return "", err
	}
	*pos += 4
	data, err := ReadBytes(r, int(length))
	if err != nil {
		return "", err
	}
	*pos += int64(length)
	if err := AlignToRead(r, align, pos); err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteU16 writes an unsigned 16-bit integer in the given byte order.
func WriteU16(w io.Writer, order binary.ByteOrder, val uint16) error {
	var buf [2]byte
	order.PutUint16(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

// WriteU32 writes an unsigned 32-bit integer in the given byte order.
func WriteU32(w io.Writer, order binary.ByteOrder, val uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

// WriteI32 writes a signed 32-bit integer in the given byte order.
func WriteI32(w io.Writer, order binary.ByteOrder, val int32) error {
	return WriteU32(w, order, uint32(val))
}

// WriteU64 writes an unsigned 64-bit integer in the given byte order.
func WriteU64(w io.Writer, order binary.ByteOrder, val uint64) error {
	var buf [8]byte
	order.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

// WriteI64 writes a signed 64-bit integer in the given byte order.
func WriteI64(w io.Writer, order binary.ByteOrder, val int64) error {
	return WriteU64(w, order, uint64(val))
}

// WriteF32 writes an IEEE-754 32-bit float in the given byte order.
func WriteF32(w io.Writer, order binary.ByteOrder, val float32) error {
	return WriteU32(w, order, math.Float32bits(val))
}

// WriteBool writes a single byte-boolean: 1 for true, 0 for false.
func WriteBool(w io.Writer, val bool) error {
	var b byte
	if val {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// WriteNulString writes s followed by a single NUL terminator.
func WriteNulString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// WriteZeroes writes n zero bytes.
func WriteZeroes(w io.Writer, n int64) error {
	if n <= 0 {
		return nil
	}
	const chunkSize = 4096
	var zeroes [chunkSize]byte
	for n > 0 {
		k := n
		if k > chunkSize {
			k = chunkSize
		}
		if _, err := w.Write(zeroes[:k]); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// WriteAlignedString writes a u32-length-prefixed UTF-8 string in the given
// byte order, then zero-pads so the stream position becomes a multiple of
// align. The padding is never folded into the declared length.
func WriteAlignedString(w io.Writer, order binary.ByteOrder, s string, align int64, pos *int64) error {
	if err := WriteU32(w, order, uint32(len(s))); err != nil {
		return err
	}
	*pos += 4
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	*pos += int64(len(s))
	return AlignToWrite(w, align, pos)
}

// AlignToRead advances pos, and the underlying stream, to the next multiple
// of alignment by discarding bytes without inspecting them.
func AlignToRead(r io.Reader, alignment int64, pos *int64) error {
	pad := padding(*pos, alignment)
	if pad == 0 {
		return nil
	}
	if _, err := io.CopyN(io.Discard, r, pad); err != nil {
		return fmt.Errorf("align read: %w: %v", perr.ErrMalformedInput, err)
	}
	*pos += pad
	return nil
}

// AlignToWrite advances pos, and the underlying stream, to the next
// multiple of alignment by emitting zero bytes.
func AlignToWrite(w io.Writer, alignment int64, pos *int64) error {
	pad := padding(*pos, alignment)
	if pad == 0 {
		return nil
	}
	if err := WriteZeroes(w, pad); err != nil {
		return err
	}
	*pos += pad
	return nil
}

// padding returns the number of bytes needed to advance pos to the next
// multiple of alignment (0 if pos is already aligned).
func padding(pos int64, alignment int64) int64 {
	rem := pos % alignment
	if rem == 0 {
		return 0
	}
	return alignment - rem
}
