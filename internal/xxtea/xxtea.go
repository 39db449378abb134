// Package xxtea implements the block cipher used to encrypt Art.dat
// containers: a corrected-block-TEA variant operating on a little-endian
// u32 view of the buffer, keyed by an MD5-derived schedule. The round
// function is byte-for-byte identical to the "xxtea-nostd" reference
// implementation the original tool vendors, per spec.md §4.2.
package xxtea

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

const delta = 0x9E3779B9

// Schedule derives the four-word key schedule from an arbitrary key
// string: MD5(key), split into four big-endian u32 words.
func Schedule(key string) [4]uint32 {
	sum := md5.Sum([]byte(key))
	var out [4]uint32
	for i := range out {
		out[i] = binary.BigEndian.Uint32(sum[i*4 : i*4+4])
	}
	return out
}

// Encrypt encrypts buf in place. buf's length must be a multiple of 4 and
// at least 8 bytes (two words); any trailing bytes that don't form a full
// word are left untouched by the caller, per spec.md's framing rules — this
// function only ever sees the word-aligned prefix.
func Encrypt(key [4]uint32, buf []byte) error {
	words, err := toWords(buf)
	if err != nil {
		return err
	}
	n := len(words)
	rounds := 6 + 52/n

	var sum uint32
	z := words[n-1]
	for c := 0; c < rounds; c++ {
		sum += delta
		e := sum >> 2
		for r := 0; r < n; r++ {
			y := words[(r+1)%n]
			words[r] += mix(y, z, sum, key[(uint32(r)^e)&3])
			z = words[r]
		}
	}

	fromWords(buf, words)
	return nil
}

// Decrypt decrypts buf in place; the inverse of Encrypt.
func Decrypt(key [4]uint32, buf []byte) error {
	words, err := toWords(buf)
	if err != nil {
		return err
	}
	n := len(words)
	rounds := 6 + 52/n

	sum := uint32(rounds) * delta
	y := words[0]
	for c := 0; c < rounds; c++ {
		e := sum >> 2
		for r := n - 1; r >= 0; r-- {
			z := words[(r+n-1)%n]
			words[r] -= mix(y, z, sum, key[(uint32(r)^e)&3])
			y = words[r]
		}
		sum -= delta
	}

	fromWords(buf, words)
	return nil
}

func mix(y, z, sum, k uint32) uint32 {
	return (((z >> 5) ^ (y << 2)) + ((y >> 3) ^ (z << 4))) ^ ((sum ^ y) + (k ^ z))
}

func toWords(buf []byte) ([]uint32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("xxtea block length %d is not a multiple of 4: %w", len(buf), perr.ErrMalformedInput)
	}
	n := len(buf) / 4
	if n < 2 {
		return nil, fmt.Errorf("xxtea block has fewer than 2 words: %w", perr.ErrMalformedInput)
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return words, nil
}

func fromWords(buf []byte, words []uint32) {
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], w)
	}
}
