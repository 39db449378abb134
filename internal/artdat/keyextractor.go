package artdat

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// metadataKeyOffset is the fixed byte offset of the 16-byte ASCII art key
// inside the engine's global metadata file, per spec.md §4.3.
const metadataKeyOffset = 0x39420

// metadataKeyLength is the number of key bytes stored at that offset.
const metadataKeyLength = 16

// ExtractKey reads the Art.dat encryption key embedded in the engine's
// global-metadata.dat file at metadataPath. Callers resolve that path
// relative to the game's installation directory (see
// orchestrator.GlobalMetadataRelPath); this package has no opinion on the
// game's directory layout.
func ExtractKey(metadataPath string) (string, error) {
	f, err := os.Open(metadataPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", metadataPath, perr.ErrInputError)
	}
	defer f.Close()

	buf := make([]byte, metadataKeyLength)
	if _, err := f.ReadAt(buf, metadataKeyOffset); err != nil && err != io.EOF {
		return "", fmt.Errorf("reading key bytes from %s: %w", metadataPath, perr.ErrMalformedInput)
	}

	if !utf8.Valid(buf) {
		return "", fmt.Errorf("art key bytes are not valid UTF-8: %w", perr.ErrMalformedInput)
	}
	return string(buf), nil
}
