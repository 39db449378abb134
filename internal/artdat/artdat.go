// Package artdat implements the Art.dat container codec: §4.4 of
// SPEC_FULL.md. An Art.dat is a u16 header length, that many bytes of
// header text in the engine's lightweight object notation (see header.go),
// then the concatenation of every entry's payload bytes — the whole thing
// encrypted in place with the xxtea cipher over its word-aligned prefix.
package artdat

import (
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	perr "github.com/provide-io/papers-modkit/internal/errors"
	"github.com/provide-io/papers-modkit/internal/xxtea"
)

// ResolveInputDir applies spec.md §4.4's input-directory search: if
// inputPath is non-empty it must be a directory, either named "assets"
// itself or containing one; if empty, the current directory's "assets" or
// "out/assets" subdirectory is used.
func ResolveInputDir(inputPath string) (string, error) {
	if inputPath != "" {
		info, err := os.Stat(inputPath)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("input path %q is not a directory: %w", inputPath, perr.ErrInputError)
		}
		if filepath.Base(inputPath) == "assets" {
			return inputPath, nil
		}
		candidate := filepath.Join(inputPath, "assets")
		if isDir(candidate) {
			return candidate, nil
		}
		return "", fmt.Errorf("input path %q does not contain an assets directory: %w", inputPath, perr.ErrInputError)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", perr.ErrIoError)
	}
	if candidate := filepath.Join(cwd, "assets"); isDir(candidate) {
		return candidate, nil
	}
	if candidate := filepath.Join(cwd, "out", "assets"); isDir(candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("current directory has no assets or out/assets directory: %w", perr.ErrInputError)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Pack walks inputDir (resolved via ResolveInputDir by the caller) and
// returns the fully encrypted Art.dat bytes.
func Pack(inputDir string, key string) ([]byte, error) {
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("pack input %q is not a directory: %w", inputDir, perr.ErrInputError)
	}

	var entries []Entry
	var payload []byte

	err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %q: %w", path, perr.ErrInputError)
		}
		relSlash := filepath.ToSlash(rel)
		if !utf8.ValidString(relSlash) {
			return fmt.Errorf("path %q is not valid UTF-8: %w", rel, perr.ErrInputError)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, perr.ErrIoError)
		}

		name := relSlash
		if !strings.HasPrefix(name, "assets/") {
			name = "assets/" + name
		}
		entries = append(entries, Entry{
			Name: name,
			Size: uint32(len(data)),
		})
		payload = append(payload, data...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	headerText := encodeHeader(entries)
	headerBytes := []byte(headerText)
	if len(headerBytes) > 0xFFFF {
		return nil, fmt.Errorf("Art.dat header too large (%d bytes): %w", len(headerBytes), perr.ErrInputError)
	}

	out := make([]byte, 0, 2+len(headerBytes)+len(payload))
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(len(headerBytes)))
	out = append(out, lenBuf...)
	out = append(out, headerBytes...)
	out = append(out, payload...)

	schedule := xxtea.Schedule(key)
	wordLen := len(out) - len(out)%4
	if err := xxtea.Encrypt(schedule, out[:wordLen]); err != nil {
		return nil, fmt.Errorf("encrypting Art.dat: %w", err)
	}

	return out, nil
}

// Unpack decrypts data and writes every entry's payload under outputDir.
// Entries whose target parent directory would escape outputDir are
// skipped with a warning, per spec.md §4.4's path-traversal guard.
func Unpack(data []byte, key string, outputDir string, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	buf := append([]byte(nil), data...)
	schedule := xxtea.Schedule(key)
	wordLen := len(buf) - len(buf)%4
	if err := xxtea.Decrypt(schedule, buf[:wordLen]); err != nil {
		return fmt.Errorf("decrypting Art.dat: %w", err)
	}

	if len(buf) < 2 {
		return fmt.Errorf("Art.dat shorter than its own length prefix: %w", perr.ErrMalformedInput)
	}
	headerLen := int(binary.LittleEndian.Uint16(buf[0:2]))
	if len(buf) < 2+headerLen {
		return fmt.Errorf("Art.dat header length %d exceeds file size: %w", headerLen, perr.ErrMalformedInput)
	}
	headerText := string(buf[2 : 2+headerLen])

	entries, err := decodeHeader(headerText)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", outputDir, perr.ErrIoError)
	}
	absRoot, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolving output directory %q: %w", outputDir, perr.ErrIoError)
	}
	canonicalRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		canonicalRoot = absRoot
	}

	index := 2 + headerLen
	for _, entry := range entries {
		if index+int(entry.Size) > len(buf) {
			return fmt.Errorf("asset %q declares %d bytes past end of file: %w", entry.Name, entry.Size, perr.ErrIntegrityError)
		}
		assetBytes := buf[index : index+int(entry.Size)]
		index += int(entry.Size)

		target := filepath.Join(outputDir, filepath.FromSlash(entry.Name))
		parent := filepath.Dir(target)
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("creating directory %q: %w", parent, perr.ErrIoError)
		}

		canonicalParent, err := filepath.EvalSymlinks(parent)
		if err != nil {
			canonicalParent = parent
		}
		if !withinRoot(canonicalParent, canonicalRoot) {
			logger.Warn("skipping asset: tried escaping output directory", "name", entry.Name)
			continue
		}

		if err := os.WriteFile(target, assetBytes, 0o644); err != nil {
			return fmt.Errorf("writing asset %q: %w", entry.Name, perr.ErrIoError)
		}
	}

	return nil
}

func withinRoot(candidate, root string) bool {
	candidate = filepath.Clean(candidate)
	root = filepath.Clean(root)
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}
