package orchestrator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	perr "github.com/provide-io/papers-modkit/internal/errors"
	"github.com/provide-io/papers-modkit/internal/xmlmerge"
)

// copyExtensions get substituted by a straight byte copy; mergeExtensions
// go through the structural XML merger. A patch file with any other
// extension is a fatal error when it substitutes an existing unpacked
// file; a patch-only file is copied in whatever its extension.
var (
	copyExtensions  = map[string]bool{".png": true, ".csv": true, ".txt": true}
	mergeExtensions = map[string]bool{".xml": true, ".fnt": true}
)

// ApplyPatchTree walks unpackedDir (the Art.dat contents already unpacked
// to scratch) and overlays patchDir/assets onto it in place: recognized
// patch files replace or merge into the matching unpacked file, then any
// patch file with no corresponding unpacked file is added as new.
func ApplyPatchTree(unpackedDir, patchDir string) error {
	// Unpack writes every Art.dat entry under its own "assets/…" name, so
	// the content root inside unpackedDir is unpackedDir/assets, matching
	// patchDir/assets entry for entry.
	unpackedAssetsDir := filepath.Join(unpackedDir, "assets")
	patchAssetsDir := filepath.Join(patchDir, "assets")
	if info, err := os.Stat(patchAssetsDir); err != nil || !info.IsDir() {
		return nil
	}

	seen := make(map[string]bool)

	err := filepath.WalkDir(unpackedAssetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(unpackedAssetsDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %q: %w", path, perr.ErrIoError)
		}
		seen[rel] = true

		patchFile := filepath.Join(patchAssetsDir, rel)
		if _, err := os.Stat(patchFile); err != nil {
			return nil
		}
		return substituteFile(path, patchFile, filepath.Base(rel))
	})
	if err != nil {
		return err
	}

	return filepath.WalkDir(patchAssetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(patchAssetsDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %q: %w", path, perr.ErrIoError)
		}
		if seen[rel] {
			return nil
		}

		// New patch-only files are added as a straight copy regardless of
		// extension, matching the original patcher's unconditional copy;
		// only files that substitute an existing unpacked entry go through
		// the type-specific copy-or-merge dispatch in substituteFile.
		target := filepath.Join(unpackedAssetsDir, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %q: %w", target, perr.ErrIoError)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, perr.ErrIoError)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", target, perr.ErrIoError)
		}
		return nil
	})
}

func substituteFile(unpackedPath, patchPath, filename string) error {
	ext := strings.ToLower(filepath.Ext(unpackedPath))

	switch {
	case copyExtensions[ext]:
		data, err := os.ReadFile(patchPath)
		if err != nil {
			return fmt.Errorf("reading %q: %w", patchPath, perr.ErrIoError)
		}
		if err := os.WriteFile(unpackedPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", unpackedPath, perr.ErrIoError)
		}
		return nil

	case mergeExtensions[ext]:
		original, err := os.ReadFile(unpackedPath)
		if err != nil {
			return fmt.Errorf("reading %q: %w", unpackedPath, perr.ErrIoError)
		}
		patch, err := os.ReadFile(patchPath)
		if err != nil {
			return fmt.Errorf("reading %q: %w", patchPath, perr.ErrIoError)
		}
		merged, err := xmlmerge.Merge(original, patch, filename)
		if err != nil {
			return err
		}
		if err := os.WriteFile(unpackedPath, merged, 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", unpackedPath, perr.ErrIoError)
		}
		return nil

	default:
		return fmt.Errorf("patch file %q has unrecognized extension %q: %w", patchPath, ext, perr.ErrUnsupportedFormat)
	}
}
