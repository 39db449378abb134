package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/papers-modkit/internal/artdat"
	"github.com/provide-io/papers-modkit/internal/assetsfile"
	perr "github.com/provide-io/papers-modkit/internal/errors"
	"github.com/provide-io/papers-modkit/internal/localezip"
)

// PatchOptions configures a single patch run.
type PatchOptions struct {
	GameDir  string
	PatchDir string
	ArtKey   string
	I18n     I18nMode
	Logger   hclog.Logger
}

// Patch runs the full pipeline of spec.md §4.8: back up, unpack, stage
// audio, substitute the patch tree, repack Art.dat, rebuild the assets
// image, optionally repack the locale archive, then clean up scratch.
func Patch(opts PatchOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	transition := func(s State) {
		logger.Info("patch state transition", "state", s.String())
	}

	assetsPathLive := assetsPath(opts.GameDir)
	if err := backupIfMissing(assetsPathLive, logger); err != nil {
		return err
	}
	assetsPathBak := backupPath(assetsPathLive)
	localeZipLive := localeZipPath(opts.GameDir)
	var localeZipBak string
	if opts.I18n == I18nNormal {
		if err := backupIfMissing(localeZipLive, logger); err != nil {
			return err
		}
		localeZipBak = backupPath(localeZipLive)
	}
	transition(StateBackedUp)

	scratchDir, err := os.MkdirTemp("", "papers-modkit-patch-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", perr.ErrIoError)
	}
	logger.Debug("created scratch directory", "path", scratchDir)

	// Read the pristine backup, never the live file: a second patch run
	// must start from the original assets, not an already-patched one.
	assetsHandle, err := os.Open(assetsPathBak)
	if err != nil {
		return fmt.Errorf("opening %q: %w", assetsPathBak, perr.ErrIoError)
	}
	defer assetsHandle.Close()

	original, err := assetsfile.Read(assetsHandle)
	if err != nil {
		return err
	}
	transition(StateUnpacked)

	order := assetsfile.ContentByteOrder(original.Header.Endianness)
	resolved, err := original.ResolveObjectClasses()
	if err != nil {
		return err
	}

	artObj, err := findArtDatObject(assetsHandle, order, original.Header.OffsetFirstFile, resolved)
	if err != nil {
		return err
	}
	artBytes, err := extractArtDat(assetsHandle, order, original.Header.OffsetFirstFile, *artObj)
	if err != nil {
		return err
	}

	unpackedDir := filepath.Join(scratchDir, "unpacked")
	if err := artdat.Unpack(artBytes, opts.ArtKey, unpackedDir, logger); err != nil {
		return err
	}
	transition(StateAssetsParsed)

	audioPatches := audioPatchSet{}
	descriptorPath := filepath.Join(opts.PatchDir, "audio_patches.json")
	entries, err := loadAudioPatches(descriptorPath)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		existing, err := existingAudioClipNames(assetsHandle, order, original.Header.OffsetFirstFile, resolved)
		if err != nil {
			return err
		}
		resourcePath := filepath.Join(filepath.Dir(assetsPathLive), moddedResourceName)
		audioPatches, err = stageAudioPatches(entries, opts.PatchDir, resourcePath, existing)
		if err != nil {
			return err
		}
	}
	transition(StateAudioStaged)

	if err := ApplyPatchTree(unpackedDir, opts.PatchDir); err != nil {
		return err
	}

	newArtBytes, err := artdat.Pack(unpackedDir, opts.ArtKey)
	if err != nil {
		return err
	}
	transition(StateArtRepacked)

	newAssetsPath := filepath.Join(scratchDir, "sharedassets0.assets")
	newAssetsFile, err := os.Create(newAssetsPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", newAssetsPath, perr.ErrIoError)
	}
	if err := RebuildImage(original, assetsHandle, artObj.PathID, newArtBytes, audioPatches, newAssetsFile); err != nil {
		newAssetsFile.Close()
		return err
	}
	if err := newAssetsFile.Close(); err != nil {
		return fmt.Errorf("finishing %q: %w", newAssetsPath, perr.ErrIoError)
	}
	transition(StateImageWritten)

	var newLocalePath string
	if opts.I18n == I18nNormal {
		newLocalePath = filepath.Join(scratchDir, "en.zip")
		if err := repackLocale(localeZipBak, unpackedDir, newLocalePath); err != nil {
			return err
		}
		transition(StateLocaleRepacked)
	}

	if err := assetsHandle.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", assetsPathBak, perr.ErrIoError)
	}
	if err := copyFile(newAssetsPath, assetsPathLive); err != nil {
		return err
	}
	if newLocalePath != "" {
		if err := copyFile(newLocalePath, localeZipLive); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(scratchDir); err != nil {
		logger.Warn("failed to remove scratch directory", "path", scratchDir, "error", err)
	} else {
		transition(StateCleaned)
	}

	return nil
}

func repackLocale(bakZipPath, patchedAssetsDir, outPath string) error {
	src, err := os.Open(bakZipPath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", bakZipPath, perr.ErrIoError)
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", bakZipPath, perr.ErrIoError)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", outPath, perr.ErrIoError)
	}
	defer out.Close()

	if err := localezip.Repack(src, info.Size(), patchedAssetsDir, out); err != nil {
		return err
	}
	return out.Close()
}
