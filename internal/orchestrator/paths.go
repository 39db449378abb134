// Package orchestrator implements the patch/revert pipeline of spec.md
// §4.8: unpack the assets file, apply patch-tree substitutions to the
// unpacked Art.dat tree and staged audio, repack Art.dat, rebuild the
// assets image with recomputed offsets, and optionally repack the locale
// archive.
package orchestrator

import "path/filepath"

// Relative paths of the three game files this tool ever touches, per
// spec.md §6's filesystem layout.
const (
	AssetsRelPath         = "PapersPlease_Data/sharedassets0.assets"
	LocaleZipRelPath      = "PapersPlease_Data/StreamingAssets/loc/en.zip"
	GlobalMetadataRelPath = "PapersPlease_Data/il2cpp_data/Metadata/global-metadata.dat"
)

// I18nMode selects whether the locale archive is repacked during patch.
type I18nMode int

const (
	I18nNone I18nMode = iota
	I18nNormal
)

func assetsPath(gameDir string) string {
	return filepath.Join(gameDir, filepath.FromSlash(AssetsRelPath))
}

func localeZipPath(gameDir string) string {
	return filepath.Join(gameDir, filepath.FromSlash(LocaleZipRelPath))
}

func backupPath(path string) string {
	return path + "-bak"
}
