// Package localezip repacks the English localization archive
// (StreamingAssets/loc/en.zip): spec.md §4.8 step 10. It is a stored-mode
// ZIP; untouched entries are copied through raw to preserve their CRCs,
// and patched entries are substituted from the patched asset tree.
package localezip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// Repack reads the original locale archive from src (of the given size)
// and writes the patched archive to out. For every entry whose name, with
// its leading slash stripped, exists as a regular file under
// patchedAssetsDir, that file's bytes replace the entry; every other
// entry is copied through raw and unchanged.
func Repack(src io.ReaderAt, size int64, patchedAssetsDir string, out io.Writer) error {
	zr, err := zip.NewReader(src, size)
	if err != nil {
		return fmt.Errorf("reading locale archive: %w: %v", perr.ErrMalformedInput, err)
	}

	zw := zip.NewWriter(out)
	for _, f := range zr.File {
		patchPath := filepath.Join(patchedAssetsDir, strings.TrimPrefix(f.Name, "/"))

		if info, statErr := os.Stat(patchPath); statErr == nil && !info.IsDir() {
			if err := writePatchedEntry(zw, f.Name, patchPath); err != nil {
				return err
			}
			continue
		}

		if err := copyRawEntry(zw, f); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing locale archive: %w", perr.ErrIoError)
	}
	return nil
}

func writePatchedEntry(zw *zip.Writer, name, patchPath string) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("starting locale entry %q: %w", name, perr.ErrIoError)
	}
	pf, err := os.Open(patchPath)
	if err != nil {
		return fmt.Errorf("opening patch file %q: %w", patchPath, perr.ErrIoError)
	}
	defer pf.Close()
	if _, err := io.Copy(w, pf); err != nil {
		return fmt.Errorf("copying patch file %q: %w", patchPath, perr.ErrIoError)
	}
	return nil
}

func copyRawEntry(zw *zip.Writer, f *zip.File) error {
	rc, err := f.OpenRaw()
	if err != nil {
		return fmt.Errorf("opening raw locale entry %q: %w", f.Name, perr.ErrIoError)
	}
	header := f.FileHeader
	rw, err := zw.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("starting raw locale entry %q: %w", f.Name, perr.ErrIoError)
	}
	if _, err := io.Copy(rw, rc); err != nil {
		return fmt.Errorf("copying raw locale entry %q: %w", f.Name, perr.ErrIoError)
	}
	return nil
}
