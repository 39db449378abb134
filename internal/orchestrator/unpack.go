package orchestrator

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/papers-modkit/internal/artdat"
	"github.com/provide-io/papers-modkit/internal/assetsfile"
	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// UnpackAssetsFile opens the AssetsFile at assetsPath, locates its
// "Art.dat" TextAsset object, and unpacks that object's decrypted
// contents to outputDir: spec.md §6's ".assets" unpack path.
func UnpackAssetsFile(assetsPath, key, outputDir string, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	f, err := os.Open(assetsPath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", assetsPath, perr.ErrIoError)
	}
	defer f.Close()

	file, err := assetsfile.Read(f)
	if err != nil {
		return err
	}
	order := assetsfile.ContentByteOrder(file.Header.Endianness)

	resolved, err := file.ResolveObjectClasses()
	if err != nil {
		return err
	}

	artObj, err := findArtDatObject(f, order, file.Header.OffsetFirstFile, resolved)
	if err != nil {
		return err
	}
	logger.Info("found Art.dat object", "path_id", artObj.PathID)

	artBytes, err := extractArtDat(f, order, file.Header.OffsetFirstFile, *artObj)
	if err != nil {
		return err
	}

	return artdat.Unpack(artBytes, key, outputDir, logger)
}
