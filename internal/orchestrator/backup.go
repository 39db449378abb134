package orchestrator

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// backupIfMissing copies path to its "-bak" sibling, unless one already
// exists: spec.md §4.8's preparation step. Backups are the sole recovery
// mechanism, so an existing backup is never overwritten.
func backupIfMissing(path string, logger hclog.Logger) error {
	bak := backupPath(path)
	if _, err := os.Stat(bak); err == nil {
		logger.Debug("backup already exists, leaving it in place", "path", bak)
		return nil
	}
	logger.Info("backing up file", "path", path, "backup", bak)
	return copyFile(path, bak)
}

// Revert restores sharedassets0.assets and the locale archive under
// gameDir from whichever of their "-bak" siblings exist; it returns an
// error only when neither backup exists.
func Revert(gameDir string, logger hclog.Logger) error {
	restored := 0
	for _, full := range []string{assetsPath(gameDir), localeZipPath(gameDir)} {
		bak := backupPath(full)
		if _, err := os.Stat(bak); err != nil {
			continue
		}
		logger.Info("reverting file from backup", "path", full, "backup", bak)
		if err := copyFile(bak, full); err != nil {
			return err
		}
		restored++
	}
	if restored == 0 {
		return fmt.Errorf("no backups found under %q: %w", gameDir, perr.ErrInputError)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, perr.ErrIoError)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, perr.ErrIoError)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %q to %q: %w", src, dst, perr.ErrIoError)
	}
	return out.Close()
}
