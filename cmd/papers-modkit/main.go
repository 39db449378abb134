package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/papers-modkit/internal/artdat"
	perr "github.com/provide-io/papers-modkit/internal/errors"
	"github.com/provide-io/papers-modkit/internal/logging"
	"github.com/provide-io/papers-modkit/internal/orchestrator"
)

var (
	gameDir  string
	artKey   string
	logLevel string
	rootCmd  *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "papers-modkit",
		Short:         "Pack, unpack, and patch Papers, Please game data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&gameDir, "game-dir", "", "path to the game's installation directory")
	rootCmd.PersistentFlags().StringVar(&artKey, "art-key", "", "Art.dat encryption key (auto-extracted from global-metadata.dat if omitted)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newPackCmd())
	rootCmd.AddCommand(newUnpackCmd())
	rootCmd.AddCommand(newPatchCmd())
	rootCmd.AddCommand(newRevertCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(perr.ExitCode(err))
	}
}

func newLogger(component string) hclog.Logger {
	return logging.New(component, logging.Level(logLevel), nil)
}

// resolveArtKey returns the explicit --art-key value, or extracts it from
// --game-dir's global-metadata.dat if omitted.
func resolveArtKey() (string, error) {
	if artKey != "" {
		return artKey, nil
	}
	if gameDir == "" {
		return "", fmt.Errorf("--art-key or --game-dir is required to resolve the Art.dat key: %w", perr.ErrInputError)
	}
	metadataPath := filepath.Join(gameDir, filepath.FromSlash(orchestrator.GlobalMetadataRelPath))
	return artdat.ExtractKey(metadataPath)
}
