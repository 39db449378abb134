package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/provide-io/papers-modkit/internal/artdat"
	perr "github.com/provide-io/papers-modkit/internal/errors"
	"github.com/provide-io/papers-modkit/internal/orchestrator"
)

func newUnpackCmd() *cobra.Command {
	var inputPath, outputDir string

	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Unpack an Art.dat, or the Art.dat object inside an AssetsFile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(inputPath, outputDir)
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "input file (defaults to <game-dir>/PapersPlease_Data/sharedassets0.assets)")
	cmd.Flags().StringVar(&outputDir, "output", "", "output directory (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runUnpack(inputPath, outputDir string) error {
	if inputPath == "" {
		if gameDir == "" {
			return fmt.Errorf("--input or --game-dir is required: %w", perr.ErrInputError)
		}
		inputPath = filepath.Join(gameDir, filepath.FromSlash(orchestrator.AssetsRelPath))
	}

	logger := newLogger("unpack")
	ext := strings.ToLower(filepath.Ext(inputPath))

	switch ext {
	case ".dat", ".txt":
		key, err := resolveArtKey()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("reading %q: %w", inputPath, perr.ErrIoError)
		}
		return artdat.Unpack(data, key, outputDir, logger)

	case ".assets":
		key, err := resolveArtKey()
		if err != nil {
			return err
		}
		return orchestrator.UnpackAssetsFile(inputPath, key, outputDir, logger)

	default:
		return fmt.Errorf("input %q has unrecognized extension %q: %w", inputPath, ext, perr.ErrInputError)
	}
}
