package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/provide-io/papers-modkit/internal/artdat"
	perr "github.com/provide-io/papers-modkit/internal/errors"
)

func newPackCmd() *cobra.Command {
	var inputDir, outputPath string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a directory into an encrypted Art.dat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(inputDir, outputPath)
		},
	}
	cmd.Flags().StringVar(&inputDir, "input", "", "input directory (defaults to ./assets or ./out/assets)")
	cmd.Flags().StringVar(&outputPath, "output", "", "output Art.dat path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runPack(inputDir, outputPath string) error {
	ext := strings.ToLower(filepath.Ext(outputPath))
	if ext != ".dat" && ext != ".txt" {
		return fmt.Errorf("output %q must end in .dat or .txt: %w", outputPath, perr.ErrInputError)
	}

	dir, err := artdat.ResolveInputDir(inputDir)
	if err != nil {
		return err
	}

	key, err := resolveArtKey()
	if err != nil {
		return err
	}

	data, err := artdat.Pack(dir, key)
	if err != nil {
		return err
	}

	logger := newLogger("pack")
	logger.Info("packed Art.dat", "input", dir, "output", outputPath, "bytes", len(data))

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", outputPath, perr.ErrIoError)
	}
	return nil
}
