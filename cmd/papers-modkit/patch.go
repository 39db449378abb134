package main

import (
	"fmt"

	"github.com/spf13/cobra"

	perr "github.com/provide-io/papers-modkit/internal/errors"
	"github.com/provide-io/papers-modkit/internal/orchestrator"
)

func newPatchCmd() *cobra.Command {
	var patchDir, i18n string

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply a patch tree to the game's assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(patchDir, i18n)
		},
	}
	cmd.Flags().StringVar(&patchDir, "patch", "", "patch directory")
	cmd.Flags().StringVar(&i18n, "i18n", "none", "locale handling: none or normal")

	return cmd
}

func runPatch(patchDir, i18nFlag string) error {
	if gameDir == "" {
		return fmt.Errorf("--game-dir is required: %w", perr.ErrInputError)
	}
	if patchDir == "" {
		patchDir = "."
	}

	var mode orchestrator.I18nMode
	switch i18nFlag {
	case "none", "":
		mode = orchestrator.I18nNone
	case "normal":
		mode = orchestrator.I18nNormal
	default:
		return fmt.Errorf("--i18n must be \"none\" or \"normal\", got %q: %w", i18nFlag, perr.ErrInputError)
	}

	key, err := resolveArtKey()
	if err != nil {
		return err
	}

	return orchestrator.Patch(orchestrator.PatchOptions{
		GameDir:  gameDir,
		PatchDir: patchDir,
		ArtKey:   key,
		I18n:     mode,
		Logger:   newLogger("patch"),
	})
}
