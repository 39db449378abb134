package main

import (
	"github.com/spf13/cobra"

	"github.com/provide-io/papers-modkit/internal/orchestrator"
)

func newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert",
		Short: "Restore game files from their -bak backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := gameDir
			if dir == "" {
				dir = "."
			}
			return orchestrator.Revert(dir, newLogger("revert"))
		},
	}
}
