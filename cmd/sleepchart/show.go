package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func showCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid run ID %q: %w", args[0], err)
			}

			a, err := setup(cmd, root, nil)
			if err != nil {
				return err
			}
			return a.Replay(cmd.Context(), id, cmd.OutOrStdout())
		},
	}
}
