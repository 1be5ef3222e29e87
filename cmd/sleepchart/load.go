package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func loadCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "load <input>",
		Short: "Store the rows and sleep intervals of an event log",
		Long: `Parse an event log and save its day rows and merged sleep intervals to
the storage backend named in the configuration file (sqlite or postgres).
The new run ID is printed on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, root, nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			run, err := a.RenderFile(ctx, args[0], io.Discard)
			if err != nil {
				return err
			}
			if err := a.Store(ctx, run); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), run.ID)
			return nil
		},
	}
}
