package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chrissnell/sleepchart/internal/export"
	"github.com/chrissnell/sleepchart/internal/summary"
)

func statsCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <input>",
		Short: "Print sleep statistics for an event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, root, nil)
			if err != nil {
				return err
			}

			run, err := a.RenderFile(cmd.Context(), args[0], io.Discard)
			if err != nil {
				return err
			}

			stats := summary.Summarize(run.Rows)
			if asJSON {
				f, err := export.NewFormatter(string(export.FormatJSON))
				if err != nil {
					return err
				}
				return f.Write(cmd.OutOrStdout(), stats)
			}
			_, err = stats.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}
