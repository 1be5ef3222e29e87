package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrissnell/sleepchart/pkg/config"
)

func chartCmd(root *rootFlags) *cobra.Command {
	var (
		output     string
		anchor     string
		rulerEvery int
		store      bool
		exportPath string
		format     string
		doExport   bool
	)

	cmd := &cobra.Command{
		Use:   "chart <input>",
		Short: "Render the sleep chart for an event log ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, root, func(cfg *config.ConfigData) error {
				if anchor != "" {
					cfg.Chart.AnchorDate = anchor
				}
				if rulerEvery != 0 {
					cfg.Chart.RulerEvery = rulerEvery
				}
				if exportPath != "" {
					cfg.Export.Path = exportPath
				}
				if format != "" {
					cfg.Export.Format = format
				}
				if format != "" && cfg.Export.Path == "" {
					return fmt.Errorf("--format needs --export or export.path in the configuration")
				}
				doExport = cfg.Export.Path != ""
				if store && cfg.Storage.SQLite == nil && cfg.Storage.Postgres == nil {
					return fmt.Errorf("--store needs a storage section in the configuration")
				}
				return nil
			})
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("could not create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			ctx := cmd.Context()
			run, err := a.RenderFile(ctx, args[0], out)
			if err != nil {
				return err
			}

			if doExport {
				if err := a.Export(run); err != nil {
					return err
				}
			}
			if store {
				if err := a.Store(ctx, run); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "stored run %s\n", run.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the chart to this file instead of stdout")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Date (YYYY-MM-DD) of the first row when the log names none")
	cmd.Flags().IntVar(&rulerEvery, "ruler-every", 0, "Repeat the hour ruler every N rows")
	cmd.Flags().BoolVar(&store, "store", false, "Save the run to the configured storage backend")
	cmd.Flags().StringVar(&exportPath, "export", "", "Also write the chart as data to this file")
	cmd.Flags().StringVar(&format, "format", "", "Export format: json or msgpack")

	return cmd
}
