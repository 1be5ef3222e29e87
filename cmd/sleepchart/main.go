package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrissnell/sleepchart/internal/app"
	"github.com/chrissnell/sleepchart/internal/log"
	"github.com/chrissnell/sleepchart/pkg/config"
)

var version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// rootFlags are shared by every subcommand
type rootFlags struct {
	config  string
	debug   bool
	logFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "sleepchart",
		Short:         "Draw a sleep chart from a log of bedtimes and wake times",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Path to YAML configuration file (default "+defaultConfigFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Use debug glyphs and debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Also write JSON logs to this file")

	rootCmd.AddCommand(chartCmd(flags))
	rootCmd.AddCommand(statsCmd(flags))
	rootCmd.AddCommand(loadCmd(flags))
	rootCmd.AddCommand(showCmd(flags))

	return rootCmd
}

// setup loads configuration, applies the shared flags and starts logging.
// apply, when non-nil, lets a subcommand override configuration before the
// App is built.
func setup(cmd *cobra.Command, flags *rootFlags, apply func(*config.ConfigData) error) (*app.App, error) {
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("debug") {
		cfg.Chart.Debug = flags.debug
		cfg.Log.Debug = flags.debug
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	err = log.Init(log.Options{
		Debug:      cfg.Log.Debug,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return app.New(cfg, log.GetSugaredLogger()), nil
}
