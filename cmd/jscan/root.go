// Package main implements the jscan CLI: streaming JSONPath matching
// over files or stdin, without a CLI package, since everything lives
// under one binary's main.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newLogger builds the structured logger used by every subcommand.
// -v raises the level to debug; otherwise only warnings and above surface,
// keeping library code (jscan itself) free of logging entirely.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewRootCmd creates the root jscan command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "jscan",
		Short:         "jscan - streaming JSONPath matching over large documents",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger := newLogger(verbose)
		cmd.SetContext(logger.WithContext(cmd.Context()))
	}

	root.AddCommand(newCountCmd())
	root.AddCommand(newMatchCmd())
	return root
}
