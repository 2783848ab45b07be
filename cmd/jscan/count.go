package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jscan-dev/jscan"
	"github.com/jscan-dev/jscan/input"
)

func newCountCmd() *cobra.Command {
	var depthLimit int
	var recursive bool

	cmd := &cobra.Command{
		Use:   "count <query> <path>",
		Short: "Count values matching a JSONPath query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.Ctx(cmd.Context())
			q, path := args[0], args[1]

			src, err := input.OpenPath(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer src.Close()

			opts := evalOptions(depthLimit, recursive)
			logger.Debug().Str("query", q).Str("path", path).Msg("counting matches")
			n, err := jscan.Count(q, src, opts...)
			if err != nil {
				return fmt.Errorf("counting matches: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().IntVar(&depthLimit, "max-depth", 0, "override the nesting depth limit (0 keeps the default)")
	cmd.Flags().BoolVar(&recursive, "recursive-engine", false, "use the recursive-descent engine instead of the iterative one")
	return cmd
}

func evalOptions(depthLimit int, recursive bool) []jscan.EvalOption {
	var opts []jscan.EvalOption
	if depthLimit > 0 {
		opts = append(opts, jscan.WithDepthLimit(depthLimit))
	}
	if recursive {
		opts = append(opts, jscan.WithRecursiveEngine(true))
	}
	return opts
}
