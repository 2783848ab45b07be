package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jscan-dev/jscan"
	"github.com/jscan-dev/jscan/input"
)

func newMatchCmd() *cobra.Command {
	var depthLimit int
	var recursive bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match <query> <path>",
		Short: "Print the byte offsets of values matching a JSONPath query",
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
			logger.Debug().Str("query", q).Str("path", path).Msg("matching")
			res, err := jscan.Match(q, src, opts...)
			if err != nil {
				return fmt.Errorf("matching: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(res)
			}
			out := cmd.OutOrStdout()
			for _, off := range res.Offsets {
				fmt.Fprintln(out, off)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depthLimit, "max-depth", 0, "override the nesting depth limit (0 keeps the default)")
	cmd.Flags().BoolVar(&recursive, "recursive-engine", false, "use the recursive-descent engine instead of the iterative one")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit a single JSON object with count and offsets instead of one offset per line")
	return cmd
}
