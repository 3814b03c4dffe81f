package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"movielog/internal/preflight"
	"movielog/internal/ratings/letterboxd"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the library, catalog, ffprobe, and rating source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client := letterboxd.NewHTTPClient(cfg.RequestTimeout(), 0)
			results := preflight.RunAll(cmd.Context(), cfg, client)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printSection(out, "Preflight", colorize)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if !cfg.Ratings.Enabled {
				fmt.Fprintln(out, renderStatusLine("Rating source", statusInfo, "disabled", colorize))
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
