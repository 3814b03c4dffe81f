package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"movielog/internal/catalog"
	"movielog/internal/rename"
	"movielog/internal/scan"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename library folders to their canonical catalog names",
		Long: "Plan folder renames from the catalog. Folders are matched to records by\n" +
			"the fingerprint of the movie file inside them. Nothing is moved unless\n" +
			"--apply is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			cat, err := catalog.Load(cfg.Paths.CatalogPath, logger)
			if err != nil {
				return err
			}
			entries, err := scan.Library(cmd.Context(), cfg.Paths.LibraryDir, scan.Options{
				Extensions: cfg.Scan.Extensions,
				MaxDepth:   cfg.Scan.MaxDepth,
			})
			if err != nil {
				return err
			}
			plan, err := rename.Build(cfg.Paths.LibraryDir, entries, cat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printRenamePlan(out, cfg.Paths.LibraryDir, plan, colorize)
			if len(plan.Moves) == 0 {
				return nil
			}
			if !apply {
				fmt.Fprintln(out, "Dry run; pass --apply to rename these folders")
				return nil
			}

			result, err := rename.Apply(cmd.Context(), plan, logger)
			if err != nil {
				return err
			}
			printSection(out, "Applied", colorize)
			fmt.Fprintln(out, renderStatusLine("Renamed", statusOK, fmt.Sprintf("%d", len(result.Renamed)), colorize))
			if len(result.Failed) > 0 {
				for _, failed := range result.Failed {
					fmt.Fprintln(out, renderStatusLine(filepath.Base(failed.Path), statusError, failed.Reason, colorize))
				}
				return fmt.Errorf("%d folder rename(s) failed", len(result.Failed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Perform the renames instead of only listing them")
	return cmd
}

func printRenamePlan(out io.Writer, root string, plan rename.Plan, colorize bool) {
	if len(plan.Moves) > 0 {
		printSection(out, fmt.Sprintf("Planned renames (%d)", len(plan.Moves)), colorize)
		rows := make([][]string, 0, len(plan.Moves))
		for _, move := range plan.Moves {
			rows = append(rows, []string{relativeTo(root, move.From), filepath.Base(move.To)})
		}
		fmt.Fprintln(out, renderTable([]string{"Folder", "New name"}, rows, nil))
	} else {
		fmt.Fprintln(out, "No folders need renaming")
	}
	if len(plan.Skipped) > 0 {
		printSection(out, fmt.Sprintf("Skipped (%d)", len(plan.Skipped)), colorize)
		for _, skip := range plan.Skipped {
			fmt.Fprintln(out, renderStatusLine(relativeTo(root, skip.Path), statusWarn, skip.Reason, colorize))
		}
	}
	if plan.InPlace > 0 {
		fmt.Fprintf(out, "%d folder(s) already carry their canonical name\n", plan.InPlace)
	}
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
