package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"movielog/internal/config"
	"movielog/internal/history"
	"movielog/internal/preflight"
	"movielog/internal/reconcile"
	"movielog/internal/runner"
)

type runReport struct {
	RunID         string           `json:"run_id"`
	DryRun        bool             `json:"dry_run"`
	Policy        string           `json:"policy"`
	CatalogPath   string           `json:"catalog_path"`
	Scanned       int              `json:"scanned"`
	RatingEntries int              `json:"rating_entries"`
	Added         []changeView     `json:"added"`
	Removed       []changeView     `json:"removed"`
	Unchanged     int              `json:"unchanged"`
	Unresolved    []unresolvedView `json:"unresolved"`
	Elapsed       string           `json:"elapsed"`
}

type changeView struct {
	Title string `json:"title"`
	Year  int16  `json:"year,omitempty"`
	Hash  string `json:"hash"`
	Path  string `json:"path,omitempty"`
}

type unresolvedView struct {
	Path    string   `json:"path"`
	Hash    string   `json:"hash"`
	Reasons []string `json:"reasons"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool
	var policy string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the library and replace the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if policy != "" && policy != config.PolicyAbort && policy != config.PolicyMark {
				return fmt.Errorf("invalid --policy %q (want %s or %s)", policy, config.PolicyAbort, config.PolicyMark)
			}
			if failed := preflight.Failed(preflight.RunLocal(cmd.Context(), cfg)); len(failed) > 0 {
				parts := make([]string, 0, len(failed))
				for _, f := range failed {
					parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.Detail))
				}
				return fmt.Errorf("preflight failed: %s (run `movielog check` for details)", strings.Join(parts, "; "))
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := append([]runner.Option{runner.WithHistory(store)}, ctx.runnerOptions...)
			r, err := runner.New(cfg, logger, opts...)
			if err != nil {
				return err
			}
			summary, err := r.Run(cmd.Context(), runner.Options{DryRun: dryRun, Policy: policy})
			if err != nil {
				return err
			}

			report := buildRunReport(summary)
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printRunReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile without writing the catalog")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().StringVar(&policy, "policy", "", "Override the reconcile policy (abort or mark)")
	return cmd
}

func buildRunReport(summary *runner.Summary) runReport {
	res := summary.Result
	report := runReport{
		RunID:         summary.RunID,
		DryRun:        summary.DryRun,
		Policy:        summary.Policy,
		CatalogPath:   summary.CatalogPath,
		Scanned:       summary.Scanned,
		RatingEntries: summary.RatingEntries,
		Added:         changeViews(res.Added),
		Removed:       changeViews(res.Removed),
		Unchanged:     res.Unchanged,
		Unresolved:    make([]unresolvedView, 0, len(res.Unresolved)),
		Elapsed:       summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String(),
	}
	for _, u := range res.Unresolved {
		report.Unresolved = append(report.Unresolved, unresolvedView{Path: u.Path, Hash: u.Hash, Reasons: u.Reasons})
	}
	return report
}

func changeViews(changes []reconcile.Change) []changeView {
	views := make([]changeView, 0, len(changes))
	for _, c := range changes {
		views = append(views, changeView{Title: c.Title, Year: c.Year, Hash: c.Hash, Path: c.Path})
	}
	return views
}

func printRunReport(out io.Writer, report runReport, colorize bool) {
	if len(report.Added) > 0 {
		printSection(out, fmt.Sprintf("Added (%d)", len(report.Added)), colorize)
		fmt.Fprintln(out, renderChangeTable(report.Added))
	}
	if len(report.Removed) > 0 {
		printSection(out, fmt.Sprintf("Removed (%d)", len(report.Removed)), colorize)
		fmt.Fprintln(out, renderChangeTable(report.Removed))
	}
	if len(report.Unresolved) > 0 {
		printSection(out, fmt.Sprintf("Unresolved (%d)", len(report.Unresolved)), colorize)
		fmt.Fprintln(out, "These files were catalogued with UNRECOGNIZED placeholders because the mark policy is active.")
		rows := make([][]string, 0, len(report.Unresolved))
		for _, u := range report.Unresolved {
			rows = append(rows, []string{u.Path, u.Hash, strings.Join(u.Reasons, "\n")})
		}
		fmt.Fprintln(out, renderTable([]string{"Path", "Hash", "Reasons"}, rows, nil))
	}

	printSection(out, "Summary", colorize)
	fmt.Fprintln(out, renderStatusLine("Added", statusOK, strconv.Itoa(len(report.Added)), colorize))
	removedKind := statusOK
	if len(report.Removed) > 0 {
		removedKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Removed", removedKind, strconv.Itoa(len(report.Removed)), colorize))
	fmt.Fprintln(out, renderStatusLine("Unchanged", statusInfo, strconv.Itoa(report.Unchanged), colorize))
	if len(report.Unresolved) > 0 {
		fmt.Fprintln(out, renderStatusLine("Unresolved", statusWarn, strconv.Itoa(len(report.Unresolved)), colorize))
	}
	catalogMsg := report.CatalogPath
	if report.DryRun {
		catalogMsg = "dry run, not written"
	}
	fmt.Fprintln(out, renderStatusLine("Catalog", statusInfo, catalogMsg, colorize))
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, fmt.Sprintf("%s (%s)", report.RunID, report.Elapsed), colorize))
}

func renderChangeTable(changes []changeView) string {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		year := ""
		if c.Year != 0 {
			year = strconv.Itoa(int(c.Year))
		}
		rows = append(rows, []string{c.Title, year, c.Hash})
	}
	return renderTable([]string{"Title", "Year", "Hash"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}
