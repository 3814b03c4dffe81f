package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"movielog/internal/history"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var prune int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				out := cmd.OutOrStdout()
				if cmd.Flags().Changed("prune") {
					if prune < 0 {
						return fmt.Errorf("--prune must be zero or greater")
					}
					removed, err := store.Prune(cmd.Context(), prune)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Pruned %d run(s); kept the newest %d\n", removed, prune)
					return nil
				}

				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					views := make([]runView, 0, len(runs))
					for _, run := range runs {
						views = append(views, newRunView(run))
					}
					return writeJSON(cmd, views)
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.RunID,
						run.StartedAt.Local().Format(historyTimeLayout),
						runStatusLabel(run),
						run.Policy,
						strconv.Itoa(run.Total),
						strconv.Itoa(run.Added),
						strconv.Itoa(run.Removed),
						strconv.Itoa(run.Unresolved),
						run.Duration().Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Status", "Policy", "Total", "Added", "Removed", "Unresolved", "Elapsed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N runs")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the changes recorded for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				if jsonOutput {
					return writeJSON(cmd, newRunView(*run))
				}
				printRunDetail(cmd.OutOrStdout(), *run, shouldColorize(cmd.OutOrStdout()))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

type runView struct {
	RunID        string           `json:"run_id"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
	Status       string           `json:"status"`
	DryRun       bool             `json:"dry_run"`
	Policy       string           `json:"policy"`
	Total        int              `json:"total"`
	Added        int              `json:"added"`
	Removed      int              `json:"removed"`
	Unchanged    int              `json:"unchanged"`
	Unresolved   int              `json:"unresolved"`
	CatalogPath  string           `json:"catalog_path"`
	ErrorMessage string           `json:"error,omitempty"`
	Changes      []runChangeEntry `json:"changes,omitempty"`
}

type runChangeEntry struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Hash  string `json:"hash"`
	Path  string `json:"path,omitempty"`
}

func newRunView(run history.Run) runView {
	view := runView{
		RunID:        run.RunID,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Status:       string(run.Status),
		DryRun:       run.DryRun,
		Policy:       run.Policy,
		Total:        run.Total,
		Added:        run.Added,
		Removed:      run.Removed,
		Unchanged:    run.Unchanged,
		Unresolved:   run.Unresolved,
		CatalogPath:  run.CatalogPath,
		ErrorMessage: run.ErrorMessage,
	}
	for _, change := range run.Changes {
		view.Changes = append(view.Changes, runChangeEntry{
			Kind:  string(change.Kind),
			Title: change.Title,
			Hash:  change.Hash,
			Path:  change.Path,
		})
	}
	return view
}

func runStatusLabel(run history.Run) string {
	label := string(run.Status)
	if run.DryRun {
		label += " (dry run)"
	}
	return label
}

func printRunDetail(out io.Writer, run history.Run, colorize bool) {
	printSection(out, "Run "+run.RunID, colorize)
	kind := statusOK
	if run.Status != history.StatusSuccess {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Status", kind, runStatusLabel(run), colorize))
	if run.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(historyTimeLayout), colorize))
	fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, run.Duration().Round(time.Millisecond).String(), colorize))
	fmt.Fprintln(out, renderStatusLine("Policy", statusInfo, run.Policy, colorize))
	fmt.Fprintln(out, renderStatusLine("Catalog", statusInfo, run.CatalogPath, colorize))
	fmt.Fprintln(out, renderStatusLine("Records", statusInfo,
		fmt.Sprintf("%d total, %d added, %d removed, %d unchanged, %d unresolved",
			run.Total, run.Added, run.Removed, run.Unchanged, run.Unresolved), colorize))

	if len(run.Changes) == 0 {
		return
	}
	printSection(out, "Changes", colorize)
	rows := make([][]string, 0, len(run.Changes))
	for _, change := range run.Changes {
		rows = append(rows, []string{string(change.Kind), change.Title, change.Hash, change.Path})
	}
	fmt.Fprintln(out, renderTable([]string{"Kind", "Title", "Hash", "Path"}, rows, nil))
}
