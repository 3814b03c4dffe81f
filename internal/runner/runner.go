// Package runner executes one end-to-end catalog run: take the run lock, load
// the previous catalog, fetch the rating snapshot, scan and reconcile the
// library, replace the catalog, and record the run in history.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"movielog/internal/catalog"
	"movielog/internal/config"
	"movielog/internal/history"
	"movielog/internal/logging"
	"movielog/internal/media"
	"movielog/internal/media/ffprobe"
	"movielog/internal/naming"
	"movielog/internal/ratings"
	"movielog/internal/ratings/letterboxd"
	"movielog/internal/reconcile"
	"movielog/internal/scan"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another movielog run is in progress")

// Options tune a single run.
type Options struct {
	// DryRun reconciles without replacing the catalog.
	DryRun bool
	// Policy overrides the configured reconcile policy when set.
	Policy string
}

// Summary describes a completed run.
type Summary struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	DryRun        bool
	Policy        string
	CatalogPath   string
	Scanned       int
	RatingEntries int
	Result        reconcile.Result
}

// Runner wires the run dependencies.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	source  ratings.Source
	prober  media.Prober
	history *history.Store
	now     func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithSource replaces the rating source built from config.
func WithSource(source ratings.Source) Option {
	return func(r *Runner) { r.source = source }
}

// WithProber replaces the ffprobe prober.
func WithProber(prober media.Prober) Option {
	return func(r *Runner) { r.prober = prober }
}

// WithHistory records each run in store.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) { r.history = store }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New builds a Runner from cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.prober == nil {
		r.prober = ffprobe.NewProber(cfg.FFprobeBinary())
	}
	if r.source == nil && cfg.Ratings.Enabled {
		client := letterboxd.NewHTTPClient(cfg.RequestTimeout(), cfg.Ratings.Retries)
		r.source = letterboxd.New(cfg.Ratings.SourceURL, client, logger)
	}
	return r, nil
}

// Run performs one run. On error the catalog file is left as it was.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{
		RunID:       uuid.NewString(),
		StartedAt:   r.now(),
		DryRun:      opts.DryRun,
		Policy:      r.policy(opts),
		CatalogPath: r.cfg.Paths.CatalogPath,
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, r.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Path(r.cfg.Paths.LibraryDir),
		logging.String("policy", summary.Policy),
		logging.Bool("dry_run", opts.DryRun),
	)
	if summary.Policy == config.PolicyMark {
		logging.WarnWithContext(logger, "mark policy enabled: unrecognized entries are stored instead of aborting the run", "policy_mark",
			logging.String(logging.FieldImpact, "catalog may contain UNRECOGNIZED sentinels"),
			logging.String(logging.FieldErrorHint, "review the unresolved list printed at the end of the run"),
		)
	}

	runErr := r.execute(ctx, logger, summary)
	summary.FinishedAt = r.now()
	r.record(ctx, logger, summary, runErr)
	if runErr != nil {
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.Error(runErr),
			logging.String(logging.FieldImpact, "catalog left unchanged"),
		)
		return nil, runErr
	}

	res := summary.Result
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("added", len(res.Added)),
		logging.Int("removed", len(res.Removed)),
		logging.Int("unchanged", res.Unchanged),
		logging.Int("unresolved", len(res.Unresolved)),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (r *Runner) policy(opts Options) string {
	if p := strings.ToLower(strings.TrimSpace(opts.Policy)); p != "" {
		return p
	}
	return r.cfg.Reconcile.Policy
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, summary *Summary) error {
	previous, err := catalog.Load(r.cfg.Paths.CatalogPath, logger)
	if err != nil {
		return err
	}
	logger.Debug("previous catalog loaded", logging.Int("records", previous.Len()))

	var (
		snapshot *ratings.Snapshot
		matcher  *ratings.Matcher
	)
	if r.cfg.Ratings.Enabled && r.source != nil {
		matcher, err = ratings.NewMatcher(r.cfg.Ratings.Threshold, r.cfg.Ratings.Algorithm)
		if err != nil {
			return err
		}
		snapshot, err = r.source.Fetch(ctx)
		if err != nil {
			return err
		}
		summary.RatingEntries = snapshot.Len()
		logger.Info("rating snapshot fetched", logging.Int("entries", snapshot.Len()))
	}

	entries, err := scan.Library(ctx, r.cfg.Paths.LibraryDir, scan.Options{
		Extensions: r.cfg.Scan.Extensions,
		MaxDepth:   r.cfg.Scan.MaxDepth,
	})
	if err != nil {
		return err
	}
	summary.Scanned = len(entries)
	logger.Info("library scanned", logging.Int("files", len(entries)))

	rec, err := reconcile.New(reconcile.Options{
		Policy:   summary.Policy,
		Parser:   naming.NewConventionParser(r.cfg.NamePrefixLength()),
		Prober:   r.prober,
		Encoders: r.cfg.Naming.Encoders,
		Matcher:  matcher,
		Root:     r.cfg.Paths.LibraryDir,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	result, err := rec.Reconcile(ctx, previous, entries, snapshot)
	if err != nil {
		return err
	}
	summary.Result = result

	if summary.DryRun {
		logger.Info("dry run: catalog not written", logging.Path(r.cfg.Paths.CatalogPath))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return catalog.Save(r.cfg.Paths.CatalogPath, result.Catalog, catalog.SaveOptions{Backup: true})
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, summary *Summary, runErr error) {
	if r.history == nil {
		return
	}
	res := summary.Result
	run := history.Run{
		RunID:       summary.RunID,
		StartedAt:   summary.StartedAt,
		FinishedAt:  summary.FinishedAt,
		Status:      history.StatusSuccess,
		DryRun:      summary.DryRun,
		Policy:      summary.Policy,
		Total:       res.Catalog.Len(),
		Added:       len(res.Added),
		Removed:     len(res.Removed),
		Unchanged:   res.Unchanged,
		Unresolved:  len(res.Unresolved),
		CatalogPath: summary.CatalogPath,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorMessage = runErr.Error()
	}
	for _, c := range res.Added {
		run.Changes = append(run.Changes, history.Change{Kind: history.ChangeAdded, Title: c.Title, Hash: c.Hash, Path: c.Path})
	}
	for _, c := range res.Removed {
		run.Changes = append(run.Changes, history.Change{Kind: history.ChangeRemoved, Title: c.Title, Hash: c.Hash})
	}
	for _, u := range res.Unresolved {
		run.Changes = append(run.Changes, history.Change{Kind: history.ChangeUnresolved, Title: strings.Join(u.Reasons, "; "), Hash: u.Hash, Path: u.Path})
	}

	// A cancelled run still gets its history row.
	recordCtx := context.WithoutCancel(ctx)
	if _, err := r.history.Record(recordCtx, run); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not listed in history"),
		)
	}
}
