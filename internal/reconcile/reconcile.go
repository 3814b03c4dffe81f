package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"movielog/internal/catalog"
	"movielog/internal/classify"
	"movielog/internal/config"
	"movielog/internal/fingerprint"
	"movielog/internal/logging"
	"movielog/internal/media"
	"movielog/internal/movieerr"
	"movielog/internal/naming"
	"movielog/internal/ratings"
	"movielog/internal/scan"
)

// State is the terminal state of one scanned file.
type State string

const (
	StateUnchanged State = "unchanged"
	StateAdded     State = "added"
)

// Change names a record that entered or left the catalog.
type Change struct {
	Title string
	Year  int16
	Hash  string
	// Path is empty for removed records.
	Path string
}

// Unresolved is a record stored with sentinels under the mark policy.
type Unresolved struct {
	Path    string
	Hash    string
	Reasons []string
}

// Outcome is the per-file result, in scan order.
type Outcome struct {
	Path  string
	Hash  string
	Title string
	State State
	// Score is the rating match score, 0 when no rating matched.
	Score float64
}

// Result is the output of one reconciliation.
type Result struct {
	Catalog    *catalog.Catalog
	Added      []Change
	Removed    []Change
	Unchanged  int
	Unresolved []Unresolved
	Outcomes   []Outcome
}

// Options configures a Reconciler.
type Options struct {
	// Policy is config.PolicyAbort or config.PolicyMark.
	Policy   string
	Parser   naming.NameParser
	Prober   media.Prober
	Encoders []string
	// Matcher may be nil to skip rating lookups.
	Matcher *ratings.Matcher
	// Root is stripped from paths before encoder and remux detection.
	Root   string
	Logger *slog.Logger
}

// Reconciler builds replacement catalogs.
type Reconciler struct {
	policy   string
	parser   naming.NameParser
	prober   media.Prober
	encoders []string
	matcher  *ratings.Matcher
	root     string
	logger   *slog.Logger
}

// New validates opts and returns a Reconciler.
func New(opts Options) (*Reconciler, error) {
	policy := strings.ToLower(strings.TrimSpace(opts.Policy))
	if policy == "" {
		policy = config.PolicyAbort
	}
	if policy != config.PolicyAbort && policy != config.PolicyMark {
		return nil, movieerr.Wrap(movieerr.ErrConfiguration, "reconcile", "policy", fmt.Sprintf("unknown policy %q", opts.Policy), nil)
	}
	if opts.Prober == nil {
		return nil, movieerr.Wrap(movieerr.ErrConfiguration, "reconcile", "prober", "prober is required", nil)
	}
	parser := opts.Parser
	if parser == nil {
		parser = naming.NewConventionParser(naming.DefaultPrefixLen)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		policy:   policy,
		parser:   parser,
		prober:   opts.Prober,
		encoders: append([]string(nil), opts.Encoders...),
		matcher:  opts.Matcher,
		root:     opts.Root,
		logger:   logging.NewComponentLogger(logger, "reconcile"),
	}, nil
}

// Reconcile processes entries in order against previous. Neither previous nor
// snapshot is modified. On error no partial result is returned.
func (r *Reconciler) Reconcile(ctx context.Context, previous *catalog.Catalog, entries []scan.Entry, snapshot *ratings.Snapshot) (Result, error) {
	prevIndex := previous.Index()
	seen := make(map[string]string, len(entries))
	result := Result{Catalog: catalog.New(make([]catalog.Record, 0, len(entries)))}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		identity, err := fingerprint.FromFileInfo(entry.Info)
		if err != nil {
			return Result{}, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "reconcile", "fingerprint", entry.Path, err)
		}
		if other, dup := seen[identity.Hash]; dup {
			return Result{}, movieerr.Wrap(movieerr.ErrDuplicateFingerprint, "reconcile", "fingerprint",
				fmt.Sprintf("%s and %s share fingerprint %s", other, entry.Path, identity.Hash), nil)
		}
		seen[identity.Hash] = entry.Path

		if pos, ok := prevIndex[identity.Hash]; ok {
			rec := previous.Records[pos]
			result.Catalog.Records = append(result.Catalog.Records, rec)
			result.Unchanged++
			result.Outcomes = append(result.Outcomes, Outcome{Path: entry.Path, Hash: rec.Hash, Title: rec.Title, State: StateUnchanged})
			r.logger.Debug("catalog entry unchanged",
				logging.Path(entry.Path),
				logging.Hash(rec.Hash),
			)
			continue
		}

		rec, reasons, score, err := r.build(ctx, entry.Path, identity, snapshot)
		if err != nil {
			return Result{}, err
		}
		result.Catalog.Records = append(result.Catalog.Records, rec)
		result.Added = append(result.Added, Change{Title: rec.Title, Year: rec.Year, Hash: rec.Hash, Path: entry.Path})
		result.Outcomes = append(result.Outcomes, Outcome{Path: entry.Path, Hash: rec.Hash, Title: rec.Title, State: StateAdded, Score: score})
		if len(reasons) > 0 {
			result.Unresolved = append(result.Unresolved, Unresolved{Path: entry.Path, Hash: rec.Hash, Reasons: reasons})
			logging.WarnWithContext(r.logger, "catalog entry recorded with unrecognized fields", "entry_unresolved",
				logging.Path(entry.Path),
				logging.Hash(rec.Hash),
				logging.String("reasons", strings.Join(reasons, "; ")),
				logging.String(logging.FieldImpact, "record stored with UNRECOGNIZED sentinels"),
				logging.String(logging.FieldErrorHint, "rename the folder or extend the codec tables, then rerun"),
			)
		}
		r.logger.Info("catalog entry added",
			logging.Entry(rec.Title, rec.Hash, entry.Path),
		)
	}

	result.Removed = removed(previous, seen)
	return result, nil
}

// removed lists previous records whose fingerprint was not scanned, in
// previous-catalog order, each at most once.
func removed(previous *catalog.Catalog, current map[string]string) []Change {
	if previous == nil {
		return nil
	}
	var out []Change
	reported := make(map[string]struct{})
	for _, rec := range previous.Records {
		if _, ok := current[rec.Hash]; ok {
			continue
		}
		if _, ok := reported[rec.Hash]; ok {
			continue
		}
		reported[rec.Hash] = struct{}{}
		out = append(out, Change{Title: rec.Title, Year: rec.Year, Hash: rec.Hash})
	}
	return out
}

func (r *Reconciler) build(ctx context.Context, path string, identity fingerprint.Identity, snapshot *ratings.Snapshot) (catalog.Record, []string, float64, error) {
	var reasons []string
	fail := func(err error) error {
		return fmt.Errorf("%s: %w", path, err)
	}

	rec := catalog.Record{Size: identity.Size, Hash: identity.Hash}

	title, year, err := r.parser.Parse(path)
	if err != nil {
		if r.policy == config.PolicyAbort {
			return catalog.Record{}, nil, 0, fail(err)
		}
		reasons = append(reasons, err.Error())
		title = catalog.Unrecognized(filepath.Base(path))
		year = 0
	}
	rec.Title = title
	rec.Year = year

	container, err := r.prober.Probe(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return catalog.Record{}, nil, 0, err
		}
		return catalog.Record{}, nil, 0, fail(err)
	}
	rec.Duration = media.FormatDuration(container.Duration)

	attrs := classify.Classify(container.Tracks)
	if err := attrs.Err(); err != nil && r.policy == config.PolicyAbort {
		return catalog.Record{}, nil, 0, fail(err)
	}
	for _, issue := range attrs.Issues {
		reasons = append(reasons, issue.Err.Error())
	}
	rec.Resolution = attrs.Resolution
	rec.VideoCodec = labelValue(attrs.VideoCodec)
	rec.BitDepth = labelValue(attrs.BitDepth)
	rec.AudioCodec = labelValue(attrs.AudioCodec)
	rec.Channels = labelValue(attrs.Channels)
	if attrs.Subtitles != nil {
		rec.Subtitles = catalog.StringPtr(attrs.Subtitles.Value)
	}

	name := r.relative(path)
	if tag, ok := naming.EncoderTag(name, r.encoders); ok {
		rec.Encoder = catalog.StringPtr(tag)
	}
	rec.Remux = naming.IsRemux(name)

	var score float64
	if r.matcher != nil && snapshot != nil && !strings.HasPrefix(rec.Title, catalog.UnrecognizedPrefix) {
		if match, ok := r.matcher.Match(rec.Title, snapshot); ok {
			rec.Rating = catalog.StringPtr(match.Rating)
			score = match.Score
			r.logger.Debug("rating matched",
				logging.Title(rec.Title),
				logging.String("candidate", match.Title),
				logging.Float64("score", match.Score),
			)
		}
	}
	return rec, reasons, score, nil
}

func (r *Reconciler) relative(path string) string {
	if r.root == "" {
		return path
	}
	if rel, err := filepath.Rel(r.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// labelValue returns the label text, or the UNRECOGNIZED sentinel when the
// classifier produced no value.
func labelValue(label classify.Label) string {
	if label.Value != "" {
		return label.Value
	}
	return catalog.Unrecognized(label.Raw)
}
