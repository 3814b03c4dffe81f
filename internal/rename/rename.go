// Package rename derives canonical folder names from catalog records and
// renames library folders to match.
//
// Folders are matched to records by the fingerprint of the movie file they
// contain, never by position, so a folder is only renamed when its content is
// the catalogued file.
package rename

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"movielog/internal/catalog"
	"movielog/internal/fileutil"
	"movielog/internal/fingerprint"
	"movielog/internal/logging"
	"movielog/internal/scan"
	"movielog/internal/textutil"
)

// FolderName renders the canonical folder name for rec:
// "Title (Year) [RESp VCODEC DEPTH ACODEC-CHANNELS ENCODER] (SIZE GB)".
func FolderName(rec catalog.Record) string {
	channels := rec.Channels
	switch channels {
	case "2.0":
		channels = "stereo"
	case "1.0":
		channels = "mono"
	}
	encoder := ""
	if rec.Encoder != nil && *rec.Encoder != "" {
		encoder = " " + *rec.Encoder
	}
	name := fmt.Sprintf("%s (%d) [%dp %s %s %s-%s%s] (%s GB)",
		rec.Title, rec.Year, rec.Resolution, rec.VideoCodec, rec.BitDepth, rec.AudioCodec, channels, encoder,
		strconv.FormatFloat(float64(rec.Size), 'f', -1, 32))
	return textutil.SanitizeFileName(name)
}

// Move is one planned folder rename.
type Move struct {
	From  string
	To    string
	Hash  string
	Title string
}

// Skip is a folder left alone, with the reason.
type Skip struct {
	Path   string
	Reason string
}

// Plan lists the renames that would bring the library in line with the
// catalog.
type Plan struct {
	Moves   []Move
	Skipped []Skip
	// InPlace counts folders already carrying their canonical name.
	InPlace int
}

// Build fingerprints every scanned file and plans a rename of its parent
// folder to the canonical name of the matching catalog record.
func Build(root string, entries []scan.Entry, cat *catalog.Catalog) (Plan, error) {
	root = filepath.Clean(root)
	index := cat.Index()
	var plan Plan
	claimed := make(map[string]string)
	folders := make(map[string]string)

	for _, entry := range entries {
		dir := filepath.Dir(entry.Path)
		if dir == root {
			plan.Skipped = append(plan.Skipped, Skip{Path: entry.Path, Reason: "file is not inside a movie folder"})
			continue
		}
		if other, ok := folders[dir]; ok {
			plan.Skipped = append(plan.Skipped, Skip{Path: entry.Path, Reason: fmt.Sprintf("folder already planned for %s", filepath.Base(other))})
			continue
		}
		folders[dir] = entry.Path

		identity, err := fingerprint.FromFileInfo(entry.Info)
		if err != nil {
			return Plan{}, err
		}
		pos, ok := index[identity.Hash]
		if !ok {
			plan.Skipped = append(plan.Skipped, Skip{Path: dir, Reason: "not in catalog; run movielog first"})
			continue
		}
		rec := cat.Records[pos]
		if reason := unrenamable(rec); reason != "" {
			plan.Skipped = append(plan.Skipped, Skip{Path: dir, Reason: reason})
			continue
		}

		target := filepath.Join(filepath.Dir(dir), FolderName(rec))
		if target == dir {
			plan.InPlace++
			continue
		}
		if owner, taken := claimed[target]; taken {
			plan.Skipped = append(plan.Skipped, Skip{Path: dir, Reason: fmt.Sprintf("target name also claimed by %s", filepath.Base(owner))})
			continue
		}
		claimed[target] = dir
		plan.Moves = append(plan.Moves, Move{From: dir, To: target, Hash: rec.Hash, Title: rec.Title})
	}
	return plan, nil
}

func unrenamable(rec catalog.Record) string {
	for _, field := range []string{rec.Title, rec.VideoCodec, rec.BitDepth, rec.AudioCodec, rec.Channels} {
		if strings.HasPrefix(field, catalog.UnrecognizedPrefix) {
			return "record has unrecognized fields"
		}
	}
	if rec.Resolution == 0 {
		return "record has no resolution"
	}
	return ""
}

// Result reports an applied plan.
type Result struct {
	Renamed []Move
	Failed  []Skip
}

// Apply performs the moves in plan order. A failed move is reported and the
// remaining moves still run; cancellation stops before the next move.
func Apply(ctx context.Context, plan Plan, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "rename")

	var res Result
	for _, move := range plan.Moves {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := fileutil.Rename(move.From, move.To); err != nil {
			reason := err.Error()
			if fileutil.IsCrossDevice(err) {
				reason = "source and target are on different filesystems"
			}
			res.Failed = append(res.Failed, Skip{Path: move.From, Reason: reason})
			logging.WarnWithContext(logger, "folder rename failed", "rename_failed",
				logging.Path(move.From),
				logging.String("target", move.To),
				logging.Error(err),
				logging.String(logging.FieldImpact, "folder keeps its old name"),
			)
			continue
		}
		res.Renamed = append(res.Renamed, move)
		logger.Info("folder renamed",
			logging.Path(move.From),
			logging.String("target", move.To),
			logging.Hash(move.Hash),
		)
	}
	return res, nil
}
