package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"movielog/internal/catalog"
	"movielog/internal/logging"
)

type recordView struct {
	Title      string  `json:"title"`
	Year       int16   `json:"year"`
	Rating     *string `json:"rating"`
	Size       float32 `json:"size_gb"`
	Duration   string  `json:"duration"`
	Resolution int16   `json:"resolution,omitempty"`
	BitDepth   string  `json:"bit_depth"`
	VideoCodec string  `json:"video_codec"`
	AudioCodec string  `json:"audio_codec"`
	Subtitles  *string `json:"subtitles"`
	Channels   string  `json:"channels"`
	Encoder    *string `json:"encoder"`
	Remux      bool    `json:"remux"`
	Hash       string  `json:"hash"`
}

var sortKeys = map[string]func(a, b catalog.Record) bool{
	"title":  func(a, b catalog.Record) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) },
	"year":   func(a, b catalog.Record) bool { return a.Year < b.Year },
	"rating": func(a, b catalog.Record) bool { return catalog.Deref(a.Rating) > catalog.Deref(b.Rating) },
	"size":   func(a, b catalog.Record) bool { return a.Size > b.Size },
	"res":    func(a, b catalog.Record) bool { return a.Resolution > b.Resolution },
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var sortBy string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Paths.CatalogPath, logging.NewNop())
			if err != nil {
				return err
			}

			records := append([]catalog.Record(nil), cat.Records...)
			if key := strings.ToLower(strings.TrimSpace(sortBy)); key != "" {
				less, ok := sortKeys[key]
				if !ok {
					return fmt.Errorf("invalid --sort %q (want title, year, rating, size, or res)", sortBy)
				}
				sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			if jsonOutput {
				views := make([]recordView, 0, len(records))
				for _, rec := range records {
					views = append(views, recordView(rec))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "Catalog %s is empty; run `movielog run` first\n", cfg.Paths.CatalogPath)
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, recordRow(rec))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Year", "Rating", "Size", "Duration", "Res", "Video", "Audio", "Subs", "Encoder", "Remux", "Hash"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%d of %d records\n", len(records), cat.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by title, year, rating, size, or res (default: catalog order)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many records")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print records as JSON")
	return cmd
}

func recordRow(rec catalog.Record) []string {
	res := ""
	if rec.Resolution != 0 {
		res = strconv.Itoa(int(rec.Resolution)) + "p"
	}
	return []string{
		rec.Title,
		strconv.Itoa(int(rec.Year)),
		catalog.Deref(rec.Rating),
		strconv.FormatFloat(float64(rec.Size), 'f', 2, 32),
		rec.Duration,
		res,
		strings.TrimSpace(rec.VideoCodec + " " + rec.BitDepth),
		strings.TrimSpace(rec.AudioCodec + " " + rec.Channels),
		catalog.Deref(rec.Subtitles),
		catalog.Deref(rec.Encoder),
		yesNo(rec.Remux),
		rec.Hash,
	}
}
