// Package letterboxd scrapes a paginated Letterboxd film list into a rating
// snapshot.
//
// The first request reads the pagination marker from the list's base URL; the
// last whitespace-separated token of the ".pagination" block is the page
// count. Each page is then fetched in order from "<base>page/<n>" and every
// ".poster-container" contributes the title from its first "alt" attribute
// and the rating from its trimmed text. A list without pagination is a single
// page.
package letterboxd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"movielog/internal/logging"
	"movielog/internal/movieerr"
	"movielog/internal/ratings"
)

const maxBodyBytes = 8 << 20

// Source fetches ratings from one Letterboxd list.
type Source struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New returns a source for baseURL. A trailing slash is added when missing.
func New(baseURL string, client *http.Client, logger *slog.Logger) *Source {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if client == nil {
		client = NewHTTPClient(0, 0)
	}
	return &Source{
		baseURL: baseURL,
		client:  client,
		logger:  logging.NewComponentLogger(logger, "ratings"),
	}
}

// Fetch implements ratings.Source. Any network or markup failure is fatal.
func (s *Source) Fetch(ctx context.Context) (*ratings.Snapshot, error) {
	if s.baseURL == "" {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "fetch", "no source url configured", nil)
	}
	first, err := s.fetchDocument(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}
	pages, err := PageCount(first)
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "pagination", s.baseURL, err)
	}
	s.logger.Debug("rating list paginated", logging.Int("pages", pages))

	var entries []ratings.Entry
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc := first
		pageURL := s.baseURL
		if pages > 1 {
			pageURL = s.baseURL + "page/" + strconv.Itoa(page)
			if doc, err = s.fetchDocument(ctx, pageURL); err != nil {
				return nil, err
			}
		}
		pageEntries, err := ParseEntries(doc)
		if err != nil {
			return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "parse", pageURL, err)
		}
		s.logger.Debug("rating page parsed",
			logging.Int("page", page),
			logging.Int("entries", len(pageEntries)),
		)
		entries = append(entries, pageEntries...)
	}

	snapshot := ratings.NewSnapshot(entries)
	if dups := snapshot.Duplicates(); len(dups) > 0 {
		logging.WarnWithContext(s.logger, "rating list repeats titles", "rating_duplicate_titles",
			logging.Int("count", len(dups)),
			logging.String("first", dups[0]),
			logging.String(logging.FieldImpact, "the later rating is used for repeated titles"),
			logging.String(logging.FieldErrorHint, "check the list for remakes sharing a title"),
		)
	}
	s.logger.Info("ratings fetched",
		logging.Int("pages", pages),
		logging.Int("titles", snapshot.Len()),
	)
	return snapshot, nil
}

func (s *Source) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "request", pageURL, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "request", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "read", pageURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "request", fmt.Sprintf("%s: status %d", pageURL, resp.StatusCode), nil)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrRatingSource, "ratings", "parse", pageURL, err)
	}
	return doc, nil
}

// PageCount reads the number of pages from the first ".pagination" block.
// A document without pagination has one page.
func PageCount(doc *goquery.Document) (int, error) {
	block := doc.Find(".pagination").First()
	if block.Length() == 0 {
		return 1, nil
	}
	fields := strings.Fields(block.Text())
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty pagination block")
	}
	last := fields[len(fields)-1]
	count, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("pagination marker %q is not a page count", last)
	}
	if count < 1 {
		return 0, fmt.Errorf("pagination marker %d is not a page count", count)
	}
	return count, nil
}

// ParseEntries extracts the title and rating of every ".poster-container" in
// document order.
func ParseEntries(doc *goquery.Document) ([]ratings.Entry, error) {
	var (
		entries  []ratings.Entry
		parseErr error
	)
	doc.Find(".poster-container").EachWithBreak(func(i int, poster *goquery.Selection) bool {
		title, ok := poster.Find("[alt]").First().Attr("alt")
		if !ok || strings.TrimSpace(title) == "" {
			parseErr = fmt.Errorf("poster %d has no title", i+1)
			return false
		}
		entries = append(entries, ratings.Entry{
			Title:  strings.TrimSpace(title),
			Rating: strings.TrimSpace(poster.Text()),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return entries, nil
}
