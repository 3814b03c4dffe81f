package letterboxd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"movielog/internal/logging"
	"movielog/internal/movieerr"
)

func poster(title, rating string) string {
	return fmt.Sprintf(`<li class="poster-container"><div class="film-poster"><img alt=%q src="x.jpg"></div><p class="poster-viewingdata"><span class="rating">%s</span></p></li>`, title, rating)
}

func page(pagination string, posters ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul class=\"poster-list\">")
	for _, p := range posters {
		b.WriteString(p)
	}
	b.WriteString("</ul>")
	if pagination != "" {
		b.WriteString(`<div class="pagination">` + pagination + `</div>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func newServer(t *testing.T, pages map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchWalksAllPages(t *testing.T) {
	pagination := `<a href="/u/films/page/1/">1</a> <a href="/u/films/page/2/">2</a>`
	srv, hits := newServer(t, map[string]string{
		"/u/films/":       page(pagination, poster("Alien", "★★★★½")),
		"/u/films/page/1": page(pagination, poster("Alien", "★★★★½"), poster("Mad Max: Fury Road", "★★★★★")),
		"/u/films/page/2": page(pagination, poster("Heat", "★★★★")),
	})

	src := New(srv.URL+"/u/films", srv.Client(), logging.NewNop())
	snapshot, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if snapshot.Len() != 3 {
		t.Fatalf("expected 3 titles, got %d: %+v", snapshot.Len(), snapshot.Entries())
	}
	if entry, ok := snapshot.Lookup("Mad Max - Fury Road"); !ok || entry.Rating != "★★★★★" {
		t.Fatalf("expected colon-rendered key, got %+v (ok=%v)", entry, ok)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected base plus two page requests, got %d", got)
	}
}

func TestFetchWithoutPaginationUsesBasePage(t *testing.T) {
	srv, hits := newServer(t, map[string]string{
		"/list/": page("", poster("Zodiac", "★★★★"), poster("Se7en", "★★★★★")),
	})

	snapshot, err := New(srv.URL+"/list/", srv.Client(), nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	entries := snapshot.Entries()
	if len(entries) != 2 || entries[0].Title != "Zodiac" || entries[1].Rating != "★★★★★" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single request, got %d", hits.Load())
	}
}

func TestFetchFailsOnBadPagination(t *testing.T) {
	srv, _ := newServer(t, map[string]string{
		"/list/": page("Newer Older", poster("Zodiac", "★★★★")),
	})

	_, err := New(srv.URL+"/list/", srv.Client(), nil).Fetch(context.Background())
	if !errors.Is(err, movieerr.ErrRatingSource) {
		t.Fatalf("expected ErrRatingSource, got %v", err)
	}
	if movieerr.Kind(err) != movieerr.KindNetwork {
		t.Fatalf("expected network kind, got %q", movieerr.Kind(err))
	}
}

func TestFetchFailsOnMissingPage(t *testing.T) {
	pagination := "1 2"
	srv, _ := newServer(t, map[string]string{
		"/list/":       page(pagination, poster("Zodiac", "★★★★")),
		"/list/page/1": page(pagination, poster("Zodiac", "★★★★")),
	})

	_, err := New(srv.URL+"/list/", srv.Client(), nil).Fetch(context.Background())
	if !errors.Is(err, movieerr.ErrRatingSource) {
		t.Fatalf("expected ErrRatingSource for 404 page, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestFetchRequiresURL(t *testing.T) {
	_, err := New("", nil, nil).Fetch(context.Background())
	if !errors.Is(err, movieerr.ErrRatingSource) {
		t.Fatalf("expected ErrRatingSource, got %v", err)
	}
}

func TestParseEntriesRejectsPosterWithoutTitle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page("", `<li class="poster-container"><span>★★</span></li>`)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if _, err := ParseEntries(doc); err == nil {
		t.Fatal("expected error for poster without alt title")
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    int
		wantErr bool
	}{
		{"absent", page(""), 1, false},
		{"single", page("1"), 1, false},
		{"ellipsis", page("1 2 3 … 57"), 57, false},
		{"trailing whitespace", page("\n 1 \n 12 \n"), 12, false},
		{"words", page("Older"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parse html: %v", err)
			}
			got, err := PageCount(doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PageCount error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("PageCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRetryTransportRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent header")
		}
		_, _ = w.Write([]byte(page("", poster("Heat", "★★★★"))))
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: &retryTransport{base: srv.Client().Transport, retryMax: 2, backoff: time.Millisecond},
		Timeout:   5 * time.Second,
	}
	snapshot, err := New(srv.URL+"/", client, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if snapshot.Len() != 1 || calls.Load() != 3 {
		t.Fatalf("expected success on third attempt, got %d titles after %d calls", snapshot.Len(), calls.Load())
	}
}

func TestRetryTransportGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &retryTransport{base: srv.Client().Transport, retryMax: 1, backoff: time.Millisecond}}
	_, err := New(srv.URL+"/", client, nil).Fetch(context.Background())
	if !errors.Is(err, movieerr.ErrRatingSource) {
		t.Fatalf("expected ErrRatingSource, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two attempts, got %d", calls.Load())
	}
}
