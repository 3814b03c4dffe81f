package ratings

import (
	"context"

	"movielog/internal/textutil"
)

// Entry is one title and rating pair from the rating source.
type Entry struct {
	Title  string
	Rating string
}

// Source fetches the full rating snapshot.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Snapshot is an ordered, immutable set of rating entries keyed by title.
//
// Titles are stored as RatingKey renders them. When the source lists the same
// title twice, the later rating replaces the earlier one while the entry keeps
// its first position; Duplicates counts these collisions.
type Snapshot struct {
	entries    []Entry
	normalized []string
	index      map[string]int
	duplicates []string
}

// NewSnapshot builds a snapshot from entries in source order.
func NewSnapshot(entries []Entry) *Snapshot {
	s := &Snapshot{
		entries:    make([]Entry, 0, len(entries)),
		normalized: make([]string, 0, len(entries)),
		index:      make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		s.add(entry)
	}
	return s
}

func (s *Snapshot) add(entry Entry) {
	entry.Title = textutil.RatingKey(entry.Title)
	if entry.Title == "" {
		return
	}
	if pos, ok := s.index[entry.Title]; ok {
		s.entries[pos].Rating = entry.Rating
		s.duplicates = append(s.duplicates, entry.Title)
		return
	}
	s.index[entry.Title] = len(s.entries)
	s.entries = append(s.entries, entry)
	s.normalized = append(s.normalized, textutil.NormalizeTitle(entry.Title))
}

// Len returns the number of distinct titles.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the entries in source order.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return append([]Entry(nil), s.entries...)
}

// Lookup returns the entry stored under the exact title key of title.
func (s *Snapshot) Lookup(title string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	pos, ok := s.index[textutil.RatingKey(title)]
	if !ok {
		return Entry{}, false
	}
	return s.entries[pos], true
}

// Duplicates returns the titles that appeared more than once, once per extra
// occurrence.
func (s *Snapshot) Duplicates() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.duplicates...)
}
