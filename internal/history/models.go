package history

import "time"

// Status is the terminal state of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ChangeKind classifies a recorded change.
type ChangeKind string

const (
	ChangeAdded      ChangeKind = "added"
	ChangeRemoved    ChangeKind = "removed"
	ChangeUnresolved ChangeKind = "unresolved"
)

// Change is one title touched by a run.
type Change struct {
	Kind  ChangeKind
	Title string
	Hash  string
	Path  string
}

// Run is one recorded run.
type Run struct {
	ID           int64
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       Status
	DryRun       bool
	Policy       string
	Total        int
	Added        int
	Removed      int
	Unchanged    int
	Unresolved   int
	CatalogPath  string
	ErrorMessage string
	// Changes is populated by Record callers and by Changes, not by List.
	Changes []Change
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
