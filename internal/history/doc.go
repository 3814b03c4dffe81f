// Package history persists a summary of every movielog run in SQLite.
//
// The database lives at <state_dir>/history.db. Each run row carries the
// counts printed at the end of a run, and run_changes lists the titles that
// were added, removed, or left unresolved so past runs can be audited after
// the catalog has moved on.
//
// The schema is versioned through schema_version; a database written by a
// different version is rejected with ErrSchemaMismatch instead of migrated.
package history
