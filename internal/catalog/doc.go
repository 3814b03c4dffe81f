// Package catalog holds the persisted movie records and their CSV encoding.
//
// A catalog is loaded once per run and fully replaced on success. Save writes
// the complete record set to a temp file beside the destination and renames it
// into place, so an interrupted run leaves the previous file untouched.
//
// Records are keyed by fingerprint. Loading a file that repeats a fingerprint
// keeps the first record and logs a warning for each dropped row.
package catalog
