// Package ratings holds the title to rating snapshot fetched from the rating
// source and the fuzzy matcher that assigns a rating to an extracted title.
//
// A Snapshot is built once per run, before any file is classified, and is
// read-only afterwards. Matching never fails: a title without a candidate at
// or above the threshold simply has no rating.
package ratings
