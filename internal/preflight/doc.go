// Package preflight provides readiness checks for the filesystem paths,
// binaries, and rating source that movielog depends on.
//
// The CLI "movielog check" command runs RunAll and prints each result; the
// run command calls RunLocal first so a misconfigured host fails fast instead
// of part-way through probing the library.
//
// Each check is gated by its config toggle; a disabled rating source is
// skipped.
package preflight
