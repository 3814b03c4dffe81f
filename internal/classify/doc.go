// Package classify maps a decoded track list onto the fixed movie attributes
// stored in the catalog: resolution tier, video codec and bit depth, audio
// codec, channel layout, and subtitle format.
//
// Lookups use closed tables. A value outside a table is never silently
// defaulted: Classify returns a Label with Recognized=false and records an
// Issue tagged with a movieerr marker, leaving the abort-or-mark decision to
// the caller. The audio codec is the one exception and falls back to the
// "XXX" sentinel without an issue.
package classify
