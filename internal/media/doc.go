// Package media defines the decoded container model consumed by the
// classifier: an ordered list of tracks with codec identifiers and
// type-specific settings, plus the container duration.
//
// Codec identifiers use Matroska naming (V_MPEGH/ISO/HEVC, A_AC3, S_TEXT/UTF8).
// Probe adapters such as media/ffprobe translate their own vocabulary into
// these identifiers so the classifier only ever sees one form.
package media
