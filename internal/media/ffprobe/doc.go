// Package ffprobe provides a typed wrapper around ffprobe JSON output and a
// media.Prober that translates it into Matroska codec identifiers.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Prober: media.Prober backed by the ffprobe binary
//
// Codec names ffprobe reports that have no Matroska equivalent in the table
// are passed through as "ffprobe:<name>" so the classifier reports them as
// unrecognized instead of guessing.
package ffprobe
