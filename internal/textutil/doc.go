// Package textutil provides text processing utilities for title comparison
// and filename sanitization.
//
// The primary use cases are:
//   - Folding titles into a comparison form (accents stripped, case folded,
//     punctuation collapsed) before fuzzy matching
//   - Rendering scraped titles the way release folders spell them
//   - Sanitizing filenames and path segments for safe filesystem use
package textutil
