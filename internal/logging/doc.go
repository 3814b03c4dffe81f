// Package logging assembles structured slog loggers and formatting helpers used
// across movielog.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes field helpers so reconcile and rating code tag log
// lines with the same keys (run IDs, file paths, event types). The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the tool.
package logging
