// Package config loads, normalizes, and validates movielog configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as MOVIELOG_RATINGS_URL.
// The Config type centralizes every knob the CLI needs so the library root,
// catalog location, and rating source are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
