// Package movieerr defines the error markers shared by the catalog pipeline.
//
// Every failure that can stop a run is tagged with one of the exported
// sentinels so the CLI and the reconciler can decide between aborting the run
// and recording an unresolved entry. Wrap attaches stage and operation context
// while keeping the marker reachable through errors.Is.
package movieerr
