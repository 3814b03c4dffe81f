// Package reconcile diffs the previous catalog against the current library
// scan and builds the replacement catalog.
//
// Every scanned file is fingerprinted first. A fingerprint already in the
// previous catalog copies the stored record unchanged; anything else is
// parsed, probed, classified, and rated into a new record. Previous
// fingerprints absent from the scan are reported as removed. The previous
// catalog is never mutated.
//
// Classification and naming failures follow the configured policy: "abort"
// fails the run, "mark" stores UNRECOGNIZED sentinels and lists the entry as
// unresolved. Fingerprint and probe failures are always fatal.
package reconcile
