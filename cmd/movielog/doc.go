// Command movielog maintains a CSV catalog of a movie library.
//
// "movielog run" scans the library, reuses catalog records for files whose
// fingerprint is unchanged, classifies new files with ffprobe, attaches
// ratings scraped from a paginated film list, and atomically replaces the
// catalog. "show", "history", "rename", "check", and "config" inspect and
// maintain the results.
package main
