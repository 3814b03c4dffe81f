// Package fingerprint derives the identity of a media file from its size and
// modification time.
//
// The identity never reads file content: two files with equal size and equal
// nanosecond mtime share a fingerprint. Reconciliation relies on this to skip
// reclassifying files that did not change between runs.
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io/fs"
	"math"
	"math/bits"
	"os"
	"strconv"
	"time"

	"movielog/internal/movieerr"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Identity is the fingerprint of one file.
type Identity struct {
	// Size is the human-readable size, see HumanSize.
	Size float32
	// Hash is the 8-character lowercase hex CRC-32C of the 128-bit
	// little-endian sum of mtime nanoseconds and byte size.
	Hash string
}

// Compute derives the identity for a file of sizeBytes last modified at modTime.
func Compute(sizeBytes int64, modTime time.Time) (Identity, error) {
	if sizeBytes < 0 {
		return Identity{}, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "fingerprint", "compute", fmt.Sprintf("negative size %d", sizeBytes), nil)
	}
	if modTime.IsZero() || modTime.Before(time.Unix(0, 0)) {
		return Identity{}, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "fingerprint", "compute", "modification time before unix epoch", nil)
	}
	nanos := modTime.UnixNano()
	if nanos < 0 {
		// UnixNano overflows outside roughly 1678..2262.
		return Identity{}, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "fingerprint", "compute", "modification time out of range", nil)
	}
	return Identity{
		Size: HumanSize(sizeBytes),
		Hash: Hash(uint64(nanos), uint64(sizeBytes)),
	}, nil
}

// Hash returns the CRC-32C of the 16-byte little-endian encoding of
// mtimeNanos + sizeBytes computed as a 128-bit integer.
func Hash(mtimeNanos, sizeBytes uint64) string {
	lo, carry := bits.Add64(mtimeNanos, sizeBytes, 0)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], lo)
	binary.LittleEndian.PutUint64(buf[8:], carry)
	return fmt.Sprintf("%08x", crc32.Checksum(buf[:], castagnoli))
}

// HumanSize divides bytes by 1024 while the value is at least 1024, stopping
// after three divisions (gigabytes), and rounds to two decimals.
func HumanSize(sizeBytes int64) float32 {
	value := float64(sizeBytes)
	for i := 0; i < 3 && value >= 1024; i++ {
		value /= 1024
	}
	rounded := math.Round(value*100) / 100
	parsed, err := strconv.ParseFloat(strconv.FormatFloat(rounded, 'f', 2, 64), 32)
	if err != nil {
		return float32(rounded)
	}
	return float32(parsed)
}

// FromFileInfo computes the identity from stat results.
func FromFileInfo(info fs.FileInfo) (Identity, error) {
	if info == nil {
		return Identity{}, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "fingerprint", "stat", "no file info", nil)
	}
	id, err := Compute(info.Size(), info.ModTime())
	if err != nil {
		return Identity{}, fmt.Errorf("%s: %w", info.Name(), err)
	}
	return id, nil
}

// FromPath stats path and computes its identity.
func FromPath(path string) (Identity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Identity{}, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "fingerprint", "stat", path, err)
	}
	return FromFileInfo(info)
}
