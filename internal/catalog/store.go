package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"movielog/internal/fileutil"
	"movielog/internal/logging"
	"movielog/internal/movieerr"
)

const filePerm = 0o644

// BackupSuffix is appended to the catalog path for the copy taken before a
// save replaces it.
const BackupSuffix = ".bak"

// Load reads the catalog at path. A missing file is an empty catalog.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(nil), nil
	}
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrCatalogIO, "catalog", "load", path, err)
	}
	records, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, movieerr.Wrap(movieerr.ErrCatalogIO, "catalog", "decode", path, err)
	}
	return New(dedupe(records, logger)), nil
}

func dedupe(records []Record, logger *slog.Logger) []Record {
	seen := make(map[string]struct{}, len(records))
	kept := records[:0]
	for _, rec := range records {
		if _, dup := seen[rec.Hash]; dup {
			logging.WarnWithContext(logger, "duplicate fingerprint in catalog; keeping first record", "catalog_duplicate",
				logging.Hash(rec.Hash),
				logging.Title(rec.Title),
				logging.String(logging.FieldImpact, "later record dropped"),
				logging.String(logging.FieldErrorHint, "remove the duplicate row from the catalog file"),
			)
			continue
		}
		seen[rec.Hash] = struct{}{}
		kept = append(kept, rec)
	}
	return kept
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Backup copies the existing file to path+BackupSuffix before replacing it.
	Backup bool
}

// Save atomically replaces the catalog at path with c.
func Save(path string, c *Catalog, opts SaveOptions) error {
	var records []Record
	if c != nil {
		records = c.Records
	}
	data, err := Encode(records)
	if err != nil {
		return movieerr.Wrap(movieerr.ErrCatalogIO, "catalog", "encode", path, err)
	}
	if opts.Backup {
		if err := backup(path); err != nil {
			return movieerr.Wrap(movieerr.ErrCatalogIO, "catalog", "backup", path, err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, data, filePerm); err != nil {
		return movieerr.Wrap(movieerr.ErrCatalogIO, "catalog", "save", path, err)
	}
	return nil
}

func backup(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := fileutil.CopyFileVerified(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("copy to %s: %w", path+BackupSuffix, err)
	}
	return nil
}
