// Package scan enumerates the movie files under the library root.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"movielog/internal/movieerr"
)

// Entry is one candidate movie file.
type Entry struct {
	Path string
	Info fs.FileInfo
}

// Options bounds the walk.
type Options struct {
	// Extensions are lowercase with a leading dot, e.g. ".mkv".
	Extensions []string
	// MaxDepth counts directory levels below root; files directly in root are
	// at depth 1.
	MaxDepth int
}

// Library walks root in lexical order and returns every regular file whose
// extension is listed, no deeper than opts.MaxDepth.
func Library(ctx context.Context, root string, opts Options) ([]Entry, error) {
	root = filepath.Clean(root)
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		depth := depthOf(root, path)
		if d.IsDir() {
			if path != root && opts.MaxDepth > 0 && depth >= opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			return nil
		}
		if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return movieerr.Wrap(movieerr.ErrMetadataUnavailable, "scan", "stat", path, err)
		}
		entries = append(entries, Entry{Path: path, Info: info})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, movieerr.ErrMetadataUnavailable) {
			return nil, err
		}
		return nil, movieerr.Wrap(movieerr.ErrMetadataUnavailable, "scan", "walk", root, err)
	}
	return entries, nil
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
