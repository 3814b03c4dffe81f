package preflight

import (
	"context"
	"fmt"
	"net/http"

	"movielog/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes all applicable preflight checks for the given config.
// client is used for the rating source probe; nil uses http.DefaultClient.
func RunAll(ctx context.Context, cfg *config.Config, client *http.Client) []Result {
	if cfg == nil {
		return nil
	}
	results := RunLocal(ctx, cfg)
	if cfg.Ratings.Enabled {
		results = append(results, CheckRatingSource(ctx, cfg.Ratings.SourceURL, client))
	}
	return results
}

// RunLocal executes the checks that need no network: library and catalog
// access and the external binaries.
func RunLocal(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	results = append(results, CheckCatalogWritable(cfg.Paths.CatalogPath))

	for _, status := range CheckSystemDeps(ctx, cfg) {
		r := Result{Name: status.Name, Passed: status.Available || status.Optional}
		if status.Available {
			r.Detail = status.Path
			if status.Version != "" {
				r.Detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
			}
		} else {
			r.Detail = status.Detail
		}
		results = append(results, r)
	}
	return results
}
