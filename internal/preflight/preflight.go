package preflight

import (
	"context"

	"grocerylens/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Options toggles checks that reach the network.
type Options struct {
	// Live issues a real nearby search to confirm the places key works.
	Live bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDatabase(ctx, cfg),
		CheckAPIKey("Vision API key", cfg.Vision.APIKey, "vision.api_key", "GCV_API_KEY"),
		CheckAPIKey("Places API key", cfg.Places.APIKey, "places.api_key", "GOOGLE_MAPS_API_KEY"),
	}
	if opts.Live && cfg.Places.APIKey != "" {
		results = append(results, CheckPlaces(ctx, cfg))
	}
	return results
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
