package preflight

import (
	"context"

	"emocorpus/internal/config"
	"emocorpus/internal/dataset"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Pool directory", cfg.Paths.PoolDir),
		CheckDirectoryAccess("Features directory", cfg.Paths.FeaturesDir),
		CheckDirectoryAccess("Tables directory", cfg.Paths.TablesDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	for _, kind := range dataset.Kinds() {
		if root := cfg.DatasetRoot(kind); root != "" {
			results = append(results, CheckDatasetRoot(kind, root))
		}
	}

	results = append(results, CheckExtractor(ctx, cfg), CheckJournal(cfg))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
