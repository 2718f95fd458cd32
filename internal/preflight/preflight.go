package preflight

import (
	"context"

	"callscribe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Pinger sends a trivial prompt to the LLM endpoint.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// RunAll executes all applicable preflight checks for the given config.
// The catalog check runs only when a catalog path is configured and the LLM
// check only when pinger is non-nil.
func RunAll(ctx context.Context, cfg *config.Config, pinger Pinger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if cfg.Catalog.Path != "" {
		results = append(results, CheckCatalog(cfg.Catalog.Path, cfg.Input.Encoding, cfg.Catalog.MainColumn, cfg.Catalog.SubColumn))
	}

	if pinger != nil {
		results = append(results, CheckLLM(ctx, "LLM endpoint", pinger))
	}

	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
