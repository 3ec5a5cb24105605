package preflight

import (
	"foldersort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for organizing target with cfg.
func RunAll(cfg *config.Config, target string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Target directory", target),
		CheckCreatableDirectory("State directory", cfg.Paths.StateDir),
		CheckCreatableDirectory("Log directory", cfg.Paths.LogDir),
		CheckRules(cfg),
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
