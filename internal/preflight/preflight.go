package preflight

import (
	"context"

	"standup/internal/config"
)

// minFreeBytes is the free space below which the data directory check fails.
const minFreeBytes = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Provider checks only run when a key is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckFreeSpace("Data directory space", cfg.Paths.DataDir, minFreeBytes),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	llmCfg := cfg.GetLLM()
	if llmCfg.Configured() {
		results = append(results, CheckLLM(ctx, "Note LLM", llmCfg))
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
