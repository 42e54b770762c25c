package preflight

import (
	"context"

	"distill/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to the given config. Directory
// and binary checks come first; the Anthropic API check runs last because
// it is the only one that leaves the machine.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.General.DataDir),
		CheckDirectoryAccess("Output directory", cfg.General.OutputDir),
		CheckDiskSpace("Free space", cfg.General.DataDir),
	}
	results = append(results, CheckBinaries(cfg.Whisper.Backend)...)
	results = append(results, CheckClaude(ctx, cfg.Claude))
	return results
}
