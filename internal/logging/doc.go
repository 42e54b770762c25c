// Package logging assembles structured slog loggers and formatting helpers used
// across Distill components.
//
// It owns the configurable console/JSON handlers, centralizes level plumbing,
// and exposes context-aware helpers so pipeline code can automatically tag log
// lines with content IDs, step names, and run correlation IDs. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape as the rest of the system.
package logging
