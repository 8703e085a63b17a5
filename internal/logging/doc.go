// Package logging assembles structured slog loggers and formatting helpers used
// across Reprise.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so playlist and catalog code can
// tag log lines with playlist, video and collection IDs plus correlation IDs.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
