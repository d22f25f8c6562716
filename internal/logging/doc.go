// Package logging assembles structured slog loggers and formatting helpers used
// across grocerylens.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers can tag log
// lines with item and request identifiers. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
