// Package logging builds the slog loggers used across the daemon and CLI.
//
// It supports a human-oriented console handler and a JSON handler, tees
// output into the configured log directory, and exposes typed attribute
// helpers plus a no-op logger for tests and optional dependencies.
package logging
