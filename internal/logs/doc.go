// Package logs provides file tailing and offset helpers shared by the CLI and
// daemon diagnostics.
//
// It streams log files with bounded memory usage, supports negative offsets
// for "tail last N lines" reads, and powers follow-mode updates for
// `labeldesk logs --follow`. Callers supply context deadlines so background
// polling shuts down cleanly when the CLI exits. TailClient offers the same
// semantics over the daemon HTTP API for remote callers.
package logs
