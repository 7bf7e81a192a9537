// Package workflow runs the daemon's background validation loop.
//
// The Manager periodically sweeps every song: auto-validated checklist items
// with evidence attached are completed, and the cached stage progress on each
// song is refreshed so listings stay honest without recomputing on every
// read. The loop also aggregates per-stage song counts for daemon status
// reporting and pushes error notifications when a sweep fails.
package workflow
