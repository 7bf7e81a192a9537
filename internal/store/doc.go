// Package store persists songs, recordings, stage statuses, checklist
// items, and their backing tasks in SQLite.
//
// The Store manages database connections, schema initialization, and every
// mutation the workflow engine performs: item toggles, assignment, asset-URL
// completion, the auto-validation sweep, lazy stage-status creation, and
// task instance accounting. Derivation logic (grouping, percentages,
// carryover, transition legality) lives in the checklist and transition
// packages; this package only guards row-level invariants such as one
// stage-status row per (song, stage) and completed_count never exceeding
// quantity.
//
// Schema changes bump the version in schema.go; the database is an
// operational record, so changes must ship with a migration or an explicit
// reset instruction.
package store
