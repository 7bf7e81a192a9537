// Package song defines the core domain model for the production pipeline:
// the canonical stage order, per-stage status records, checklist items, and
// the task records backing structured checklist work.
//
// The stage order is load-bearing: carryover detection, cascade transitions,
// and "earlier stage" semantics all derive from StageIndex. Changing the
// sequence changes the meaning of every persisted stage value, so treat the
// list in stage.go as append-only.
//
// Treat this package as the single source of truth for pipeline vocabulary;
// when you add stages or item fields, update the store schema alongside.
package song
