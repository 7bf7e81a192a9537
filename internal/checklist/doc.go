// Package checklist holds the pure derivation logic over a song's checklist
// snapshot: interaction-mode classification, category/recording grouping with
// completion percentages, and carryover detection for earlier stages.
//
// Everything here is stateless. Callers fetch a fresh item snapshot from the
// store after every mutation and re-derive views from it; nothing in this
// package mutates items or caches results between calls.
package checklist
