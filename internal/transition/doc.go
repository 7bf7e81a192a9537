// Package transition owns the stage state machine: the single legal action
// for each stage state, the stage-specific terminal actions unlocked at full
// checklist completion, and the finish cascade that starts the following
// stage.
//
// The cascade is deliberately two sequential store mutations, not a
// transaction. When the second leg fails the completed stage stays completed
// and the next stage stays not_started; callers surface ErrCascadePartial and
// leave recovery to a manual start. Rolling back a finished stage would hide
// real progress.
package transition
