package transition

import (
	"errors"
	"fmt"

	"labeldesk/internal/song"
)

// ErrChecklistIncomplete rejects a finish whose stage checklist is below
// 100%. The UI never renders the control in that state; the controller
// enforces the invariant anyway so the store cannot be driven past an
// unfinished checklist.
var ErrChecklistIncomplete = errors.New("stage checklist is not complete")

// ErrStageCompleted rejects actions on a stage whose status is terminal.
var ErrStageCompleted = errors.New("stage is already completed")

// ErrInvalidTransition rejects an action that is not the legal one for the
// stage's current state.
var ErrInvalidTransition = errors.New("transition not allowed from current state")

// CascadeError reports a finish whose first leg succeeded and whose cascade
// leg failed. The completed stage is not rolled back; the next stage must be
// started manually.
type CascadeError struct {
	Completed song.Stage
	Next      song.Stage
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("stage %s completed but starting %s failed: %v", e.Completed, e.Next, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }
