package api

import (
	"errors"

	"labeldesk/internal/services"
	"labeldesk/internal/store"
	"labeldesk/internal/tasks"
	"labeldesk/internal/transition"
)

// translateErr tags store and transition failures with the shared service
// markers so transports can derive status codes without importing storage
// internals.
func translateErr(stage, operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return services.Wrap(services.ErrNotFound, stage, operation, "", err)
	case errors.Is(err, store.ErrAutoValidated),
		errors.Is(err, store.ErrTaskBacked),
		errors.Is(err, tasks.ErrNotTaskBacked),
		errors.Is(err, tasks.ErrAllInstancesDone),
		errors.Is(err, transition.ErrChecklistIncomplete):
		return services.Wrap(services.ErrValidation, stage, operation, "", err)
	case errors.Is(err, store.ErrTaskClosed),
		errors.Is(err, transition.ErrStageCompleted),
		errors.Is(err, transition.ErrInvalidTransition):
		return services.Wrap(services.ErrConflict, stage, operation, "", err)
	default:
		return services.Wrap(services.ErrTransient, stage, operation, "", err)
	}
}
