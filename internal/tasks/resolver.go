package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"labeldesk/internal/checklist"
	"labeldesk/internal/logging"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
)

// ErrNotTaskBacked rejects resolution against items that complete through a
// plain toggle or automated validation.
var ErrNotTaskBacked = errors.New("item has no backing task")

// ErrAllInstancesDone rejects new task instances once the item's quantity is
// satisfied.
var ErrAllInstancesDone = errors.New("all task instances already completed")

// TaskStore is the slice of store behavior the resolver needs.
type TaskStore interface {
	GetItem(ctx context.Context, songID, itemID int64) (*song.ChecklistItem, error)
	FindOpenTask(ctx context.Context, songID, itemID int64) (*song.Task, error)
	CreateTask(ctx context.Context, songID, itemID int64) (*song.Task, error)
}

// Resolver hands out the task instance a checklist item action should open.
// Resolution is idempotent: repeated calls reuse the existing open instance
// instead of minting duplicates.
type Resolver struct {
	store  TaskStore
	logger *slog.Logger
}

func NewResolver(taskStore TaskStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{store: taskStore, logger: logger}
}

// GetOrCreate returns the open task for the item, creating one when none
// exists. The second return value reports whether a new instance was minted.
func (r *Resolver) GetOrCreate(ctx context.Context, songID, itemID int64) (*song.Task, bool, error) {
	item, err := r.store.GetItem(ctx, songID, itemID)
	if err != nil {
		return nil, false, err
	}
	if checklist.Classify(*item) != checklist.ModeTaskModal {
		return nil, false, fmt.Errorf("item %d: %w", itemID, ErrNotTaskBacked)
	}

	existing, err := r.store.FindOpenTask(ctx, songID, itemID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if item.Detail != nil && item.Detail.CompletedCount >= item.Quantity() {
		return nil, false, fmt.Errorf("item %d: %w", itemID, ErrAllInstancesDone)
	}

	created, err := r.store.CreateTask(ctx, songID, itemID)
	if err != nil {
		return nil, false, err
	}
	r.logger.Info("opened task instance",
		logging.Int64(logging.FieldSongID, songID),
		logging.Int64(logging.FieldItemID, itemID),
		logging.String("task_id", created.ID))
	return created, true, nil
}
