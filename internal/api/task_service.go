package api

import (
	"context"
	"log/slog"

	"labeldesk/internal/logging"
	"labeldesk/internal/notifications"
	"labeldesk/internal/song"
)

// TaskStore abstracts task persistence for the service.
type TaskStore interface {
	GetSong(ctx context.Context, id int64) (*song.Song, error)
	GetItem(ctx context.Context, songID, itemID int64) (*song.ChecklistItem, error)
	ListTasks(ctx context.Context, songID, itemID int64) ([]*song.Task, error)
	SubmitTask(ctx context.Context, taskID, payloadJSON, byName string) (*song.Task, error)
	ApproveTask(ctx context.Context, taskID, byName string) (*song.Task, error)
}

// TaskResolver hands out the open task instance for an item.
type TaskResolver interface {
	GetOrCreate(ctx context.Context, songID, itemID int64) (*song.Task, bool, error)
}

// TaskService exposes the task-modal lifecycle.
type TaskService struct {
	store    TaskStore
	resolver TaskResolver
	notifier notifications.Service
	logger   *slog.Logger
}

// NewTaskService constructs a TaskService.
func NewTaskService(taskStore TaskStore, resolver TaskResolver, notifier notifications.Service, logger *slog.Logger) *TaskService {
	if taskStore == nil || resolver == nil {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TaskService{store: taskStore, resolver: resolver, notifier: notifier, logger: logger}
}

// Open returns the open task for an item, creating one when none exists.
func (s *TaskService) Open(ctx context.Context, songID, itemID int64) (*Task, error) {
	if s == nil {
		return nil, nil
	}
	task, _, err := s.resolver.GetOrCreate(ctx, songID, itemID)
	if err != nil {
		return nil, translateErr("", "open task", err)
	}
	dto := FromTask(task)
	return &dto, nil
}

// List returns every task instance for an item in creation order.
func (s *TaskService) List(ctx context.Context, songID, itemID int64) ([]Task, error) {
	if s == nil {
		return nil, nil
	}
	records, err := s.store.ListTasks(ctx, songID, itemID)
	if err != nil {
		return nil, translateErr("", "list tasks", err)
	}
	out := make([]Task, 0, len(records))
	for _, record := range records {
		out = append(out, FromTask(record))
	}
	return out, nil
}

// Submit records the task's payload and closes it. Review-gated items leave
// the instance awaiting approval; others credit the item immediately.
func (s *TaskService) Submit(ctx context.Context, taskID, payloadJSON, actor string) (*Task, error) {
	if s == nil {
		return nil, nil
	}
	task, err := s.store.SubmitTask(ctx, taskID, payloadJSON, actor)
	if err != nil {
		return nil, translateErr("", "submit task", err)
	}
	if task.State == song.TaskSubmitted {
		s.notifyTask(ctx, task, func(title, description string) {
			_ = s.notifier.NotifyTaskSubmitted(ctx, title, description)
		})
	}
	dto := FromTask(task)
	return &dto, nil
}

// Approve accepts a submitted task and credits the item.
func (s *TaskService) Approve(ctx context.Context, taskID, actor string) (*Task, error) {
	if s == nil {
		return nil, nil
	}
	task, err := s.store.ApproveTask(ctx, taskID, actor)
	if err != nil {
		return nil, translateErr("", "approve task", err)
	}
	s.notifyTask(ctx, task, func(title, description string) {
		_ = s.notifier.NotifyTaskApproved(ctx, title, description)
	})
	dto := FromTask(task)
	return &dto, nil
}

func (s *TaskService) notifyTask(ctx context.Context, task *song.Task, send func(title, description string)) {
	if s.notifier == nil || task == nil {
		return
	}
	record, err := s.store.GetSong(ctx, task.SongID)
	if err != nil {
		s.logger.Warn("task notification skipped", logging.Error(err))
		return
	}
	item, err := s.store.GetItem(ctx, task.SongID, task.ChecklistItemID)
	if err != nil {
		s.logger.Warn("task notification skipped", logging.Error(err))
		return
	}
	send(record.Title, item.Description)
}
