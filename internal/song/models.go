package song

import (
	"strings"
	"time"
)

// ValidationType controls whether a checklist item is user-toggleable.
type ValidationType string

const (
	// ValidationManual items are completed by users (toggle, asset URL, or
	// task submission).
	ValidationManual ValidationType = "manual"
	// ValidationAuto items are completed by the validation sweep and are
	// display-only for users.
	ValidationAuto ValidationType = "auto"
)

// ParseValidationType converts a string into a known ValidationType.
func ParseValidationType(value string) (ValidationType, bool) {
	normalized := ValidationType(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case ValidationManual, ValidationAuto:
		return normalized, true
	default:
		return "", false
	}
}

// StageStatus is the durable record of one stage's progress for one song.
// Rows are created lazily, defaulting to not_started, and are never deleted.
type StageStatus struct {
	ID          int64
	SongID      int64
	Stage       Stage
	State       StageState
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// Song owns the current pipeline position and summary progress. The
// checklist percentage is derived by the checklist aggregator, not stored
// business logic; the persisted value is a display cache refreshed after
// mutations.
type Song struct {
	ID                int64
	Title             string
	Artist            string
	CurrentStage      Stage
	ChecklistProgress int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Recording is a recorded take of a song. Checklist items scoped to a
// recording form that recording's sub-checklist within a stage.
type Recording struct {
	ID     int64
	SongID int64
	Title  string
}

// TemplateItemDetail carries the template-level metadata that changes how a
// checklist item is completed.
type TemplateItemDetail struct {
	HasTaskInputs      bool
	RequiresReview     bool
	Quantity           int
	CompletedCount     int
	PendingReviewCount int
}

// ChecklistItem is a single trackable requirement within a stage.
type ChecklistItem struct {
	ID              int64
	SongID          int64
	Stage           Stage
	Category        string
	SortOrder       int
	Description     string
	HelpText        string
	ValidationType  ValidationType
	IsComplete      bool
	CompletedAt     *time.Time
	CompletedByName string
	AssignedToName  string
	AssetURL        string
	RecordingID     *int64
	RecordingTitle  string
	Detail          *TemplateItemDetail
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasRecording reports whether the item belongs to a recording sub-checklist.
func (i ChecklistItem) HasRecording() bool {
	return i.RecordingID != nil
}

// Quantity returns the number of completed instances the item requires.
// Items without template detail require a single completion.
func (i ChecklistItem) Quantity() int {
	if i.Detail == nil || i.Detail.Quantity <= 0 {
		return 1
	}
	return i.Detail.Quantity
}

// HasTaskInputs reports whether completing the item requires structured
// task input.
func (i ChecklistItem) HasTaskInputs() bool {
	return i.Detail != nil && i.Detail.HasTaskInputs
}

// RequiresReview reports whether submitted task instances wait for review
// before counting as complete.
func (i ChecklistItem) RequiresReview() bool {
	return i.Detail != nil && i.Detail.RequiresReview
}

// TaskState labels the lifecycle of a task backing a checklist item.
type TaskState string

const (
	// TaskOpen tasks accept input; get-or-create returns the open task.
	TaskOpen TaskState = "open"
	// TaskSubmitted tasks await review on review-gated items.
	TaskSubmitted TaskState = "submitted"
	// TaskApproved tasks count toward the item's completed instances.
	TaskApproved TaskState = "approved"
)

// ParseTaskState converts a string into a known TaskState.
func ParseTaskState(value string) (TaskState, bool) {
	normalized := TaskState(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TaskOpen, TaskSubmitted, TaskApproved:
		return normalized, true
	default:
		return "", false
	}
}

// Task is the structured work record backing a task-modal checklist item.
// Quantity-based items accumulate one task per instance.
type Task struct {
	ID              string
	SongID          int64
	ChecklistItemID int64
	State           TaskState
	PayloadJSON     string
	CreatedAt       time.Time
	SubmittedAt     *time.Time
	CompletedAt     *time.Time
}

// IsClosed reports whether the task no longer accepts input.
func (t Task) IsClosed() bool {
	return t.State == TaskSubmitted || t.State == TaskApproved
}
