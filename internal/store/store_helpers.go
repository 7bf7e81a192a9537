package store

import (
	"database/sql"
	"errors"
	"time"

	"labeldesk/internal/song"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

type rowScanner interface{ Scan(dest ...any) error }

const songColumns = "id, title, artist, current_stage, checklist_progress, created_at, updated_at"

func scanSong(scanner rowScanner) (*song.Song, error) {
	var (
		id         int64
		title      string
		artist     sql.NullString
		stage      string
		progress   sql.NullInt64
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &title, &artist, &stage, &progress, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	record := &song.Song{
		ID:                id,
		Title:             title,
		Artist:            artist.String,
		CurrentStage:      song.Stage(stage),
		ChecklistProgress: int(progress.Int64),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

const statusColumns = "id, song_id, stage, state, started_at, completed_at, updated_at"

func scanStageStatus(scanner rowScanner) (*song.StageStatus, error) {
	var (
		id           int64
		songID       int64
		stage        string
		state        string
		startedRaw   sql.NullString
		completedRaw sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(&id, &songID, &stage, &state, &startedRaw, &completedRaw, &updatedRaw); err != nil {
		return nil, err
	}
	status := &song.StageStatus{
		ID:     id,
		SongID: songID,
		Stage:  song.Stage(stage),
		State:  song.StageState(state),
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			status.StartedAt = &started
		}
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			status.CompletedAt = &completed
		}
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		status.UpdatedAt = updated
	}
	return status, nil
}

const itemColumns = "id, song_id, stage, category, sort_order, description, help_text, validation_type, is_complete, completed_at, completed_by_name, assigned_to_name, asset_url, recording_id, recording_title, has_task_inputs, requires_review, quantity, completed_count, pending_review_count, created_at, updated_at"

func scanItem(scanner rowScanner) (*song.ChecklistItem, error) {
	var (
		id             int64
		songID         int64
		stage          string
		category       sql.NullString
		sortOrder      sql.NullInt64
		description    string
		helpText       sql.NullString
		validationType string
		isComplete     sql.NullInt64
		completedRaw   sql.NullString
		completedBy    sql.NullString
		assignedTo     sql.NullString
		assetURL       sql.NullString
		recordingID    sql.NullInt64
		recordingTitle sql.NullString
		hasTaskInputs  sql.NullInt64
		requiresReview sql.NullInt64
		quantity       sql.NullInt64
		completedCount sql.NullInt64
		pendingReview  sql.NullInt64
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&songID,
		&stage,
		&category,
		&sortOrder,
		&description,
		&helpText,
		&validationType,
		&isComplete,
		&completedRaw,
		&completedBy,
		&assignedTo,
		&assetURL,
		&recordingID,
		&recordingTitle,
		&hasTaskInputs,
		&requiresReview,
		&quantity,
		&completedCount,
		&pendingReview,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &song.ChecklistItem{
		ID:              id,
		SongID:          songID,
		Stage:           song.Stage(stage),
		Category:        category.String,
		SortOrder:       int(sortOrder.Int64),
		Description:     description,
		HelpText:        helpText.String,
		ValidationType:  song.ValidationType(validationType),
		IsComplete:      isComplete.Int64 != 0,
		CompletedByName: completedBy.String,
		AssignedToName:  assignedTo.String,
		AssetURL:        assetURL.String,
		RecordingTitle:  recordingTitle.String,
	}
	if recordingID.Valid {
		value := recordingID.Int64
		item.RecordingID = &value
	}
	// Detail columns are written together; quantity alone marks presence.
	if quantity.Valid {
		item.Detail = &song.TemplateItemDetail{
			HasTaskInputs:      hasTaskInputs.Int64 != 0,
			RequiresReview:     requiresReview.Int64 != 0,
			Quantity:           int(quantity.Int64),
			CompletedCount:     int(completedCount.Int64),
			PendingReviewCount: int(pendingReview.Int64),
		}
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			item.CompletedAt = &completed
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

const taskColumns = "id, song_id, checklist_item_id, state, payload_json, created_at, submitted_at, completed_at"

func scanTask(scanner rowScanner) (*song.Task, error) {
	var (
		id           string
		songID       int64
		itemID       int64
		state        string
		payload      sql.NullString
		createdRaw   sql.NullString
		submittedRaw sql.NullString
		completedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &songID, &itemID, &state, &payload, &createdRaw, &submittedRaw, &completedRaw); err != nil {
		return nil, err
	}
	task := &song.Task{
		ID:              id,
		SongID:          songID,
		ChecklistItemID: itemID,
		State:           song.TaskState(state),
		PayloadJSON:     payload.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		task.CreatedAt = created
	}
	if submittedRaw.Valid {
		if submitted, err := parseTimeString(submittedRaw.String); err == nil {
			task.SubmittedAt = &submitted
		}
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			task.CompletedAt = &completed
		}
	}
	return task, nil
}
