package api

import (
	"time"

	"labeldesk/internal/checklist"
	"labeldesk/internal/song"
	"labeldesk/internal/transition"
)

// FromSong converts a song record to its API representation.
func FromSong(record *song.Song) Song {
	if record == nil {
		return Song{}
	}
	dto := Song{
		ID:                record.ID,
		Title:             record.Title,
		Artist:            record.Artist,
		CurrentStage:      string(record.CurrentStage),
		ChecklistProgress: record.ChecklistProgress,
	}
	if !record.CreatedAt.IsZero() {
		dto.CreatedAt = record.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !record.UpdatedAt.IsZero() {
		dto.UpdatedAt = record.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromSongs converts a slice of song records into API DTOs.
func FromSongs(records []*song.Song) []Song {
	if len(records) == 0 {
		return nil
	}
	out := make([]Song, 0, len(records))
	for _, record := range records {
		out = append(out, FromSong(record))
	}
	return out
}

// FromRecording converts a recording record.
func FromRecording(record *song.Recording) Recording {
	if record == nil {
		return Recording{}
	}
	return Recording{ID: record.ID, Title: record.Title}
}

// FromStageStatus converts a stage status and derives its offered action.
func FromStageStatus(status *song.StageStatus) StageStatus {
	if status == nil {
		return StageStatus{}
	}
	dto := StageStatus{
		Stage:  string(status.Stage),
		State:  string(status.State),
		Action: string(transition.ActionFor(status.State)),
	}
	if status.StartedAt != nil {
		dto.StartedAt = status.StartedAt.UTC().Format(dateTimeFormat)
	}
	if status.CompletedAt != nil {
		dto.CompletedAt = status.CompletedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromItem converts a checklist item and attaches its derived interaction
// mode. Task-modal items carry the completion control label.
func FromItem(item song.ChecklistItem) ChecklistItem {
	mode := checklist.Classify(item)
	dto := ChecklistItem{
		ID:             item.ID,
		Stage:          string(item.Stage),
		Category:       item.Category,
		SortOrder:      item.SortOrder,
		Description:    item.Description,
		HelpText:       item.HelpText,
		ValidationType: string(item.ValidationType),
		IsComplete:     item.IsComplete,
		CompletedBy:    item.CompletedByName,
		AssignedTo:     item.AssignedToName,
		AssetURL:       item.AssetURL,
		RecordingID:    item.RecordingID,
		Mode:           string(mode),
		Quantity:       item.Quantity(),
	}
	if mode == checklist.ModeTaskModal {
		dto.ActionLabel = checklist.ActionLabel(item)
	}
	if item.CompletedAt != nil {
		dto.CompletedAt = item.CompletedAt.UTC().Format(dateTimeFormat)
	}
	if item.Detail != nil {
		dto.CompletedCount = item.Detail.CompletedCount
		dto.PendingReviewCount = item.Detail.PendingReviewCount
	}
	return dto
}

func fromItems(items []song.ChecklistItem) []ChecklistItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]ChecklistItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromStageView converts the aggregator's grouped view.
func FromStageView(view checklist.StageView) StageChecklist {
	dto := StageChecklist{
		Stage:            string(view.Stage),
		StagePercent:     view.StagePercent,
		SongLevelPercent: view.SongLevelPercent,
	}
	for _, group := range view.Categories {
		dto.Categories = append(dto.Categories, CategoryGroup{
			Category: group.Category,
			Percent:  group.Percent(),
			Items:    fromItems(group.Items),
		})
	}
	for _, rec := range view.Recordings {
		recording := RecordingGroup{
			RecordingID:    rec.RecordingID,
			RecordingTitle: rec.RecordingTitle,
			Percent:        rec.Percent(),
		}
		for _, group := range rec.Categories {
			recording.Categories = append(recording.Categories, CategoryGroup{
				Category: group.Category,
				Percent:  group.Percent(),
				Items:    fromItems(group.Items),
			})
		}
		dto.Recordings = append(dto.Recordings, recording)
	}
	return dto
}

// FromCarryover converts carryover groups.
func FromCarryover(groups []checklist.CarryoverGroup) []CarryoverGroup {
	if len(groups) == 0 {
		return nil
	}
	out := make([]CarryoverGroup, 0, len(groups))
	for _, group := range groups {
		out = append(out, CarryoverGroup{
			Stage: string(group.Stage),
			Items: fromItems(group.Items),
		})
	}
	return out
}

// FromTask converts a task record.
func FromTask(task *song.Task) Task {
	if task == nil {
		return Task{}
	}
	dto := Task{
		ID:          task.ID,
		SongID:      task.SongID,
		ItemID:      task.ChecklistItemID,
		State:       string(task.State),
		PayloadJSON: task.PayloadJSON,
	}
	if !task.CreatedAt.IsZero() {
		dto.CreatedAt = task.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if task.SubmittedAt != nil {
		dto.SubmittedAt = task.SubmittedAt.UTC().Format(dateTimeFormat)
	}
	if task.CompletedAt != nil {
		dto.CompletedAt = task.CompletedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
