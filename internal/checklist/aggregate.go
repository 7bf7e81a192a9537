package checklist

import (
	"sort"

	"labeldesk/internal/song"
)

// CategoryGroup is an ordered set of items sharing a category label.
type CategoryGroup struct {
	Category string
	Items    []song.ChecklistItem
}

// Percent returns the group's completion as a rounded integer percentage.
func (g CategoryGroup) Percent() int {
	return Percent(countComplete(g.Items), len(g.Items))
}

// RecordingGroup is the sub-checklist for one recording within a stage.
type RecordingGroup struct {
	RecordingID    int64
	RecordingTitle string
	Categories     []CategoryGroup
}

// Percent returns the recording sub-checklist completion percentage.
func (g RecordingGroup) Percent() int {
	var complete, total int
	for _, category := range g.Categories {
		complete += countComplete(category.Items)
		total += len(category.Items)
	}
	return Percent(complete, total)
}

// StageView is the derived presentation state for one stage of one song.
type StageView struct {
	Stage song.Stage
	// Categories groups the stage's song-level items.
	Categories []CategoryGroup
	// Recordings groups recording-scoped items, each with its own
	// category grouping. Items are never merged across recordings.
	Recordings []RecordingGroup
	// StagePercent covers every current-stage item, song-level and
	// recording-scoped alike.
	StagePercent int
	// SongLevelPercent covers song-level items only; stage-gated terminal
	// actions key off this value.
	SongLevelPercent int
}

// Percent expresses complete/total as an integer percentage, rounding
// half-up. A group with zero items reports 100 so an empty stage never
// blocks progression.
func Percent(complete, total int) int {
	if total == 0 {
		return 100
	}
	return (complete*100 + total/2) / total
}

// Aggregate derives the grouped stage view from a full item snapshot.
func Aggregate(items []song.ChecklistItem, currentStage song.Stage) StageView {
	view := StageView{Stage: currentStage}

	var stageItems, songLevel []song.ChecklistItem
	recordingItems := make(map[int64][]song.ChecklistItem)
	var recordingOrder []int64
	recordingTitles := make(map[int64]string)

	for _, item := range items {
		if item.Stage != currentStage {
			continue
		}
		stageItems = append(stageItems, item)
		if !item.HasRecording() {
			songLevel = append(songLevel, item)
			continue
		}
		id := *item.RecordingID
		if _, seen := recordingItems[id]; !seen {
			recordingOrder = append(recordingOrder, id)
			recordingTitles[id] = item.RecordingTitle
		}
		recordingItems[id] = append(recordingItems[id], item)
	}

	view.Categories = groupByCategory(songLevel)
	for _, id := range recordingOrder {
		view.Recordings = append(view.Recordings, RecordingGroup{
			RecordingID:    id,
			RecordingTitle: recordingTitles[id],
			Categories:     groupByCategory(recordingItems[id]),
		})
	}

	view.StagePercent = Percent(countComplete(stageItems), len(stageItems))
	view.SongLevelPercent = Percent(countComplete(songLevel), len(songLevel))
	return view
}

// groupByCategory buckets items by category in first-seen order and sorts
// each bucket by sort order. The sort must be stable so ties keep the
// original collection order.
func groupByCategory(items []song.ChecklistItem) []CategoryGroup {
	buckets := make(map[string][]song.ChecklistItem)
	var order []string
	for _, item := range items {
		if _, seen := buckets[item.Category]; !seen {
			order = append(order, item.Category)
		}
		buckets[item.Category] = append(buckets[item.Category], item)
	}

	groups := make([]CategoryGroup, 0, len(order))
	for _, category := range order {
		bucket := buckets[category]
		sort.SliceStable(bucket, func(a, b int) bool {
			return bucket[a].SortOrder < bucket[b].SortOrder
		})
		groups = append(groups, CategoryGroup{Category: category, Items: bucket})
	}
	return groups
}

func countComplete(items []song.ChecklistItem) int {
	count := 0
	for _, item := range items {
		if item.IsComplete {
			count++
		}
	}
	return count
}
