package checklist

import (
	"sort"

	"labeldesk/internal/song"
)

// CarryoverGroup collects incomplete items left behind in one earlier stage.
type CarryoverGroup struct {
	Stage song.Stage
	Items []song.ChecklistItem
}

// Carryover finds incomplete items belonging to stages earlier than
// currentStage in the canonical order, grouped by stage and ordered by
// stage position. Items with an unknown stage are excluded rather than
// treated as earliest. The report is advisory: it never blocks the current
// stage's transition.
func Carryover(items []song.ChecklistItem, currentStage song.Stage) []CarryoverGroup {
	currentIdx := song.StageIndex(currentStage)

	buckets := make(map[song.Stage][]song.ChecklistItem)
	for _, item := range items {
		if item.IsComplete {
			continue
		}
		idx := song.StageIndex(item.Stage)
		if idx < 0 || idx >= currentIdx {
			continue
		}
		buckets[item.Stage] = append(buckets[item.Stage], item)
	}

	groups := make([]CarryoverGroup, 0, len(buckets))
	for stage, bucket := range buckets {
		groups = append(groups, CarryoverGroup{Stage: stage, Items: bucket})
	}
	sort.Slice(groups, func(a, b int) bool {
		return song.StageIndex(groups[a].Stage) < song.StageIndex(groups[b].Stage)
	})
	return groups
}
