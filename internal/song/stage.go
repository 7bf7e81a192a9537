package song

import "strings"

// Stage represents one phase in the fixed song-production sequence.
type Stage string

const (
	StageDraft               Stage = "draft"
	StagePublishing          Stage = "publishing"
	StageLabelRecording      Stage = "label_recording"
	StageMarketingAssets     Stage = "marketing_assets"
	StageLabelReview         Stage = "label_review"
	StageReadyForDigital     Stage = "ready_for_digital"
	StageDigitalDistribution Stage = "digital_distribution"
	StageReleased            Stage = "released"
	StageArchived            Stage = "archived"
)

// stageOrder is the canonical production sequence. Position defines both
// "earlier" for carryover detection and "next" for cascade transitions.
var stageOrder = []Stage{
	StageDraft,
	StagePublishing,
	StageLabelRecording,
	StageMarketingAssets,
	StageLabelReview,
	StageReadyForDigital,
	StageDigitalDistribution,
	StageReleased,
	StageArchived,
}

var stageIndexes = func() map[Stage]int {
	indexes := make(map[Stage]int, len(stageOrder))
	for i, stage := range stageOrder {
		indexes[stage] = i
	}
	return indexes
}()

// StageOrder returns the canonical ordered list of stages.
func StageOrder() []Stage {
	cp := make([]Stage, len(stageOrder))
	copy(cp, stageOrder)
	return cp
}

// StageIndex returns the zero-based position of a stage in the canonical
// order, or -1 when the value is not a known stage.
func StageIndex(stage Stage) int {
	if idx, ok := stageIndexes[stage]; ok {
		return idx
	}
	return -1
}

// NextStage returns the stage immediately following the given one. The
// second return is false when the stage is last in the order or unknown.
func NextStage(stage Stage) (Stage, bool) {
	idx := StageIndex(stage)
	if idx < 0 || idx+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[idx+1], true
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageIndexes[normalized]
	return normalized, ok
}

// StageState represents the progress of one stage for one song.
type StageState string

const (
	StateNotStarted StageState = "not_started"
	StateInProgress StageState = "in_progress"
	StateBlocked    StageState = "blocked"
	StateCompleted  StageState = "completed"
)

var allStates = []StageState{
	StateNotStarted,
	StateInProgress,
	StateBlocked,
	StateCompleted,
}

var stateSet = func() map[StageState]struct{} {
	set := make(map[StageState]struct{}, len(allStates))
	for _, state := range allStates {
		set[state] = struct{}{}
	}
	return set
}()

// AllStates returns the known stage states.
func AllStates() []StageState {
	cp := make([]StageState, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseStageState converts a string into a known StageState.
func ParseStageState(value string) (StageState, bool) {
	normalized := StageState(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stateSet[normalized]
	return normalized, ok
}
