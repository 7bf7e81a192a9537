package checklist

import "labeldesk/internal/song"

// InteractionMode determines what a completion click performs for an item.
type InteractionMode string

const (
	// ModeReadOnlyAuto items display validation results; clicks are inert.
	ModeReadOnlyAuto InteractionMode = "read_only_auto"
	// ModeSimpleToggle items flip is_complete through the toggle mutation.
	ModeSimpleToggle InteractionMode = "simple_toggle"
	// ModeTaskModal items open a task-completion form backed by a task
	// record; quantity-based items add one instance per submission.
	ModeTaskModal InteractionMode = "task_modal"
)

// Classify maps an item's metadata to its interaction mode. Auto items are
// always read-only regardless of template detail.
func Classify(item song.ChecklistItem) InteractionMode {
	if item.ValidationType == song.ValidationAuto {
		return ModeReadOnlyAuto
	}
	if item.HasTaskInputs() || item.Quantity() > 1 {
		return ModeTaskModal
	}
	return ModeSimpleToggle
}

// ActionLabel returns the completion control label for a task-modal item.
// Quantity-based items add instances rather than flipping a single boolean,
// and the label signals that difference.
func ActionLabel(item song.ChecklistItem) string {
	if item.Quantity() > 1 {
		return "Add Instance"
	}
	return "Complete Task"
}
