package transition

import "labeldesk/internal/song"

// Action is the one legal stage-status transition offered for a stage state.
type Action string

const (
	ActionStart  Action = "start"
	ActionFinish Action = "finish"
	ActionResume Action = "resume"
	// ActionNone means the stage is completed and offers no further control.
	ActionNone Action = "none"
)

// ActionFor returns the single action legal for a stage state. Exactly one
// action exists per state; unrecognized states fail open toward offering
// start.
func ActionFor(state song.StageState) Action {
	switch state {
	case song.StateInProgress:
		return ActionFinish
	case song.StateBlocked:
		return ActionResume
	case song.StateCompleted:
		return ActionNone
	case song.StateNotStarted:
		return ActionStart
	default:
		return ActionStart
	}
}

// TerminalAction is the stage-gated action that moves the song itself
// forward once the current stage's song-level checklist is fully complete.
type TerminalAction string

const (
	TerminalNone            TerminalAction = ""
	TerminalFinish          TerminalAction = "finish"
	TerminalSendToMarketing TerminalAction = "send_to_marketing"
	TerminalSendToDigital   TerminalAction = "send_to_digital"
)

// TerminalActionFor selects the terminal action for the song's current
// stage. Below full song-level completion nothing is offered; at 100 the
// stage maps to exactly one of send-to-marketing, send-to-digital, or the
// generic finish. Recording-scoped items never gate these.
func TerminalActionFor(currentStage song.Stage, songLevelPercent int) TerminalAction {
	if songLevelPercent < 100 {
		return TerminalNone
	}
	switch currentStage {
	case song.StageLabelRecording:
		return TerminalSendToMarketing
	case song.StageReadyForDigital:
		return TerminalSendToDigital
	default:
		return TerminalFinish
	}
}
