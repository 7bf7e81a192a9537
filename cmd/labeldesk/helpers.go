package main

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"labeldesk/internal/song"
)

var titleCaser = cases.Title(language.English)

// stageDisplayName renders a stage identifier for human output, e.g.
// "label_recording" becomes "Label Recording".
func stageDisplayName(stage string) string {
	return titleCaser.String(strings.ReplaceAll(strings.TrimSpace(stage), "_", " "))
}

// stateDisplayName renders a stage state for human output.
func stateDisplayName(state string) string {
	return titleCaser.String(strings.ReplaceAll(strings.TrimSpace(state), "_", " "))
}

func parseSongID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid song id %q", arg)
	}
	return id, nil
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func parseStage(arg string) (song.Stage, error) {
	stage, ok := song.ParseStage(arg)
	if !ok {
		return "", fmt.Errorf("unknown stage %q (expected one of: %s)", arg, strings.Join(stageNames(), ", "))
	}
	return stage, nil
}

func stageNames() []string {
	order := song.StageOrder()
	names := make([]string, 0, len(order))
	for _, stage := range order {
		names = append(names, string(stage))
	}
	return names
}

func checkmark(done bool) string {
	if done {
		return "x"
	}
	return " "
}
