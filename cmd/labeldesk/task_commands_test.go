package main

import (
	"fmt"
	"strings"
	"testing"

	"labeldesk/internal/song"
	"labeldesk/internal/store"
	"labeldesk/internal/testsupport"
)

func TestTaskOpenSubmitApprove(t *testing.T) {
	env := setupCLITestEnv(t)

	record := testsupport.NewSong(t, env.store, "Static Bloom", "")
	item := testsupport.AttachItem(t, env.store, record.ID, store.TemplateItem{
		Stage:          song.StageMarketingAssets,
		SortOrder:      1,
		Description:    "Produce teaser clips",
		ValidationType: song.ValidationManual,
		Detail: &song.TemplateItemDetail{
			HasTaskInputs:  true,
			RequiresReview: true,
			Quantity:       2,
		},
	})
	testsupport.StartStage(t, env.store, record.ID, song.StageMarketingAssets)

	itemArg := fmt.Sprintf("%d", item.ID)
	out, _, err := runCLI(t, []string{"task", "open", "1", itemArg}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("task open: %v", err)
	}
	requireContains(t, out, "Opened task")

	taskID := extractTaskID(t, out)

	out, _, err = runCLI(t, []string{"task", "submit", taskID, "--payload", `{"clip":"teaser-1"}`, "--actor", "ana"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("task submit: %v", err)
	}
	requireContains(t, out, taskID)

	out, _, err = runCLI(t, []string{"task", "approve", taskID, "--actor", "ben"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("task approve: %v", err)
	}
	requireContains(t, out, "approved")

	out, _, err = runCLI(t, []string{"task", "list", "1", itemArg}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("task list: %v", err)
	}
	requireContains(t, out, taskID)
	requireContains(t, out, "approved")
}

func extractTaskID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	for i, field := range fields {
		if field == "task" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	t.Fatalf("no task id in output %q", out)
	return ""
}
