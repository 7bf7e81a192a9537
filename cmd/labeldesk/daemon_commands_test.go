package main

import (
	"path/filepath"
	"testing"

	"labeldesk/internal/ipc"
	"labeldesk/internal/testsupport"
)

func TestStatusCommandWithRunningDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.NewSong(t, env.store, "Quiet Engine", "")

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "System Status")
	requireContains(t, out, "Running")
	requireContains(t, out, "Songs by Stage")
	requireContains(t, out, "Draft")
}

func TestStatusCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	requireContains(t, out, `"running": true`)
}

func TestStopCommandDaemonNotRunning(t *testing.T) {
	env := setupCLITestEnv(t)

	deadSocket := filepath.Join(t.TempDir(), "missing.sock")
	out, _, err := runCLI(t, []string{"stop"}, deadSocket, env.configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon is not running")
}

func TestBuildStageStatRowsOrdering(t *testing.T) {
	rows := buildStageStatRows(map[string]int{
		"released":   2,
		"draft":      5,
		"publishing": 1,
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Draft" || rows[1][0] != "Publishing" || rows[2][0] != "Released" {
		t.Fatalf("unexpected row order: %v", rows)
	}
	if rows[0][1] != "5" {
		t.Fatalf("expected draft count 5, got %s", rows[0][1])
	}
}

func TestBuildSystemLinesOffline(t *testing.T) {
	lines := buildSystemLines(&ipc.StatusResponse{Running: false}, false, false)
	if len(lines) == 0 {
		t.Fatal("expected status lines")
	}
	if lines[0].kind != statusWarn {
		t.Fatalf("expected warn for stopped daemon, got %v", lines[0].kind)
	}
}
