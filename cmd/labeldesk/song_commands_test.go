package main

import (
	"strconv"
	"strings"
	"testing"
)

func TestSongAddListShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"song", "add", "Night Drive", "--artist", "Mira Voss"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("song add: %v", err)
	}
	requireContains(t, out, "Added song")
	requireContains(t, out, "Night Drive")

	out, _, err = runCLI(t, []string{"song", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("song list: %v", err)
	}
	requireContains(t, out, "Night Drive")
	requireContains(t, out, "Mira Voss")
	requireContains(t, out, "Draft")

	out, _, err = runCLI(t, []string{"song", "show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("song show: %v", err)
	}
	requireContains(t, out, "Mira Voss - Night Drive")
	requireContains(t, out, "Draft")
	requireContains(t, out, "Released")
}

func TestSongRecordingAdd(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"song", "add", "Glass Tower"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("song add: %v", err)
	}

	out, _, err := runCLI(t, []string{"song", "recording", "add", "1", "Studio Take"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("recording add: %v", err)
	}
	requireContains(t, out, "Added recording")
	requireContains(t, out, "Studio Take")

	out, _, err = runCLI(t, []string{"song", "show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("song show: %v", err)
	}
	requireContains(t, out, "Recordings")
	requireContains(t, out, "Studio Take")
}

func TestSongListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"song", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("song list: %v", err)
	}
	requireContains(t, out, "Catalog is empty")
}

func TestSongShowRejectsBadID(t *testing.T) {
	env := setupCLITestEnv(t)

	for _, arg := range []string{"zero", "-3", "0"} {
		if _, _, err := runCLI(t, []string{"song", "show", arg}, env.socketPath, env.configPath); err == nil {
			t.Fatalf("expected error for song id %q", arg)
		} else if !strings.Contains(err.Error(), "invalid song id") {
			t.Fatalf("unexpected error for %q: %v", arg, err)
		}
	}

	if _, _, err := runCLI(t, []string{"song", "show", strconv.Itoa(999)}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for unknown song")
	}
}
