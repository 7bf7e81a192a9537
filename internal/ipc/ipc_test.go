package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"labeldesk/internal/daemon"
	"labeldesk/internal/ipc"
	"labeldesk/internal/logging"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
	"labeldesk/internal/testsupport"
	"labeldesk/internal/workflow"
)

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	mgr := workflow.NewManager(cfg, st, logger)
	d, err := daemon.New(cfg, st, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	socket := cfg.SocketPath()
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if !strings.HasSuffix(status.DBPath, "labeldesk.db") {
		t.Fatalf("unexpected db path: %s", status.DBPath)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("status PID = %d, want %d", status.PID, os.Getpid())
	}

	record := testsupport.NewSong(t, st, "Glass Coast", "Marou")
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage:          song.StageDraft,
		Category:       "composition",
		Description:    "Demo uploaded",
		ValidationType: song.ValidationAuto,
	})
	if _, err := st.SetItemAssetURL(ctx, record.ID, item.ID, "https://assets.example/demo.wav", "ana"); err != nil {
		t.Fatalf("SetItemAssetURL: %v", err)
	}

	sweepResp, err := client.Sweep()
	if err != nil {
		t.Fatalf("Sweep RPC failed: %v", err)
	}
	if sweepResp.Validated != 1 {
		t.Fatalf("expected sweep to validate 1 item, got %d", sweepResp.Validated)
	}

	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.SongStats[string(song.StageDraft)] != 1 {
		t.Fatalf("unexpected song stats: %#v", status.SongStats)
	}

	logPath := d.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		t.Fatalf("mkdir log dir: %v", err)
	}
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail initial failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	followDone := make(chan struct{})
	go func(offset int64) {
		resp, err := client.LogTail(ipc.LogTailRequest{Offset: offset, Follow: true, WaitMillis: 500})
		if err != nil {
			t.Errorf("LogTail follow error: %v", err)
			return
		}
		if len(resp.Lines) != 1 || resp.Lines[0] != "fourth" {
			t.Errorf("unexpected follow lines: %#v", resp.Lines)
		}
		close(followDone)
	}(logResp.Offset)

	time.Sleep(100 * time.Millisecond)
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		_, _ = f.WriteString("fourth\n")
		_ = f.Close()
	} else {
		t.Fatalf("append log: %v", err)
	}

	select {
	case <-followDone:
	case <-time.After(10 * time.Second):
		t.Fatal("log tail follow timed out")
	}

	notifyResp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if notifyResp == nil || notifyResp.Message == "" {
		t.Fatalf("expected notification message, got %#v", notifyResp)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
