package daemon_test

import (
	"context"
	"testing"

	"labeldesk/internal/daemon"
	"labeldesk/internal/logging"
	"labeldesk/internal/testsupport"
	"labeldesk/internal/workflow"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	mgr := workflow.NewManager(cfg, st, logger)

	d, err := daemon.New(cfg, st, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if d.APIAddr() == "" {
		t.Fatal("expected api server to be bound")
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonLockRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	first, err := daemon.New(cfg, st, logger, workflow.NewManager(cfg, st, logger))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	cfg2 := *cfg
	cfg2.Paths.APIBind = "127.0.0.1:0"
	second, err := daemon.New(&cfg2, st, logger, workflow.NewManager(&cfg2, st, logger))
	if err != nil {
		t.Fatalf("daemon.New second: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail on the lock")
	}
}
