package tasks_test

import (
	"context"
	"errors"
	"testing"

	"labeldesk/internal/song"
	"labeldesk/internal/store"
	"labeldesk/internal/tasks"
	"labeldesk/internal/testsupport"
)

func newResolver(t *testing.T) (*tasks.Resolver, *store.Store, *song.Song) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	record := testsupport.NewSong(t, st, "Song", "Artist")
	return tasks.NewResolver(st, nil), st, record
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	resolver, st, record := newResolver(t)
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Record takes",
		Detail: &song.TemplateItemDetail{HasTaskInputs: true, Quantity: 1},
	})

	ctx := context.Background()
	first, created, err := resolver.GetOrCreate(ctx, record.ID, item.ID)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Fatal("first call must create an instance")
	}

	second, created, err := resolver.GetOrCreate(ctx, record.ID, item.ID)
	if err != nil {
		t.Fatalf("GetOrCreate second call failed: %v", err)
	}
	if created {
		t.Fatal("second call must reuse the open instance")
	}
	if second.ID != first.ID {
		t.Fatalf("reused task id = %s, want %s", second.ID, first.ID)
	}
}

func TestGetOrCreateMintsNextInstanceAfterClose(t *testing.T) {
	resolver, st, record := newResolver(t)
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Record takes",
		Detail: &song.TemplateItemDetail{Quantity: 2},
	})

	ctx := context.Background()
	first, _, err := resolver.GetOrCreate(ctx, record.ID, item.ID)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if _, err := st.SubmitTask(ctx, first.ID, `{"take":1}`, "Ana"); err != nil {
		t.Fatalf("SubmitTask failed: %v", err)
	}

	second, created, err := resolver.GetOrCreate(ctx, record.ID, item.ID)
	if err != nil {
		t.Fatalf("GetOrCreate after close failed: %v", err)
	}
	if !created || second.ID == first.ID {
		t.Fatalf("expected a fresh instance, got created=%v id=%s", created, second.ID)
	}
}

func TestGetOrCreateStopsAtQuantity(t *testing.T) {
	resolver, st, record := newResolver(t)
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Record take",
		Detail: &song.TemplateItemDetail{HasTaskInputs: true, Quantity: 1},
	})

	ctx := context.Background()
	task, _, err := resolver.GetOrCreate(ctx, record.ID, item.ID)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if _, err := st.SubmitTask(ctx, task.ID, "{}", "Ana"); err != nil {
		t.Fatalf("SubmitTask failed: %v", err)
	}

	if _, _, err := resolver.GetOrCreate(ctx, record.ID, item.ID); !errors.Is(err, tasks.ErrAllInstancesDone) {
		t.Fatalf("expected ErrAllInstancesDone, got %v", err)
	}
}

func TestGetOrCreateRejectsNonTaskItems(t *testing.T) {
	resolver, st, record := newResolver(t)
	toggle := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Confirm credits",
	})

	if _, _, err := resolver.GetOrCreate(context.Background(), record.ID, toggle.ID); !errors.Is(err, tasks.ErrNotTaskBacked) {
		t.Fatalf("expected ErrNotTaskBacked, got %v", err)
	}
}
