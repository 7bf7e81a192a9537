package services_test

import (
	"context"
	"testing"

	"labeldesk/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSongID(ctx, 42)
	ctx = services.WithStage(ctx, "label_recording")
	ctx = services.WithActor(ctx, "Ana Reyes")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SongIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected song id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "label_recording" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if actor, ok := services.ActorFromContext(ctx); !ok || actor != "Ana Reyes" {
		t.Fatalf("unexpected actor: %v %v", actor, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
