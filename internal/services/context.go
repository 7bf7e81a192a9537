package services

import "context"

type contextKey string

const (
	songIDKey    contextKey = "song_id"
	stageKey     contextKey = "stage"
	actorKey     contextKey = "actor"
	requestIDKey contextKey = "request_id"
)

// WithSongID annotates context with the song identifier.
func WithSongID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, songIDKey, id)
}

// SongIDFromContext extracts the song identifier if present.
func SongIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(songIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithActor annotates context with the display name of the person performing
// the mutation. Completion stamps read it back.
func WithActor(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, name)
}

// ActorFromContext returns the acting user's display name if present.
func ActorFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(actorKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
