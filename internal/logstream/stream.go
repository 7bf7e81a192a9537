// Package logstream funnels daemon log lines to the CLI, preferring the HTTP
// API and falling back to IPC tailing when the API is unreachable.
package logstream

import (
	"context"
	"errors"
	"fmt"

	"labeldesk/internal/ipc"
	"labeldesk/internal/logs"
)

// TailClient captures the IPC log tail contract used for fallback streaming.
type TailClient interface {
	LogTail(req ipc.LogTailRequest) (*ipc.LogTailResponse, error)
}

// Options controls stream behavior.
type Options struct {
	Lines  int
	Follow bool
}

// Stream emits log lines from the API when available, falling back to IPC
// tailing. It returns true when at least one line was emitted.
func Stream(
	ctx context.Context,
	apiClient *logs.TailClient,
	fallback TailClient,
	opts Options,
	onLine func(string),
) (bool, error) {
	if apiClient != nil {
		printed, err := streamAPI(ctx, apiClient, opts, onLine)
		if err == nil {
			return printed, nil
		}
		if !logs.IsAPIUnavailable(err) {
			return printed, err
		}
	}
	if fallback == nil {
		return false, logs.ErrAPIUnavailable
	}
	return streamIPC(ctx, fallback, opts, onLine)
}

func streamAPI(ctx context.Context, client *logs.TailClient, opts Options, onLine func(string)) (bool, error) {
	query := logs.TailQuery{
		Offset: -1,
		Limit:  opts.Lines,
	}
	if query.Limit <= 0 {
		query.Limit = 200
	}

	printed := false
	for {
		page, err := client.Fetch(ctx, query)
		if err != nil {
			return printed, err
		}
		for _, line := range page.Lines {
			if onLine != nil {
				onLine(line)
			}
			printed = true
		}
		if !opts.Follow {
			return printed, nil
		}
		query.Offset = page.Offset
		query.Limit = 0
		query.Follow = true
		query.WaitMillis = 1000
	}
}

func streamIPC(ctx context.Context, client TailClient, opts Options, onLine func(string)) (bool, error) {
	initialLimit := opts.Lines
	if initialLimit < 0 {
		initialLimit = 0
	}
	initialOffset := int64(-1)
	if initialLimit == 0 {
		initialOffset = 0
	}

	offset := initialOffset
	limit := initialLimit
	printed := false
	for {
		resp, err := client.LogTail(ipc.LogTailRequest{
			Offset:     offset,
			Limit:      limit,
			Follow:     opts.Follow,
			WaitMillis: 1000,
		})
		if err != nil {
			return printed, fmt.Errorf("tail logs: %w", err)
		}
		if resp == nil {
			return printed, errors.New("log tail response missing")
		}
		for _, line := range resp.Lines {
			if onLine != nil {
				onLine(line)
			}
			printed = true
		}
		offset = resp.Offset
		limit = 0
		if !opts.Follow {
			return printed, nil
		}
		select {
		case <-ctx.Done():
			return printed, nil
		default:
		}
	}
}
