package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"labeldesk/internal/config"
	"labeldesk/internal/song"
)

const userAgent = "Labeldesk/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyStageStarted(ctx context.Context, songTitle string, stage song.Stage) error
	NotifyStageCompleted(ctx context.Context, songTitle string, stage song.Stage) error
	NotifySongAdvanced(ctx context.Context, songTitle string, from, to song.Stage) error
	NotifySongReleased(ctx context.Context, songTitle string) error
	NotifyTaskSubmitted(ctx context.Context, songTitle, itemDescription string) error
	NotifyTaskApproved(ctx context.Context, songTitle, itemDescription string) error
	NotifyCascadeStalled(ctx context.Context, songTitle string, completed, next song.Stage) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		stageEvents: cfg.Notifications.Stages,
		taskEvents:  cfg.Notifications.Tasks,
		errorEvents: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	stageEvents bool
	taskEvents  bool
	errorEvents bool
}

func (n *ntfyService) NotifyStageStarted(ctx context.Context, songTitle string, stage song.Stage) error {
	if !n.stageEvents {
		return nil
	}
	data := payload{
		title:   "Labeldesk - Stage Started",
		message: fmt.Sprintf("Started %s: %s", stage, strings.TrimSpace(songTitle)),
		tags:    []string{"labeldesk", "stage", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStageCompleted(ctx context.Context, songTitle string, stage song.Stage) error {
	if !n.stageEvents {
		return nil
	}
	data := payload{
		title:   "Labeldesk - Stage Complete",
		message: fmt.Sprintf("Completed %s: %s", stage, strings.TrimSpace(songTitle)),
		tags:    []string{"labeldesk", "stage", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySongAdvanced(ctx context.Context, songTitle string, from, to song.Stage) error {
	if !n.stageEvents {
		return nil
	}
	data := payload{
		title:   "Labeldesk - Song Advanced",
		message: fmt.Sprintf("%s moved from %s to %s", strings.TrimSpace(songTitle), from, to),
		tags:    []string{"labeldesk", "song", "advanced"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySongReleased(ctx context.Context, songTitle string) error {
	data := payload{
		title:    "Labeldesk - Released",
		message:  fmt.Sprintf("Released: %s", strings.TrimSpace(songTitle)),
		tags:     []string{"labeldesk", "song", "released"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTaskSubmitted(ctx context.Context, songTitle, itemDescription string) error {
	if !n.taskEvents {
		return nil
	}
	data := payload{
		title:   "Labeldesk - Task Submitted",
		message: fmt.Sprintf("%s: %s awaits review", strings.TrimSpace(songTitle), strings.TrimSpace(itemDescription)),
		tags:    []string{"labeldesk", "task", "submitted"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTaskApproved(ctx context.Context, songTitle, itemDescription string) error {
	if !n.taskEvents {
		return nil
	}
	data := payload{
		title:   "Labeldesk - Task Approved",
		message: fmt.Sprintf("%s: %s approved", strings.TrimSpace(songTitle), strings.TrimSpace(itemDescription)),
		tags:    []string{"labeldesk", "task", "approved"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCascadeStalled(ctx context.Context, songTitle string, completed, next song.Stage) error {
	if !n.errorEvents {
		return nil
	}
	data := payload{
		title:    "Labeldesk - Cascade Stalled",
		message:  fmt.Sprintf("%s: %s completed but %s did not start. Retry the stage start.", strings.TrimSpace(songTitle), completed, next),
		tags:     []string{"labeldesk", "stage", "stalled"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Labeldesk - Error",
		message:  builder.String(),
		tags:     []string{"labeldesk", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Labeldesk - Test",
		message:  "Notification system test",
		tags:     []string{"labeldesk", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyStageStarted(context.Context, string, song.Stage) error           { return nil }
func (noopService) NotifyStageCompleted(context.Context, string, song.Stage) error         { return nil }
func (noopService) NotifySongAdvanced(context.Context, string, song.Stage, song.Stage) error {
	return nil
}
func (noopService) NotifySongReleased(context.Context, string) error                  { return nil }
func (noopService) NotifyTaskSubmitted(context.Context, string, string) error         { return nil }
func (noopService) NotifyTaskApproved(context.Context, string, string) error          { return nil }
func (noopService) NotifyCascadeStalled(context.Context, string, song.Stage, song.Stage) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
