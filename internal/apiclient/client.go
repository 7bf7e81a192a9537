// Package apiclient wraps the daemon HTTP API for CLI consumers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"labeldesk/internal/api"
	"labeldesk/internal/song"
)

// ErrUnavailable indicates the daemon API could not be reached.
var ErrUnavailable = errors.New("daemon API unavailable")

// Client issues requests against the daemon HTTP API.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// New builds a client for the given bind address. An empty bind yields a nil
// client.
func New(bind, token string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base:  base,
		token: strings.TrimSpace(token),
		http:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// StatusError carries the HTTP status and server message for failed requests.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("daemon API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, dest any) error {
	if c == nil {
		return ErrUnavailable
	}

	var payload io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		payload = buf
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return &StatusError{StatusCode: resp.StatusCode, Message: failure.Error}
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// ListSongs returns every song in the catalog.
func (c *Client) ListSongs(ctx context.Context) ([]api.Song, error) {
	var resp api.SongListResponse
	if err := c.do(ctx, http.MethodGet, "/api/songs", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Songs, nil
}

// CreateSong registers a new song at the draft stage.
func (c *Client) CreateSong(ctx context.Context, title, artist string) (*api.Song, error) {
	var created api.Song
	body := map[string]string{"title": title, "artist": artist}
	if err := c.do(ctx, http.MethodPost, "/api/songs", nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DescribeSong returns a song with its stage statuses and recordings.
func (c *Client) DescribeSong(ctx context.Context, id int64) (*api.SongDetailResponse, error) {
	var detail api.SongDetailResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/songs/%d", id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// AddRecording attaches a recording to a song.
func (c *Client) AddRecording(ctx context.Context, songID int64, title string) (*api.Recording, error) {
	var recording api.Recording
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/recordings", songID), nil, body, &recording); err != nil {
		return nil, err
	}
	return &recording, nil
}

// Checklist fetches the checklist view for a stage; an empty stage means the
// song's current stage.
func (c *Client) Checklist(ctx context.Context, songID int64, stage song.Stage) (*api.StageChecklist, error) {
	query := url.Values{}
	if stage != "" {
		query.Set("stage", string(stage))
	}
	var view api.StageChecklist
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/songs/%d/checklist", songID), query, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ToggleItem flips a simple manual checklist item.
func (c *Client) ToggleItem(ctx context.Context, songID, itemID int64, actor string) (*api.ChecklistItem, error) {
	var item api.ChecklistItem
	body := map[string]string{"actor": actor}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/items/%d/toggle", songID, itemID), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AssignItem records the teammate responsible for an item.
func (c *Client) AssignItem(ctx context.Context, songID, itemID int64, assignee string) (*api.ChecklistItem, error) {
	var item api.ChecklistItem
	body := map[string]string{"assignee": assignee}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/items/%d/assign", songID, itemID), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetItemAsset attaches an asset URL to an item.
func (c *Client) SetItemAsset(ctx context.Context, songID, itemID int64, assetURL, actor string) (*api.ChecklistItem, error) {
	var item api.ChecklistItem
	body := map[string]string{"url": assetURL, "actor": actor}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/items/%d/asset", songID, itemID), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Validate runs the automatic validation pass for one song.
func (c *Client) Validate(ctx context.Context, songID int64) (int64, error) {
	var resp map[string]int64
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/validate", songID), nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp["validated"], nil
}

// StageAction runs start, finish, resume, or block against a stage.
func (c *Client) StageAction(ctx context.Context, songID int64, stage song.Stage, action string) (*api.StageStatus, error) {
	var status api.StageStatus
	path := fmt.Sprintf("/api/songs/%d/stages/%s/%s", songID, stage, action)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Advance moves the song pointer to the next stage when the terminal action
// allows it.
func (c *Client) Advance(ctx context.Context, songID int64) (*api.Song, error) {
	var advanced api.Song
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/advance", songID), nil, nil, &advanced); err != nil {
		return nil, err
	}
	return &advanced, nil
}

// OpenTask resolves the open task instance for a task-backed item.
func (c *Client) OpenTask(ctx context.Context, songID, itemID int64) (*api.Task, error) {
	var task api.Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/items/%d/task", songID, itemID), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns the task instances recorded for an item.
func (c *Client) ListTasks(ctx context.Context, songID, itemID int64) ([]api.Task, error) {
	var resp struct {
		Tasks []api.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/songs/%d/items/%d/tasks", songID, itemID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// SubmitTask submits a task's payload for completion or review.
func (c *Client) SubmitTask(ctx context.Context, taskID, payload, actor string) (*api.Task, error) {
	var task api.Task
	body := map[string]string{"payload": payload, "actor": actor}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%s/submit", url.PathEscape(taskID)), nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ApproveTask approves a submitted task that requires review.
func (c *Client) ApproveTask(ctx context.Context, taskID, actor string) (*api.Task, error) {
	var task api.Task
	body := map[string]string{"actor": actor}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%s/approve", url.PathEscape(taskID)), nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
