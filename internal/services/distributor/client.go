package distributor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"labeldesk/internal/config"
	"labeldesk/internal/services"
	"labeldesk/internal/song"
)

// HTTPDoer describes the HTTP client used by the distributor service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Release is the payload registered with the distribution partner when a
// song is sent to digital.
type Release struct {
	SongID int64  `json:"songId"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Service registers releases with the distribution partner.
type Service interface {
	RegisterRelease(ctx context.Context, release Release) error
	Ping(ctx context.Context) error
}

// NewConfiguredService returns a distributor client when credentials are
// available and a no-op otherwise.
func NewConfiguredService(cfg *config.Config) Service {
	if cfg == nil || !cfg.Distributor.Enabled {
		return noopService{}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Distributor.URL), "/")
	apiKey := strings.TrimSpace(cfg.Distributor.APIKey)
	if baseURL == "" || apiKey == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Distributor.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewHTTPService(baseURL, apiKey, &http.Client{Timeout: timeout})
}

// NewHTTPService constructs an HTTP-backed distributor client.
func NewHTTPService(baseURL, apiKey string, client HTTPDoer) Service {
	return &httpService{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

type httpService struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

func (s *httpService) RegisterRelease(ctx context.Context, release Release) error {
	if s == nil || s.client == nil || s.baseURL == "" {
		return nil
	}
	body, err := json.Marshal(release)
	if err != nil {
		return fmt.Errorf("encode release payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/releases", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUpstream, string(song.StageDigitalDistribution), "register release", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(
			services.ErrUpstream,
			string(song.StageDigitalDistribution),
			"register release",
			fmt.Sprintf("distributor returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
			nil,
		)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *httpService) Ping(ctx context.Context) error {
	if s == nil || s.client == nil || s.baseURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUpstream, string(song.StageDigitalDistribution), "health", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(
			services.ErrUpstream,
			string(song.StageDigitalDistribution),
			"health",
			fmt.Sprintf("distributor returned %d", resp.StatusCode),
			nil,
		)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) RegisterRelease(context.Context, Release) error { return nil }
func (noopService) Ping(context.Context) error                     { return nil }
