package distributor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"labeldesk/internal/config"
	"labeldesk/internal/services"
	"labeldesk/internal/services/distributor"
)

func TestNewConfiguredServiceFallsBackToNoop(t *testing.T) {
	cfg := config.Default()
	cfg.Distributor.Enabled = false
	svc := distributor.NewConfiguredService(&cfg)
	if err := svc.RegisterRelease(context.Background(), distributor.Release{SongID: 1}); err != nil {
		t.Fatalf("noop register returned error: %v", err)
	}

	cfg.Distributor.Enabled = true
	cfg.Distributor.URL = ""
	svc = distributor.NewConfiguredService(&cfg)
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("noop ping returned error: %v", err)
	}
}

func TestRegisterReleasePostsPayload(t *testing.T) {
	var captured struct {
		path   string
		auth   string
		accept string
		body   distributor.Release
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.accept = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &captured.body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	svc := distributor.NewHTTPService(server.URL, "token-123", server.Client())
	release := distributor.Release{SongID: 7, Title: "Night Drive", Artist: "The Hollows"}
	if err := svc.RegisterRelease(context.Background(), release); err != nil {
		t.Fatalf("RegisterRelease failed: %v", err)
	}

	if captured.path != "/v1/releases" {
		t.Fatalf("path = %q", captured.path)
	}
	if captured.auth != "Bearer token-123" {
		t.Fatalf("authorization = %q", captured.auth)
	}
	if captured.accept != "application/json" {
		t.Fatalf("content type = %q", captured.accept)
	}
	if captured.body != release {
		t.Fatalf("payload = %#v", captured.body)
	}
}

func TestRegisterReleaseSurfacesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := distributor.NewHTTPService(server.URL, "token", server.Client())
	err := svc.RegisterRelease(context.Background(), distributor.Release{SongID: 1})
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
