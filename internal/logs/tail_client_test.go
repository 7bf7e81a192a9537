package logs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"labeldesk/internal/logs"
)

func TestNewTailClientEmptyBind(t *testing.T) {
	client, err := logs.NewTailClient("", "")
	if err != nil {
		t.Fatalf("NewTailClient error: %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client for empty bind")
	}
}

func TestTailClientFetchBuildsQueryAndDecodes(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(logs.TailPage{
			Lines:  []string{"hello"},
			Offset: 42,
		})
	}))
	defer srv.Close()

	client, err := logs.NewTailClient(srv.URL, "sekrit")
	if err != nil {
		t.Fatalf("NewTailClient error: %v", err)
	}

	page, err := client.Fetch(context.Background(), logs.TailQuery{
		Offset:     3,
		Limit:      50,
		Follow:     true,
		WaitMillis: 750,
	})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(page.Lines) != 1 || page.Lines[0] != "hello" || page.Offset != 42 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if gotAuth != "Bearer sekrit" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}

	for key, want := range map[string]string{
		"offset": "3",
		"limit":  "50",
		"follow": "1",
		"wait":   "750",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Fatalf("query[%s]: expected %q, got %q", key, want, got)
		}
	}
}

func TestIsAPIUnavailable(t *testing.T) {
	if !logs.IsAPIUnavailable(logs.ErrAPIUnavailable) {
		t.Fatal("expected ErrAPIUnavailable to match")
	}
	if logs.IsAPIUnavailable(errors.New("other")) {
		t.Fatal("did not expect generic error to match")
	}
}
