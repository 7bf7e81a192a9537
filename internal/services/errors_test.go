package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"labeldesk/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUpstream, "digital_distribution", "register", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"digital_distribution", "register", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrNotFound, "", "get song", "missing", nil), http.StatusNotFound},
		{services.Wrap(services.ErrValidation, "", "finish", "incomplete", nil), http.StatusUnprocessableEntity},
		{services.Wrap(services.ErrConflict, "", "start", "already running", nil), http.StatusConflict},
		{services.Wrap(services.ErrUpstream, "", "register", "distributor down", nil), http.StatusBadGateway},
		{services.Wrap(services.ErrTransient, "", "sweep", "io", errors.New("io")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
