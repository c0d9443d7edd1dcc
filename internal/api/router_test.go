// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/digital7/trackerd/internal/page"
	"github.com/digital7/trackerd/internal/storage"
)

func TestRouter_TrackingPage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "track.html")
	if err := os.WriteFile(path, []byte("<html>map</html>"), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	trackPage, err := page.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	h := NewRouter(NewHandler(storage.NewMemory(), trackPage, HandlerConfig{})).Setup()

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "<html>map</html>" {
		t.Fatalf("Unexpected body %q", rec.Body.String())
	}
}

func TestRouter_TrackingPageUnavailable(t *testing.T) {
	t.Parallel()

	h := newTestServer(storage.NewMemory(), HandlerConfig{})

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 without a page asset, got %d", rec.Code)
	}
}

func TestRouter_RootWrongMethod(t *testing.T) {
	t.Parallel()

	h := newTestServer(storage.NewMemory(), HandlerConfig{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := do(t, h, method, "/", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /: expected 405, got %d", method, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
			t.Errorf("%s /: expected {} body, got %q", method, got)
		}
	}
}

func TestRouter_WrongMethodOnActions(t *testing.T) {
	t.Parallel()

	h := newTestServer(storage.NewMemory(), HandlerConfig{})

	cases := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/v1/locations/1/get"},
		{http.MethodGet, "/v1/locations/1/update"},
		{http.MethodDelete, "/v1/locations/1/get"},
	}
	for _, tc := range cases {
		rec := do(t, h, tc.method, tc.target, "[]")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tc.method, tc.target, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
			t.Errorf("%s %s: expected {} body, got %q", tc.method, tc.target, got)
		}
	}
}

func TestRouter_UnmatchedRoutesAreBare404s(t *testing.T) {
	t.Parallel()

	h := newTestServer(storage.NewMemory(), HandlerConfig{})

	targets := []string{
		"/v2/locations/1/get",
		"/v1/locations/1/delete",
		"/v1/locations/abc/get",
		"/v1/locations/-1/get",
		"/v1/locations/1",
		"/v1/foo/bar",
		"/favicon.ico",
		"/v1/locations/99999999999999999999/get", // int64 overflow
	}
	for _, target := range targets {
		rec := do(t, h, http.MethodGet, target, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", target, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("GET %s: expected empty body, got %q", target, rec.Body.String())
		}
	}
}

func TestRouter_OversizedBodyAbortsConnection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestServer(storage.NewMemory(), HandlerConfig{MaxBodyBytes: 64}))
	defer srv.Close()

	oversized := strings.Repeat("x", 200)
	resp, err := http.Post(srv.URL+"/v1/locations/1/update", "application/json", strings.NewReader(oversized))
	if err == nil {
		resp.Body.Close()
		t.Fatalf("Expected a transport error, got HTTP %d", resp.StatusCode)
	}
}

func TestRouter_BodyWithinLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestServer(storage.NewMemory(), HandlerConfig{MaxBodyBytes: 1024}))
	defer srv.Close()

	body := `[{"lat": 1, "long": 2, "time": "2024-06-15T00:00:00Z"}]`
	resp, err := http.Post(srv.URL+"/v1/locations/1/update", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestOpsRouter(t *testing.T) {
	t.Parallel()

	h := NewOpsRouter()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthz: unexpected body %q", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatal("metrics: expected prometheus exposition output")
	}
}
