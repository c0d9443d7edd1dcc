// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/digital7/trackerd/internal/models"
)

func TestComplete_NilPayloadIsEmptyObject(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	complete(rec, http.StatusOK, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
		t.Fatalf("Expected {} body, got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Unexpected Content-Type %q", got)
	}
}

func TestComplete_DataEnvelopeAlwaysCarriesData(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	complete(rec, http.StatusOK, dataEnvelope{Data: []models.Record{}})

	if got := strings.TrimSpace(rec.Body.String()); got != `{"data":[]}` {
		t.Fatalf("Expected empty data array, got %q", got)
	}
}

func TestCompleteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	completeError(rec, http.StatusBadRequest, "Data validation failed", errors.New("element 0 is not an object"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	var env map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if env["error"] != "Data validation failed" {
		t.Errorf("Unexpected error field %q", env["error"])
	}
	if env["ex"] != "element 0 is not an object" {
		t.Errorf("Unexpected ex field %q", env["ex"])
	}
}

func TestCompleteError_NilErrorOmitsEx(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	completeError(rec, http.StatusInternalServerError, "Tracking page unavailable", nil)

	if strings.Contains(rec.Body.String(), "ex") {
		t.Fatalf("Expected ex to be omitted, got %q", rec.Body.String())
	}
}

func TestNotFound_BareEmptyBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	notFound(rec)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("Expected empty body, got %q", rec.Body.String())
	}
}
