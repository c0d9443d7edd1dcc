// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/digital7/trackerd/internal/logging"
	"github.com/digital7/trackerd/internal/models"
)

// The wire envelope is deliberately small and uniform:
//   - get success:    {"data": [...]}
//   - update success: {}
//   - any failure:    {"error": "...", "ex": "..."}
//   - unmatched path: bare 404, empty body (bypasses the envelope)

// dataEnvelope wraps a fetched batch. Data is always present, even when
// empty, so clients can range over it unconditionally.
type dataEnvelope struct {
	Data []models.Record `json:"data"`
}

// errEnvelope describes a failure class plus the underlying error detail.
type errEnvelope struct {
	Error string `json:"error"`
	Ex    string `json:"ex,omitempty"`
}

// complete writes a JSON response with the given status code. A nil
// payload produces an empty object, never an empty body.
func complete(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if payload == nil {
		payload = struct{}{}
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// completeError writes an error envelope. err may be nil when the message
// alone describes the failure.
func completeError(w http.ResponseWriter, code int, message string, err error) {
	env := errEnvelope{Error: message}
	if err != nil {
		env.Ex = err.Error()
	}
	complete(w, code, env)
}

// notFound writes a bare 404 with an empty body.
func notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}
