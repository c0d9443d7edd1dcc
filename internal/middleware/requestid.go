// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package middleware provides the HTTP middleware stack shared by the
// public API and the ops listener.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/digital7/trackerd/internal/logging"
)

// RequestID tags each request with a unique ID, honoring an upstream
// X-Request-ID when a proxy already assigned one. The ID is echoed in the
// response header and propagated through the context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
