// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/digital7/trackerd/internal/middleware"
)

// actionFunc is a versioned location endpoint bound to a tracker ID.
type actionFunc func(w http.ResponseWriter, r *http.Request, trackerID int64)

// action pairs the handler with its required HTTP method.
type action struct {
	method string
	serve  actionFunc
}

// Router dispatches /{version}/locations/{trackerID}/{action} requests
// through a table keyed by version, then action. Adding a v2 namespace is
// a new table entry; the matching logic never changes.
type Router struct {
	handler *Handler
	table   map[string]map[string]action
}

// NewRouter builds the dispatch table for the v1 namespace.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
		table: map[string]map[string]action{
			"v1": {
				"get":    {method: http.MethodGet, serve: handler.GetLocations},
				"update": {method: http.MethodPost, serve: handler.UpdateLocations},
			},
		},
	}
}

// Setup wires the public HTTP surface:
//
//	GET  /                                     tracking page
//	GET  /{version}/locations/{id}/get         fetch partition
//	POST /{version}/locations/{id}/update      store batch
//	*    anything else                         bare 404, empty body
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	// Recoverer re-panics http.ErrAbortHandler, which the update handler
	// relies on to hard-close oversized uploads.
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	// HandleFunc registers all methods; the handlers answer 405 themselves
	// so wrong-method requests get the JSON envelope, not chi's default.
	r.HandleFunc("/", rt.handler.TrackingPage)
	r.HandleFunc("/{version}/locations/{trackerID:[0-9]+}/{action}", rt.dispatch)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		notFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		complete(w, http.StatusMethodNotAllowed, nil)
	})

	return r
}

// dispatch resolves version and action against the table. Unknown
// versions, unknown actions, and non-integer tracker IDs are unmatched
// routes (bare 404), mirroring the top-level matcher.
func (rt *Router) dispatch(w http.ResponseWriter, r *http.Request) {
	actions, ok := rt.table[chi.URLParam(r, "version")]
	if !ok {
		notFound(w)
		return
	}
	act, ok := actions[chi.URLParam(r, "action")]
	if !ok {
		notFound(w)
		return
	}
	if r.Method != act.method {
		complete(w, http.StatusMethodNotAllowed, nil)
		return
	}

	trackerID, err := strconv.ParseInt(chi.URLParam(r, "trackerID"), 10, 64)
	if err != nil {
		// Digits only per the route pattern, so this is an overflow.
		notFound(w)
		return
	}
	act.serve(w, r, trackerID)
}

// NewOpsRouter wires the internal ops listener: prometheus metrics and a
// liveness probe. Kept off the public router so the public contract stays
// "anything but the three routes is a 404".
func NewOpsRouter() http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		complete(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}
