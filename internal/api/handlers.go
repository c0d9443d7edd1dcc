// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package api implements the HTTP surface of Trackerd: the versioned
// location endpoints, the tracking page at the root, and the ops listener.
//
// All handlers follow the same pattern:
//  1. Method validation (GET/POST)
//  2. Body read and batch validation (update only)
//  3. Storage gateway call with the request context
//  4. Uniform JSON envelope response
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/digital7/trackerd/internal/logging"
	"github.com/digital7/trackerd/internal/metrics"
	"github.com/digital7/trackerd/internal/models"
	"github.com/digital7/trackerd/internal/page"
	"github.com/digital7/trackerd/internal/storage"
	"github.com/digital7/trackerd/internal/validation"
)

// DefaultMaxBodyBytes caps the raw update body. Connections streaming more
// than this are aborted mid-read without a structured response.
const DefaultMaxBodyBytes = 1_000_000

// HandlerConfig tunes the update pipeline.
type HandlerConfig struct {
	// MaxBodyBytes is the raw request body cap. Default: 1,000,000.
	MaxBodyBytes int64

	// FilterToday drops records whose timestamp date-prefix is not today's
	// UTC date before persisting.
	FilterToday bool

	// StrictValidation enables typed field checks on top of the structural
	// field-set check.
	StrictValidation bool
}

// Handler owns the location endpoints and the tracking page.
type Handler struct {
	gateway   storage.Gateway
	validator *validation.Validator
	page      *page.Page

	maxBodyBytes int64
	filterToday  bool

	// now is injectable so tests pin the today filter to a known date.
	now func() time.Time
}

// NewHandler creates the API handler set.
func NewHandler(gateway storage.Gateway, trackPage *page.Page, cfg HandlerConfig) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		gateway:      gateway,
		validator:    validation.New(cfg.StrictValidation),
		page:         trackPage,
		maxBodyBytes: cfg.MaxBodyBytes,
		filterToday:  cfg.FilterToday,
		now:          time.Now,
	}
}

// TrackingPage serves the self-contained HTML client at the root.
//
// Method: GET /
//
// Response:
//   - 200: page bytes, cache-control: no-cache
//   - 405: non-GET request
//   - 500: asset unavailable
func (h *Handler) TrackingPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		complete(w, http.StatusMethodNotAllowed, nil)
		return
	}
	if h.page == nil {
		completeError(w, http.StatusInternalServerError, "Tracking page unavailable", nil)
		return
	}
	h.page.Serve(w, r)
}

// GetLocations returns every record in the tracker's partition.
//
// Method: GET /v1/locations/{trackerID}/get
//
// Response:
//   - 200: {"data": [...]} in storage order
//   - 405: non-GET request
//   - 500: storage failure
func (h *Handler) GetLocations(w http.ResponseWriter, r *http.Request, trackerID int64) {
	records, err := h.gateway.FetchAll(r.Context(), trackerID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("tracker_id", trackerID).Msg("Fetch failed")
		completeError(w, http.StatusInternalServerError, "Database query failed", err)
		return
	}
	complete(w, http.StatusOK, dataEnvelope{Data: records})
}

// UpdateLocations validates and persists one batch of location records.
// The batch is atomic: either every record validates and the whole batch
// is handed to storage, or nothing is persisted and the client gets a 400.
//
// Method: POST /v1/locations/{trackerID}/update
//
// Response:
//   - 200: {} batch accepted
//   - 400: malformed JSON or invalid batch
//   - 405: non-POST request
//   - 500: storage failure
func (h *Handler) UpdateLocations(w http.ResponseWriter, r *http.Request, trackerID int64) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	records, err := h.validator.ParseBatch(body)
	if err != nil {
		completeError(w, http.StatusBadRequest, "Data validation failed", err)
		return
	}

	if h.filterToday {
		records, err = filterToToday(records, h.now().UTC())
		if err != nil {
			completeError(w, http.StatusBadRequest, "Data validation failed", err)
			return
		}
	}

	// An empty (or fully filtered) batch is acknowledged without touching
	// storage; inserting zero documents is a driver error, not a write.
	if len(records) == 0 {
		complete(w, http.StatusOK, nil)
		return
	}

	if err := h.gateway.InsertBatch(r.Context(), trackerID, records); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("tracker_id", trackerID).Msg("Insert failed")
		completeError(w, http.StatusInternalServerError, "Database update failed", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int64("tracker_id", trackerID).
		Int("records", len(records)).
		Msg("Batch stored")
	complete(w, http.StatusOK, nil)
}

// readBody accumulates the request body up to the configured cap. A body
// exceeding the cap aborts the connection outright: http.ErrAbortHandler
// propagates through the Recoverer and net/http closes the stream without
// a response.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil {
		completeError(w, http.StatusBadRequest, "Data validation failed", err)
		return nil, false
	}
	if int64(len(body)) > h.maxBodyBytes {
		logging.Ctx(r.Context()).Warn().
			Int64("limit", h.maxBodyBytes).
			Msg("Update body over limit, aborting connection")
		panic(http.ErrAbortHandler)
	}
	return body, true
}

// filterToToday keeps only records whose timestamp date-prefix matches
// today's UTC date. Records carrying a non-string timestamp cannot be
// filtered and fail the batch.
func filterToToday(records []models.Record, now time.Time) ([]models.Record, error) {
	today := now.Format("2006-01-02")
	kept := records[:0]
	for _, rec := range records {
		prefix, ok := rec.DatePrefix()
		if !ok {
			return nil, &validation.Error{Reason: "record timestamp is not a date string"}
		}
		if prefix == today {
			kept = append(kept, rec)
		} else {
			metrics.RecordsFilteredOut.Inc()
		}
	}
	return kept, nil
}
