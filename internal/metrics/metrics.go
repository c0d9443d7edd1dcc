// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package metrics provides the Prometheus collectors for Trackerd:
// API request latency and throughput, storage gateway operations, and
// daily wipe runs. Collectors are registered on the default registry and
// exposed by the ops listener.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Storage gateway metrics
	StorageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Duration of storage gateway operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StorageOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operation_errors_total",
			Help: "Total number of failed storage gateway operations",
		},
		[]string{"operation"},
	)

	RecordsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_records_inserted_total",
			Help: "Total number of location records persisted",
		},
	)

	RecordsFilteredOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_records_filtered_total",
			Help: "Total number of stale records dropped by the today filter",
		},
	)

	// Daily wipe metrics
	WipeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wipe_runs_total",
			Help: "Total number of daily wipe runs",
		},
		[]string{"result"}, // "ok", "error"
	)

	WipePartitionsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wipe_partitions_dropped_total",
			Help: "Total number of tracker partitions dropped by the daily wipe",
		},
	)

	WipeDropFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wipe_drop_failures_total",
			Help: "Total number of per-partition drop failures during wipes",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active-request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ObserveStorageOp records the duration and outcome of one gateway call.
func ObserveStorageOp(operation string, duration time.Duration, err error) {
	StorageOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StorageOpErrors.WithLabelValues(operation).Inc()
	}
}
