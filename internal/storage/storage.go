// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package storage is the gateway to the per-tracker document store.
//
// Every tracker identifier owns one partition, created lazily on first
// insert and destroyed only by the daily wipe. Two implementations exist:
// Mongo (the production document store, one connection per operation) and
// Memory (mutex-guarded map, used by tests and the "memory" driver).
package storage

import (
	"context"
	"strconv"

	"github.com/digital7/trackerd/internal/models"
)

// Operation names used in errors and metrics labels.
const (
	OpInsert = "insert_batch"
	OpFetch  = "fetch_all"
	OpDrop   = "drop_all_partitions"
)

// Gateway is the document-store access contract the handlers and the wipe
// scheduler depend on. Implementations must keep partitions independent:
// an operation on one tracker identifier never observes another's records.
type Gateway interface {
	// InsertBatch appends all records to the tracker's partition, creating
	// the partition on first write.
	InsertBatch(ctx context.Context, trackerID int64, records []models.Record) error

	// FetchAll returns every record in the tracker's partition, in storage
	// order. A missing partition yields an empty batch, not an error.
	FetchAll(ctx context.Context, trackerID int64) ([]models.Record, error)

	// DropAllPartitions deletes every partition, best-effort: individual
	// drop failures are absorbed and only a listing failure is returned.
	// It reports the number of partitions dropped.
	DropAllPartitions(ctx context.Context) (int, error)
}

// Error wraps a storage failure with the gateway operation that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// collectionPrefix namespaces tracker partitions inside the database.
const collectionPrefix = "locations-"

// CollectionName returns the partition (collection) name for a tracker.
func CollectionName(trackerID int64) string {
	return collectionPrefix + strconv.FormatInt(trackerID, 10)
}
