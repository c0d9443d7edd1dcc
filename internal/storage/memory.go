// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package storage

import (
	"context"
	"sync"

	"github.com/digital7/trackerd/internal/models"
)

// Memory is an in-process gateway holding partitions in a mutex-guarded
// map. It backs the "memory" database driver and substitutes the document
// store in tests; records are copied on the way in and out so callers
// never share map instances.
type Memory struct {
	mu         sync.RWMutex
	partitions map[int64][]models.Record
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{partitions: make(map[int64][]models.Record)}
}

// InsertBatch implements Gateway.
func (m *Memory) InsertBatch(ctx context.Context, trackerID int64, records []models.Record) error {
	if err := ctx.Err(); err != nil {
		return wrapErr(OpInsert, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partitions[trackerID] = append(m.partitions[trackerID], models.CloneBatch(records)...)
	return nil
}

// FetchAll implements Gateway.
func (m *Memory) FetchAll(ctx context.Context, trackerID int64) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapErr(OpFetch, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	records, ok := m.partitions[trackerID]
	if !ok {
		return []models.Record{}, nil
	}
	return models.CloneBatch(records), nil
}

// DropAllPartitions implements Gateway.
func (m *Memory) DropAllPartitions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrapErr(OpDrop, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := len(m.partitions)
	m.partitions = make(map[int64][]models.Record)
	return dropped, nil
}

// PartitionCount reports the number of live partitions. Test helper.
func (m *Memory) PartitionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.partitions)
}
