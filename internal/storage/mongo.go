// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/digital7/trackerd/internal/logging"
	"github.com/digital7/trackerd/internal/metrics"
	"github.com/digital7/trackerd/internal/models"
)

// Mongo is the production gateway. Each operation opens its own client
// connection and closes it on return; there is no pooling across calls.
// Concurrency is therefore bounded by the engine's own connection-accept
// capacity, trading efficiency for simplicity.
type Mongo struct {
	uri            string
	database       string
	connectTimeout time.Duration
}

// MongoConfig configures the Mongo gateway.
type MongoConfig struct {
	// URI is the mongodb:// connection string.
	URI string

	// Database is the database holding the tracker partitions.
	Database string

	// ConnectTimeout bounds the initial dial of each per-operation
	// connection. Zero means the driver default.
	ConnectTimeout time.Duration
}

// NewMongo creates a Mongo gateway. No connection is made until the first
// operation.
func NewMongo(cfg MongoConfig) *Mongo {
	if cfg.Database == "" {
		cfg.Database = "tracker"
	}
	return &Mongo{
		uri:            cfg.URI,
		database:       cfg.Database,
		connectTimeout: cfg.ConnectTimeout,
	}
}

// connect opens a fresh client for one operation.
func (m *Mongo) connect() (*mongo.Client, error) {
	opts := options.Client().ApplyURI(m.uri)
	if m.connectTimeout > 0 {
		opts = opts.SetConnectTimeout(m.connectTimeout)
	}
	return mongo.Connect(opts)
}

// disconnect closes the per-operation client. Close failures are logged,
// not surfaced: the operation itself already succeeded or failed.
func (m *Mongo) disconnect(ctx context.Context, client *mongo.Client) {
	if err := client.Disconnect(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to close storage connection")
	}
}

// InsertBatch implements Gateway.
func (m *Mongo) InsertBatch(ctx context.Context, trackerID int64, records []models.Record) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStorageOp(OpInsert, time.Since(start), err) }()

	client, cerr := m.connect()
	if cerr != nil {
		return wrapErr(OpInsert, cerr)
	}
	defer m.disconnect(ctx, client)

	coll := client.Database(m.database).Collection(CollectionName(trackerID))
	if _, ierr := coll.InsertMany(ctx, records); ierr != nil {
		return wrapErr(OpInsert, ierr)
	}
	metrics.RecordsInserted.Add(float64(len(records)))
	return nil
}

// FetchAll implements Gateway. The engine's internal _id field is projected
// out so records round-trip with exactly the submitted field names.
func (m *Mongo) FetchAll(ctx context.Context, trackerID int64) (records []models.Record, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStorageOp(OpFetch, time.Since(start), err) }()

	client, cerr := m.connect()
	if cerr != nil {
		return nil, wrapErr(OpFetch, cerr)
	}
	defer m.disconnect(ctx, client)

	coll := client.Database(m.database).Collection(CollectionName(trackerID))
	cursor, ferr := coll.Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}}))
	if ferr != nil {
		return nil, wrapErr(OpFetch, ferr)
	}

	records = []models.Record{}
	if aerr := cursor.All(ctx, &records); aerr != nil {
		return nil, wrapErr(OpFetch, aerr)
	}
	return records, nil
}

// DropAllPartitions implements Gateway. Partitions are dropped one at a
// time; a failed drop is logged and counted but does not stop the sweep.
func (m *Mongo) DropAllPartitions(ctx context.Context) (dropped int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStorageOp(OpDrop, time.Since(start), err) }()

	client, cerr := m.connect()
	if cerr != nil {
		return 0, wrapErr(OpDrop, cerr)
	}
	defer m.disconnect(ctx, client)

	db := client.Database(m.database)
	names, lerr := db.ListCollectionNames(ctx, bson.D{})
	if lerr != nil {
		return 0, wrapErr(OpDrop, lerr)
	}

	logging.Info().Int("partitions", len(names)).Msg("Dropping all tracker partitions")
	for _, name := range names {
		if derr := db.Collection(name).Drop(ctx); derr != nil {
			metrics.WipeDropFailures.Inc()
			logging.Warn().Err(derr).Str("partition", name).Msg("Failed to drop partition")
			continue
		}
		dropped++
	}
	metrics.WipePartitionsDropped.Add(float64(dropped))
	return dropped, nil
}
