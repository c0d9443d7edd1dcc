// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package main is the entry point for the Trackerd server.
//
// Trackerd is a minimal location-tracking backend: trackers POST batches
// of timestamped GPS coordinates under a numeric identifier, the tracking
// page at / retrieves them via GET, and all data is wiped at each local
// midnight.
//
// # Application Architecture
//
// Startup order:
//
//  1. Configuration: Koanf v2 layering (defaults < config.yaml < env)
//  2. Logging: global zerolog logger
//  3. Storage gateway: MongoDB (per-operation connections) or in-memory
//  4. Tracking page cache: loaded once, mtime-reloaded lazily
//  5. Supervision tree: daily wipe scheduler (jobs layer), public HTTP
//     server and ops listener (api layer)
//
// # Configuration
//
// Common environment variables (see internal/config for the full map):
//
//	HTTP_HOST, HTTP_PORT      public bind address (default 0.0.0.0:8060)
//	OPS_ENABLED, OPS_PORT     metrics/health listener (default 127.0.0.1:8061)
//	DB_DRIVER                 mongo (default) or memory
//	MONGO_URI, MONGO_DATABASE document store location (default local, "tracker")
//	FILTER_TODAY              drop records older than today's UTC date (default true)
//	WIPE_ENABLED, WIPE_TIMEZONE daily wipe toggle and midnight timezone
//	LOG_LEVEL, LOG_FORMAT     logging configuration
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: listeners stop accepting,
// in-flight requests get the shutdown timeout to finish, and the wipe
// scheduler's context is canceled.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/digital7/trackerd/internal/api"
	"github.com/digital7/trackerd/internal/config"
	"github.com/digital7/trackerd/internal/logging"
	"github.com/digital7/trackerd/internal/page"
	"github.com/digital7/trackerd/internal/storage"
	"github.com/digital7/trackerd/internal/supervisor"
	"github.com/digital7/trackerd/internal/wipe"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trackerd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	gateway := newGateway(cfg)

	trackPage, err := page.Load(cfg.Tracking.PagePath)
	if err != nil {
		// The server still answers the API without the page; / serves 500.
		logging.Warn().Err(err).Str("path", cfg.Tracking.PagePath).Msg("Tracking page unavailable")
		trackPage = nil
	}

	handler := api.NewHandler(gateway, trackPage, api.HandlerConfig{
		MaxBodyBytes:     cfg.Tracking.MaxBodyBytes,
		FilterToday:      cfg.Tracking.FilterToday,
		StrictValidation: cfg.Tracking.StrictValidation,
	})

	tree := supervisor.NewTree(supervisor.DefaultTreeConfig())

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler).Setup(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	tree.AddAPIService(supervisor.NewHTTPService("http-server", server, cfg.Server.ShutdownTimeout))

	if cfg.Ops.Enabled {
		opsServer := &http.Server{
			Addr:              cfg.Ops.Addr(),
			Handler:           api.NewOpsRouter(),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		}
		tree.AddAPIService(supervisor.NewHTTPService("ops-server", opsServer, cfg.Server.ShutdownTimeout))
	}

	if cfg.Wipe.Enabled {
		location, lerr := cfg.Wipe.Location()
		if lerr != nil {
			return lerr
		}
		tree.AddJobService(wipe.NewScheduler(gateway, location))
	} else {
		logging.Warn().Msg("Daily wipe disabled; partitions will grow unbounded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("driver", cfg.Database.Driver).
		Bool("wipe", cfg.Wipe.Enabled).
		Msg("Trackerd starting")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("Trackerd stopped")
	return nil
}

// newGateway selects the storage gateway for the configured driver.
// Validation already constrained the driver to a known value.
func newGateway(cfg *config.Config) storage.Gateway {
	if cfg.Database.Driver == "memory" {
		logging.Warn().Msg("Using in-memory storage; data is lost on restart")
		return storage.NewMemory()
	}
	return storage.NewMongo(storage.MongoConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Name,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	})
}
