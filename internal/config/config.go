// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

// Package config loads Trackerd configuration with Koanf v2 layering:
// built-in defaults, then an optional YAML file, then environment
// variables (highest priority).
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Ops      OpsConfig      `koanf:"ops"`
	Database DatabaseConfig `koanf:"database"`
	Tracking TrackingConfig `koanf:"tracking"`
	Wipe     WipeConfig     `koanf:"wipe"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the public HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port bind address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// OpsConfig configures the internal ops listener (/metrics, /healthz).
// It is a separate listener so the public router keeps its strict
// unmatched-path-is-404 contract.
type OpsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
}

// Addr returns the host:port bind address.
func (o OpsConfig) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// DatabaseConfig selects and configures the storage gateway.
type DatabaseConfig struct {
	// Driver is "mongo" (production) or "memory" (tests, throwaway runs).
	Driver string `koanf:"driver"`

	// URI is the mongodb:// connection string.
	URI string `koanf:"uri"`

	// Name is the database holding the tracker partitions.
	Name string `koanf:"name"`

	// ConnectTimeout bounds each per-operation dial.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// TrackingConfig tunes the update pipeline and the tracking page.
type TrackingConfig struct {
	// PagePath is the self-contained HTML tracking client.
	PagePath string `koanf:"page_path"`

	// MaxBodyBytes caps raw update bodies; larger uploads are aborted.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// FilterToday drops records older than today's UTC date before
	// persisting.
	FilterToday bool `koanf:"filter_today"`

	// StrictValidation adds typed field checks to the batch validator.
	StrictValidation bool `koanf:"strict_validation"`
}

// WipeConfig configures the daily full wipe.
type WipeConfig struct {
	Enabled bool `koanf:"enabled"`

	// Timezone names the location whose midnight triggers the wipe.
	// "Local" (default) uses process-local time.
	Timezone string `koanf:"timezone"`
}

// Location resolves the wipe timezone.
func (w WipeConfig) Location() (*time.Location, error) {
	if w.Timezone == "" || w.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(w.Timezone)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Ops.Enabled {
		if c.Ops.Port < 1 || c.Ops.Port > 65535 {
			return fmt.Errorf("ops.port %d out of range", c.Ops.Port)
		}
		if c.Ops.Port == c.Server.Port {
			return fmt.Errorf("ops.port %d collides with server.port", c.Ops.Port)
		}
	}

	switch c.Database.Driver {
	case "mongo":
		if c.Database.URI == "" {
			return fmt.Errorf("database.uri is required for the mongo driver")
		}
	case "memory":
	default:
		return fmt.Errorf("database.driver %q is not one of mongo, memory", c.Database.Driver)
	}

	if c.Tracking.MaxBodyBytes <= 0 {
		return fmt.Errorf("tracking.max_body_bytes must be positive")
	}
	if c.Tracking.PagePath == "" {
		return fmt.Errorf("tracking.page_path is required")
	}

	if _, err := c.Wipe.Location(); err != nil {
		return fmt.Errorf("wipe.timezone: %w", err)
	}
	return nil
}
