// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8060" {
		t.Errorf("Unexpected server addr %q", cfg.Server.Addr())
	}
	if cfg.Ops.Addr() != "127.0.0.1:8061" {
		t.Errorf("Unexpected ops addr %q", cfg.Ops.Addr())
	}
	if cfg.Database.Driver != "mongo" {
		t.Errorf("Unexpected driver %q", cfg.Database.Driver)
	}
	if cfg.Database.Name != "tracker" {
		t.Errorf("Unexpected database name %q", cfg.Database.Name)
	}
	if cfg.Tracking.MaxBodyBytes != 1_000_000 {
		t.Errorf("Unexpected body cap %d", cfg.Tracking.MaxBodyBytes)
	}
	if !cfg.Tracking.FilterToday {
		t.Error("Expected filter_today to default on")
	}
	if cfg.Tracking.StrictValidation {
		t.Error("Expected strict_validation to default off")
	}
	if !cfg.Wipe.Enabled {
		t.Error("Expected wipe to default on")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("FILTER_TODAY", "false")
	t.Setenv("WIPE_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("Expected memory driver, got %q", cfg.Database.Driver)
	}
	if cfg.Tracking.FilterToday {
		t.Error("Expected filter_today off")
	}
	if cfg.Wipe.Timezone != "UTC" {
		t.Errorf("Expected UTC timezone, got %q", cfg.Wipe.Timezone)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7070
database:
  driver: memory
tracking:
  page_path: /srv/track.html
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070 from file, got %d", cfg.Server.Port)
	}
	if cfg.Tracking.PagePath != "/srv/track.html" {
		t.Errorf("Expected page path from file, got %q", cfg.Tracking.PagePath)
	}
	// File leaves unset keys at their defaults.
	if cfg.Ops.Port != 8061 {
		t.Errorf("Expected default ops port, got %d", cfg.Ops.Port)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected env to beat file, got port %d", cfg.Server.Port)
	}
}

func TestLoad_InvalidEnvValueFailsValidation(t *testing.T) {
	t.Setenv("DB_DRIVER", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("Expected validation error for unknown driver")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config { return defaultConfig() }

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"server port zero", func(c *Config) { c.Server.Port = 0 }},
		{"server port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"ops port collision", func(c *Config) { c.Ops.Port = c.Server.Port }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"mongo without uri", func(c *Config) { c.Database.URI = "" }},
		{"non-positive body cap", func(c *Config) { c.Tracking.MaxBodyBytes = 0 }},
		{"empty page path", func(c *Config) { c.Tracking.PagePath = "" }},
		{"bad timezone", func(c *Config) { c.Wipe.Timezone = "Mars/Olympus" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Expected validation error")
			}
		})
	}
}

func TestValidate_MemoryDriverNeedsNoURI(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Database.Driver = "memory"
	cfg.Database.URI = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Memory driver should not require a URI: %v", err)
	}
}

func TestWipeConfig_Location(t *testing.T) {
	t.Parallel()

	for _, tz := range []string{"", "Local"} {
		loc, err := WipeConfig{Timezone: tz}.Location()
		if err != nil || loc != time.Local {
			t.Errorf("Timezone %q: expected local time, got %v (%v)", tz, loc, err)
		}
	}

	loc, err := WipeConfig{Timezone: "UTC"}.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Expected UTC, got %v (%v)", loc, err)
	}
}

func TestEnvTransformFunc_UnmappedKeysSkipped(t *testing.T) {
	t.Parallel()

	if got := envTransformFunc("PATH"); got != "" {
		t.Fatalf("Expected PATH to be skipped, got %q", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Fatalf("Expected server.port, got %q", got)
	}
}
