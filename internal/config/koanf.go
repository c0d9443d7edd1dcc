// Trackerd - Self-Hosted GPS Location Tracking Backend
// Copyright 2026 Digital7
// SPDX-License-Identifier: MIT
// https://github.com/digital7/trackerd

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trackerd/config.yaml",
	"/etc/trackerd/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns built-in defaults, applied before file and env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8060,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Ops: OpsConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8061,
		},
		Database: DatabaseConfig{
			Driver:         "mongo",
			URI:            "mongodb://127.0.0.1:27018",
			Name:           "tracker",
			ConnectTimeout: 10 * time.Second,
		},
		Tracking: TrackingConfig{
			PagePath:         "web/track.html",
			MaxBodyBytes:     1_000_000,
			FilterToday:      true,
			StrictValidation: false,
		},
		Wipe: WipeConfig{
			Enabled:  true,
			Timezone: "Local",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so random environment
// noise never pollutes the configuration.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		// Server mappings
		"http_host":             "server.host",
		"http_port":             "server.port",
		"http_header_timeout":   "server.read_header_timeout",
		"http_shutdown_timeout": "server.shutdown_timeout",

		// Ops listener mappings
		"ops_enabled": "ops.enabled",
		"ops_host":    "ops.host",
		"ops_port":    "ops.port",

		// Database mappings
		"db_driver":             "database.driver",
		"mongo_uri":             "database.uri",
		"mongo_database":        "database.name",
		"mongo_connect_timeout": "database.connect_timeout",

		// Tracking mappings
		"track_page_path":   "tracking.page_path",
		"max_body_bytes":    "tracking.max_body_bytes",
		"filter_today":      "tracking.filter_today",
		"strict_validation": "tracking.strict_validation",

		// Wipe mappings
		"wipe_enabled":  "wipe.enabled",
		"wipe_timezone": "wipe.timezone",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
