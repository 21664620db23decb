// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package config loads geocheck's runtime configuration.
//
// Sources are layered with Koanf v2, later layers winning:
//
//  1. Built-in defaults
//  2. An optional YAML file (CONFIG_PATH, or the first of DefaultConfigPaths)
//  3. Environment variables
//
// Only the environment variables listed in envMappings are read; anything
// else in the environment is ignored.
package config

import (
	"io"
	"os"
	"time"

	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/validator"
)

// Config is the complete runtime configuration.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Check    CheckConfig    `koanf:"check"`
	Server   ServerConfig   `koanf:"server"`
	Reports  ReportsConfig  `koanf:"reports"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
}

// LoggingConfig configures the zerolog global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// CheckConfig holds the defaults applied to checks that do not set them
// explicitly.
type CheckConfig struct {
	// Variant is the default validator key for the CLI. Empty means the
	// caller must name one.
	Variant     string  `koanf:"variant" validate:"omitempty,variant"`
	Workers     int     `koanf:"workers" validate:"gte=0"`
	MaxDistance float64 `koanf:"max_distance" validate:"gte=0"`
	AllowHoles  bool    `koanf:"allow_holes"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gt=0,lte=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// DataDir confines dataset paths named in API requests. Empty allows
	// any path the process can read.
	DataDir string `koanf:"data_dir"`
}

// ReportsConfig configures the report store. An empty Path keeps reports
// in memory.
type ReportsConfig struct {
	Path string        `koanf:"path"`
	TTL  time.Duration `koanf:"ttl" validate:"gte=0"`
}

// CacheConfig sizes the API's dataset cache. Size 0 disables it.
type CacheConfig struct {
	Size int           `koanf:"size" validate:"gte=0"`
	TTL  time.Duration `koanf:"ttl" validate:"gte=0"`
}

// SecurityConfig holds request throttling and CORS settings.
type SecurityConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Check: CheckConfig{},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3857,
			Timeout: 60 * time.Second,
		},
		Reports: ReportsConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			Size: 32,
			TTL:  10 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoggingOptions converts the logging section for logging.Init. Output
// goes to stderr so that CLI results on stdout stay machine readable.
func (c *Config) LoggingOptions() logging.Config {
	return c.LoggingOptionsTo(os.Stderr)
}

// LoggingOptionsTo is LoggingOptions with an explicit writer.
func (c *Config) LoggingOptionsTo(w io.Writer) logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	cfg.Output = w
	return cfg
}

// Options returns the check defaults as validator options.
func (c *Config) Options() validator.Options {
	opts := validator.DefaultOptions()
	opts.MaxDistance = c.Check.MaxDistance
	opts.AllowHoles = c.Check.AllowHoles
	return opts
}
