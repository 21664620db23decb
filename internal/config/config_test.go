// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geocheck.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 60*time.Second {
		t.Errorf("Server.Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Reports.Path != "" {
		t.Errorf("Reports.Path = %q, want in-memory default", cfg.Reports.Path)
	}
	if cfg.Cache.Size != 32 || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}

	opts := cfg.Options()
	if opts.CheckWithinBoundaries == nil || !*opts.CheckWithinBoundaries {
		t.Error("containment should default to enabled")
	}
	if opts.MaxDistance != 0 || opts.AllowHoles {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeYAML(t, `
logging:
  level: debug
check:
  variant: polygon_topology
  max_distance: 2.5
server:
  port: 9000
security:
  cors_origins:
    - https://a.example
`)

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("GEOCHECK_ALLOW_HOLES", "true")
	t.Setenv("REPORTS_TTL", "2h")
	t.Setenv("DATASET_CACHE_SIZE", "0")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from file", cfg.Logging.Level)
	}
	if cfg.Check.Variant != "polygon_topology" || cfg.Check.MaxDistance != 2.5 {
		t.Errorf("Check = %+v", cfg.Check)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if !cfg.Check.AllowHoles {
		t.Error("GEOCHECK_ALLOW_HOLES not applied")
	}
	if cfg.Reports.TTL != 2*time.Hour {
		t.Errorf("Reports.TTL = %v", cfg.Reports.TTL)
	}
	if cfg.Cache.Size != 0 {
		t.Errorf("Cache.Size = %d, want 0 from env", cfg.Cache.Size)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://a.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadCommaSeparatedOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown variant", map[string]string{"GEOCHECK_VARIANT": "raster"}, "Variant"},
		{"negative distance", map[string]string{"GEOCHECK_MAX_DISTANCE": "-1"}, "MaxDistance"},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad format", map[string]string{"LOG_FORMAT": "xml"}, "Format"},
		{"port out of range", map[string]string{"HTTP_PORT": "70000"}, "Port"},
		{"negative cache size", map[string]string{"DATASET_CACHE_SIZE": "-1"}, "Size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile("")
			if err == nil {
				t.Fatal("LoadFile() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeYAML(t, "logging:\n  level: warn\n")
	t.Setenv(ConfigPathEnvVar, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"HTTP_PORT":        "server.port",
		"GEOCHECK_WORKERS": "check.workers",
		"log_level":        "logging.level",
		"PATH":             "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
