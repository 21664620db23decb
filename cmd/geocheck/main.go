// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Command geocheck validates point, line and polygon datasets against
// geometric data-quality rules.
//
// Usage:
//
//	geocheck check roads.geojson --variant line_topology --boundary county.geojson
//	geocheck feature roads.geojson 12 --variant line_topology
//	geocheck sweep parcels.wkt --variant polygon_topology --json
//	geocheck serve
//	geocheck variants
//	geocheck version
//
// check, feature and sweep exit 0 when the data is valid, 1 when it is
// not and 2 on any error (unknown variant, unreadable dataset, capability
// not offered by the variant).
//
// Configuration is read from CONFIG_PATH or geocheck.yaml and from the
// environment (see internal/config). Flags override both.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
