// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

/*
Package cache keeps recently loaded feature collections in memory.

The HTTP API checks the same reference datasets (boundaries, road networks)
over and over. Decoding them into GEOS geometries dominates the cost of a
small check, so Collections memoizes feature.Load per path.

# Structure

LRU is a fixed-capacity, TTL-bounded least-recently-used map:

	head <-> most recent <-> ... <-> least recent <-> tail

Get and Add are O(1). Entries past their TTL are dropped lazily on Get
and in bulk by CleanupExpired.

Collections wraps an LRU keyed by path. Each entry remembers the file's
modification time and size; a lookup whose stat no longer matches reloads
the file. Collections are immutable (see package feature), so one cached
value may be handed to any number of concurrent checks.

# Usage Example

	c := cache.NewCollections(64, 10*time.Minute)
	v, err := dispatch.NewWith(src, c.Load)

# Thread Safety

All methods are safe for concurrent use. Two goroutines missing on the same
path may both load it; the later Add wins.
*/
package cache
