// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package logging

// Values of the "event" field. Dashboards and tests match on these, so they
// must not change.
const (
	// EventBoundaryAbsent: containment was requested but no boundary
	// reference is loaded. The predicate passes.
	EventBoundaryAbsent = "boundary.absent"

	// EventLinesAbsent: proximity was requested but no line collection is
	// available. The predicate passes.
	EventLinesAbsent = "lines.absent"

	// EventLinesIgnored: an auxiliary line collection was supplied to a
	// variant that does not use one.
	EventLinesIgnored = "lines.ignored"

	// EventKindMismatch: the primary dataset holds geometries of another
	// class than the variant checks, e.g. polygons given to line_data.
	EventKindMismatch = "kind.mismatch"

	EventCheckStarted  = "check.started"
	EventCheckFinished = "check.finished"
	EventSweepFinished = "sweep.finished"
)
