// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad indicates a dataset could not be read or decoded.
	ErrLoad = errors.New("dataset load failed")

	// ErrUnsupportedFormat indicates the file extension has no decoder.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrOperation indicates GEOS rejected an operation.
	ErrOperation = errors.New("geometry operation failed")
)

// LoadError describes a dataset that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the ErrLoad sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}

// OpError is a GEOS exception recovered from a go-geos panic.
type OpError struct {
	Op    string
	Cause any
}

func (e *OpError) Error() string {
	return fmt.Sprintf("geometry %s: %v", e.Op, e.Cause)
}

func (e *OpError) Unwrap() error {
	return ErrOperation
}
