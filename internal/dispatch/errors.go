// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/geocheck/internal/feature"
)

var (
	// ErrUnknownVariant is wrapped by *ConfigError.
	ErrUnknownVariant = errors.New("unknown validator variant")

	// ErrCapabilityNotFound is wrapped by *CapabilityError.
	ErrCapabilityNotFound = errors.New("capability not found")

	// ErrInternal marks a state the facade can never reach.
	ErrInternal = errors.New("internal dispatch error")
)

// ConfigError rejects an unknown variant key.
type ConfigError struct {
	Key     string
	Allowed []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid validator type %q: available types are [%s]", e.Key, strings.Join(e.Allowed, ", "))
}

func (e *ConfigError) Unwrap() error {
	return ErrUnknownVariant
}

// CapabilityError reports an operation the bound variant does not offer.
type CapabilityError struct {
	Variant    Variant
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("validator %s has no %s capability", e.Variant, e.Capability)
}

func (e *CapabilityError) Unwrap() error {
	return ErrCapabilityNotFound
}

// Capability names used in CapabilityError.
const (
	CapabilitySingleFeature = "single-feature check"
	CapabilitySweep         = "sweep"
)

// IsConfigError reports whether err is a configuration error: an unknown
// variant key or an out-of-range feature index.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnknownVariant) || errors.Is(err, feature.ErrIndexOutOfRange)
}
