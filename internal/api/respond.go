// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geocheck/internal/dispatch"
	"github.com/tomtom215/geocheck/internal/geometry"
	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/reports"
	"github.com/tomtom215/geocheck/internal/validation"
	"github.com/tomtom215/geocheck/internal/worker"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeConfig      = "CONFIG_ERROR"
	CodeCapability  = "CAPABILITY_NOT_FOUND"
	CodeLoad        = "LOAD_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeForbidden   = "PATH_OUTSIDE_DATA_DIR"
	CodeUnavailable = "UNAVAILABLE"
	CodeInternal    = "INTERNAL_ERROR"
)

// errPathOutsideDataDir rejects request paths that leave the data directory.
var errPathOutsideDataDir = errors.New("path is outside the data directory")

// Response is the envelope of every JSON response.
type Response struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// sanitizeLogValue escapes control characters so request-supplied values
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	resp.Metadata = Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Err(err).Msg("Failed to write JSON response")
	}
}

func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, r, http.StatusOK, &Response{Status: "success", Data: data})
}

// respondError maps err onto a status code and error code.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classify(err)

	event := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Str("code", apiErr.Code).
		Int("status", status).
		Str("error", sanitizeLogValue(err.Error())).
		Msg("API Error")

	respondJSON(w, r, status, &Response{Status: "error", Error: apiErr})
}

func classify(err error) (int, *APIError) {
	var (
		reqErr *validation.RequestValidationError
		capErr *dispatch.CapabilityError
	)
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, &APIError{Code: CodeValidation, Message: reqErr.Error(), Details: reqErr.Fields}
	case dispatch.IsConfigError(err):
		return http.StatusBadRequest, &APIError{Code: CodeConfig, Message: err.Error()}
	case errors.Is(err, errPathOutsideDataDir):
		return http.StatusForbidden, &APIError{Code: CodeForbidden, Message: err.Error()}
	case errors.As(err, &capErr):
		return http.StatusUnprocessableEntity, &APIError{Code: CodeCapability, Message: err.Error()}
	case errors.Is(err, geometry.ErrLoad):
		return http.StatusUnprocessableEntity, &APIError{Code: CodeLoad, Message: err.Error()}
	case errors.Is(err, reports.ErrReportNotFound):
		return http.StatusNotFound, &APIError{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, worker.ErrPoolClosed):
		return http.StatusServiceUnavailable, &APIError{Code: CodeUnavailable, Message: err.Error()}
	default:
		return http.StatusInternalServerError, &APIError{Code: CodeInternal, Message: "internal error"}
	}
}

// badRequest wraps a malformed-input problem as a validation error.
func badRequest(field, tag, msg string) error {
	return &validation.RequestValidationError{Fields: []validation.FieldError{{Field: field, Tag: tag, Message: msg}}}
}

func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
