// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/geocheck/internal/dispatch"
	"github.com/tomtom215/geocheck/internal/feature"
	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/metrics"
	"github.com/tomtom215/geocheck/internal/reports"
	"github.com/tomtom215/geocheck/internal/validation"
	"github.com/tomtom215/geocheck/internal/validator"
	"github.com/tomtom215/geocheck/internal/worker"
)

const (
	maxBodyBytes       = 1 << 20
	defaultReportLimit = 50
	maxReportLimit     = 1000
)

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// Defaults are the options applied before the request's own options.
	Defaults validator.Options

	// DataDir, when set, is the root that request paths are resolved
	// against. Paths escaping it are rejected.
	DataDir string

	// Loader reads datasets. Nil means feature.Load.
	Loader dispatch.LoadFunc
}

// Handler serves the API routes.
type Handler struct {
	pool  *worker.Pool
	store *reports.Store
	cfg   HandlerConfig
}

// NewHandler creates a Handler that runs checks on pool and stores reports
// in store.
func NewHandler(pool *worker.Pool, store *reports.Store, cfg HandlerConfig) *Handler {
	if cfg.Loader == nil {
		cfg.Loader = feature.Load
	}
	return &Handler{pool: pool, store: store, cfg: cfg}
}

// CheckRequest is the body of the check and sweep endpoints.
type CheckRequest struct {
	dispatch.Source

	// LineOverride is the line dataset for point_data proximity.
	LineOverride string `json:"line_override,omitempty"`

	Options validator.Options `json:"options"`
}

// VariantInfo describes one validator variant.
type VariantInfo struct {
	Key           string `json:"key"`
	Family        string `json:"family"`
	FeatureChecks bool   `json:"feature_checks"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]string{"status": "ok"})
}

// Variants lists the validator variants.
func (h *Handler) Variants(w http.ResponseWriter, r *http.Request) {
	out := make([]VariantInfo, 0, len(dispatch.Variants()))
	for _, v := range dispatch.Variants() {
		out = append(out, VariantInfo{
			Key:           v.String(),
			Family:        v.Family().String(),
			FeatureChecks: v.SupportsFeatureChecks(),
		})
	}
	respondOK(w, r, out)
}

// Check runs the whole-dataset check.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	req, v, err := h.prepare(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	start := time.Now()
	res, err := dispatch.NewAsync(v, h.pool).Inspect(r.Context(), req.Options)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.save(w, r, &reports.Report{
		Variant:    v.Variant().String(),
		Dataset:    req.Path,
		Mode:       string(dispatch.ModeDataset),
		Valid:      res.Valid,
		Predicates: res.Predicates,
		StartedAt:  start.UTC(),
		Duration:   time.Since(start),
	})
}

// CheckFeature runs the single-feature check for the {index} URL parameter.
func (h *Handler) CheckFeature(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, r, badRequest("index", "numeric", "index must be an integer"))
		return
	}

	req, v, err := h.prepare(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	start := time.Now()
	res, err := dispatch.NewAsync(v, h.pool).InspectFeature(r.Context(), index, req.Options)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.save(w, r, &reports.Report{
		Variant:    v.Variant().String(),
		Dataset:    req.Path,
		Mode:       string(dispatch.ModeFeature),
		Index:      &index,
		Valid:      res.Valid,
		Predicates: res.Predicates,
		StartedAt:  start.UTC(),
		Duration:   time.Since(start),
	})
}

// Sweep runs the single-feature check for every feature.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	req, v, err := h.prepare(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	start := time.Now()
	sweep, err := dispatch.NewAsync(v, h.pool).Sweep(r.Context(), req.Options)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.save(w, r, &reports.Report{
		Variant:   v.Variant().String(),
		Dataset:   req.Path,
		Mode:      string(dispatch.ModeSweep),
		Valid:     sweep.Valid(),
		Failing:   sweep.Failing,
		StartedAt: start.UTC(),
		Duration:  time.Since(start),
	})
}

// ListReports returns stored reports, newest first. ?limit= caps the count.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", defaultReportLimit)
	if limit <= 0 || limit > maxReportLimit {
		respondError(w, r, badRequest("limit", "range", fmt.Sprintf("limit must be between 1 and %d", maxReportLimit)))
		return
	}
	list, err := h.store.List(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, list)
}

// GetReport returns one stored report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, rep)
}

// prepare decodes and validates the request body and binds the validator
// it names.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (*CheckRequest, *dispatch.Validator, error) {
	req := &CheckRequest{Options: h.defaults()}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// Unknown fields and options are ignored.
	if err := json.NewDecoder(body).Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, badRequest("body", "required", "request body is required")
		}
		return nil, nil, badRequest("body", "json", "request body is not valid JSON: "+err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return nil, nil, err
	}

	src := req.Source
	var err error
	if src.Path, err = h.resolve(src.Path); err != nil {
		return nil, nil, err
	}
	if src.BoundaryPath, err = h.resolve(src.BoundaryPath); err != nil {
		return nil, nil, err
	}
	if src.AuxiliaryLinePath, err = h.resolve(src.AuxiliaryLinePath); err != nil {
		return nil, nil, err
	}

	if req.LineOverride != "" {
		path, err := h.resolve(req.LineOverride)
		if err != nil {
			return nil, nil, err
		}
		lines, err := h.cfg.Loader(path)
		if err != nil {
			metrics.RecordLoadError(err)
			return nil, nil, err
		}
		req.Options.LineCollectionOverride = lines
	}

	v, err := dispatch.NewWith(src, h.cfg.Loader)
	if err != nil {
		return nil, nil, err
	}
	return req, v, nil
}

// defaults copies the configured options. The decoder writes through
// non-nil pointers, so the *bool fields must not be shared.
func (h *Handler) defaults() validator.Options {
	opts := h.cfg.Defaults
	if b := opts.CheckWithinBoundaries; b != nil {
		opts.CheckWithinBoundaries = validator.Bool(*b)
	}
	if b := opts.CheckProximityToLines; b != nil {
		opts.CheckProximityToLines = validator.Bool(*b)
	}
	return opts
}

// resolve maps a request path into the data directory when one is set.
func (h *Handler) resolve(path string) (string, error) {
	if path == "" || h.cfg.DataDir == "" {
		return path, nil
	}
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%w: %q", errPathOutsideDataDir, path)
	}
	return filepath.Join(h.cfg.DataDir, path), nil
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, rep *reports.Report) {
	if err := h.store.Save(r.Context(), rep); err != nil {
		respondError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("report_id", rep.ID).
		Str("variant", rep.Variant).
		Str("mode", rep.Mode).
		Bool("valid", rep.Valid).
		Msg("report stored")
	respondOK(w, r, rep)
}
