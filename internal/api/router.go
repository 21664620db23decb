// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package api exposes geocheck over HTTP using the Chi router.
//
// Routes:
//
//	GET  /api/v1/health           liveness
//	GET  /api/v1/variants         the six validator keys
//	POST /api/v1/checks           whole-dataset check
//	POST /api/v1/checks/{index}   single-feature check (topology variants)
//	POST /api/v1/sweeps           single-feature check of every feature
//	GET  /api/v1/reports          stored run reports, newest first
//	GET  /api/v1/reports/{id}     one stored report
//	GET  /metrics                 Prometheus exposition
//
// Checks run on the shared worker pool and every completed run is stored
// as a report.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the cross-cutting HTTP settings.
type RouterConfig struct {
	CORSOrigins []string

	// RateLimitRequests per RateLimitWindow per client IP. Zero disables
	// rate limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the HTTP handler tree around h.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))
		if cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		r.Get("/health", h.Health)
		r.Get("/variants", h.Variants)

		r.Post("/checks", h.Check)
		r.Post("/checks/{index}", h.CheckFeature)
		r.Post("/sweeps", h.Sweep)

		r.Get("/reports", h.ListReports)
		r.Get("/reports/{id}", h.GetReport)
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}
