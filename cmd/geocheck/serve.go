// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocheck/internal/api"
	"github.com/tomtom215/geocheck/internal/cache"
	"github.com/tomtom215/geocheck/internal/config"
	"github.com/tomtom215/geocheck/internal/dispatch"
	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/reports"
	"github.com/tomtom215/geocheck/internal/supervisor"
	"github.com/tomtom215/geocheck/internal/worker"
)

// Build information, set with -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// server is the assembled HTTP service.
type server struct {
	tree  *supervisor.Tree
	http  *http.Server
	store *reports.Store
	pool  *worker.Pool
}

func newServer(cfg *config.Config) (*server, error) {
	store, err := reports.Open(reports.Config{Path: cfg.Reports.Path, TTL: cfg.Reports.TTL})
	if err != nil {
		return nil, err
	}
	pool := worker.NewPool(worker.Config{MaxWorkers: cfg.Check.Workers})

	hcfg := api.HandlerConfig{
		Defaults: cfg.Options(),
		DataDir:  cfg.Server.DataDir,
	}
	var datasets *cache.Collections
	if cfg.Cache.Size > 0 {
		datasets = cache.NewCollections(cfg.Cache.Size, cfg.Cache.TTL)
		hcfg.Loader = datasets.Load
	}
	handler := api.NewHandler(pool, store, hcfg)
	httpServer := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: api.NewRouter(handler, api.RouterConfig{
			CORSOrigins:       cfg.Security.CORSOrigins,
			RateLimitRequests: cfg.Security.RateLimitRequests,
			RateLimitWindow:   cfg.Security.RateLimitWindow,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddDataService(store)
	if datasets != nil {
		tree.AddDataService(datasets)
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(httpServer, 10*time.Second))

	return &server{tree: tree, http: httpServer, store: store, pool: pool}, nil
}

// run serves until ctx is cancelled, then releases the pool and store.
func (s *server) run(ctx context.Context) error {
	logging.Info().Str("addr", s.http.Addr).Str("version", Version).Msg("Starting supervisor tree...")

	err := s.tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Err(err).Msg("Supervisor tree error")
	} else {
		err = nil
	}

	if unstopped, _ := s.tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	s.pool.Close()
	if cerr := s.store.Close(); cerr != nil {
		logging.Warn().Err(cerr).Msg("report store close failed")
	}
	logging.Info().Msg("Application stopped gracefully")
	return err
}

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newServer(a.cfg)
			if err != nil {
				return err
			}
			return s.run(cmd.Context())
		},
	}
}

func (a *app) variantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List validator variants",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, v := range dispatch.Variants() {
				single := ""
				if v.SupportsFeatureChecks() {
					single = "  (single-feature checks)"
				}
				fmt.Fprintf(a.stdout, "%-17s %s%s\n", v, v.Family(), single)
			}
		},
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "geocheck %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git Commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build Date: %s\n", BuildDate)
			fmt.Fprintf(a.stdout, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
