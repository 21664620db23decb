// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocheck/internal/config"
	"github.com/tomtom215/geocheck/internal/logging"
)

// Exit codes.
const (
	exitValid   = 0
	exitInvalid = 1
	exitError   = 2
)

// errInvalid signals a completed check that found problems. It is not
// printed.
var errInvalid = errors.New("validation failed")

// app carries state shared by the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	stdout     io.Writer
	stderr     io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitValid
	case errors.Is(err, errInvalid):
		return exitInvalid
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "geocheck",
		Short: "Geometric data-quality validation for point, line and polygon datasets",
		Long: `geocheck checks geometric datasets against data-quality rules.

Validator variants:
  point_data        validity, duplicates, boundary containment
  line_data         validity, boundary containment, dangling nodes
  polygon_data      validity, containment, overlaps, gaps, holes
  point_topology    point_data plus proximity to lines, single-feature checks
  line_topology     line_data plus unnecessary intersections, single-feature checks
  polygon_topology  polygon_data with single-feature checks`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: $CONFIG_PATH or ./geocheck.yaml)")

	root.AddCommand(
		a.checkCommand(),
		a.featureCommand(),
		a.sweepCommand(),
		a.serveCommand(),
		a.variantsCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.Init(cfg.LoggingOptionsTo(a.stderr))
	return nil
}
