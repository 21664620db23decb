// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/geocheck/internal/dispatch"
	"github.com/tomtom215/geocheck/internal/feature"
	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/metrics"
	"github.com/tomtom215/geocheck/internal/validation"
	"github.com/tomtom215/geocheck/internal/validator"
	"github.com/tomtom215/geocheck/internal/worker"
)

// checkFlags are shared by check, feature and sweep.
type checkFlags struct {
	variant      string
	boundary     string
	lines        string
	lineOverride string
	maxDistance  float64
	allowHoles   bool
	noBoundary   bool
	noProximity  bool
	jsonOutput   bool
}

func (f *checkFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.variant, "variant", "", "validator variant (see 'geocheck variants')")
	fl.StringVar(&f.boundary, "boundary", "", "boundary reference dataset")
	fl.StringVar(&f.lines, "lines", "", "auxiliary line dataset (point_topology)")
	fl.StringVar(&f.lineOverride, "line-override", "", "line dataset for point_data proximity")
	fl.Float64Var(&f.maxDistance, "max-distance", 0, "maximum point-to-line distance")
	fl.BoolVar(&f.allowHoles, "allow-holes", false, "permit polygons with interior rings")
	fl.BoolVar(&f.noBoundary, "no-boundary-check", false, "disable boundary containment")
	fl.BoolVar(&f.noProximity, "no-proximity-check", false, "disable point-to-line proximity")
	fl.BoolVar(&f.jsonOutput, "json", false, "print JSON instead of text")
}

// options merges config defaults with explicitly set flags.
func (f *checkFlags) options(cmd *cobra.Command, a *app) (validator.Options, error) {
	opts := a.cfg.Options()
	if cmd.Flags().Changed("max-distance") {
		opts.MaxDistance = f.maxDistance
	}
	if cmd.Flags().Changed("allow-holes") {
		opts.AllowHoles = f.allowHoles
	}
	if f.noBoundary {
		opts.CheckWithinBoundaries = validator.Bool(false)
	}
	if f.noProximity {
		opts.CheckProximityToLines = validator.Bool(false)
	}
	if err := validation.Struct(&opts); err != nil {
		return validator.Options{}, err
	}
	if f.lineOverride != "" {
		lines, err := feature.Load(f.lineOverride)
		if err != nil {
			metrics.RecordLoadError(err)
			return validator.Options{}, err
		}
		opts.LineCollectionOverride = lines
	}
	return opts, nil
}

func (f *checkFlags) open(a *app, dataset string) (*dispatch.Validator, error) {
	variant := f.variant
	if variant == "" {
		variant = a.cfg.Check.Variant
	}
	if variant == "" {
		return nil, fmt.Errorf("--variant is required (one of %s)", strings.Join(dispatch.Keys(), ", "))
	}
	return dispatch.New(dispatch.Source{
		Path:              dataset,
		Variant:           variant,
		BoundaryPath:      f.boundary,
		AuxiliaryLinePath: f.lines,
	})
}

func (a *app) checkCommand() *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <dataset>",
		Short: "Check a whole dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, a)
			if err != nil {
				return err
			}
			v, err := f.open(a, args[0])
			if err != nil {
				return err
			}
			ctx := logging.ContextWithRunID(cmd.Context(), logging.NewRunID())
			res, err := v.Inspect(ctx, opts)
			if err != nil {
				return err
			}
			return a.printResult(f.jsonOutput, v, nil, res)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) featureCommand() *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "feature <dataset> <index>",
		Short: "Check one feature against the rest of its dataset (topology variants)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("index %q is not an integer", args[1])
			}
			opts, err := f.options(cmd, a)
			if err != nil {
				return err
			}
			v, err := f.open(a, args[0])
			if err != nil {
				return err
			}
			ctx := logging.ContextWithRunID(cmd.Context(), logging.NewRunID())
			res, err := v.InspectFeature(ctx, index, opts)
			if err != nil {
				return err
			}
			return a.printResult(f.jsonOutput, v, &index, res)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) sweepCommand() *cobra.Command {
	f := &checkFlags{}
	var workers int
	cmd := &cobra.Command{
		Use:   "sweep <dataset>",
		Short: "Run the single-feature check on every feature (topology variants)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, a)
			if err != nil {
				return err
			}
			v, err := f.open(a, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Check.Workers
			}
			pool := worker.NewPool(worker.Config{MaxWorkers: workers})
			defer pool.Close()

			ctx := logging.ContextWithRunID(cmd.Context(), logging.NewRunID())
			report, err := v.Sweep(ctx, pool, opts)
			if err != nil {
				return err
			}
			return a.printSweep(f.jsonOutput, v, report)
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent feature checks (default: number of CPUs)")
	return cmd
}

type resultOutput struct {
	Dataset string `json:"dataset"`
	Variant string `json:"variant"`
	Index   *int   `json:"index,omitempty"`
	validator.Result
}

func (a *app) printResult(asJSON bool, v *dispatch.Validator, index *int, res validator.Result) error {
	if asJSON {
		if err := writeJSON(a.stdout, resultOutput{
			Dataset: v.Dataset(),
			Variant: v.Variant().String(),
			Index:   index,
			Result:  res,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.stdout, "dataset: %s\nvariant: %s\n", v.Dataset(), v.Variant())
		if index != nil {
			fmt.Fprintf(a.stdout, "feature: %d\n", *index)
		}
		fmt.Fprintf(a.stdout, "result:  %s\n", verdict(res.Valid))
		for _, p := range res.Predicates {
			writePredicate(a.stdout, p)
		}
	}
	if !res.Valid {
		return errInvalid
	}
	return nil
}

func (a *app) printSweep(asJSON bool, v *dispatch.Validator, report dispatch.SweepReport) error {
	if asJSON {
		out := struct {
			Dataset string `json:"dataset"`
			Valid   bool   `json:"valid"`
			dispatch.SweepReport
		}{v.Dataset(), report.Valid(), report}
		if err := writeJSON(a.stdout, out); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.stdout, "dataset: %s\nvariant: %s\n", v.Dataset(), v.Variant())
		fmt.Fprintf(a.stdout, "result:  %s (%d of %d features failing)\n", verdict(report.Valid()), len(report.Failing), report.Total)
		for _, i := range report.Failing {
			names := make([]string, len(report.Predicates[i]))
			for j, p := range report.Predicates[i] {
				names[j] = string(p)
			}
			fmt.Fprintf(a.stdout, "  %d: %s\n", i, strings.Join(names, ", "))
		}
	}
	if !report.Valid() {
		return errInvalid
	}
	return nil
}

func verdict(valid bool) string {
	if valid {
		return "VALID"
	}
	return "INVALID"
}

func writePredicate(w io.Writer, p validator.PredicateResult) {
	status := "PASS"
	switch {
	case p.Skipped:
		status = "SKIP"
	case !p.Passed:
		status = "FAIL"
	}
	fmt.Fprintf(w, "  %s %s", status, p.Name)
	if len(p.Offenders) > 0 {
		fmt.Fprintf(w, " %v", p.Offenders)
	}
	fmt.Fprintln(w)
	for _, d := range p.Details {
		fmt.Fprintf(w, "       %s\n", d)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
