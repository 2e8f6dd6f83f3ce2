package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tetimprove"
	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/improve"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/metrics"
)

type flags struct {
	configPath string
	lattice    string
	cells      int
	spacing    float64
	jitter     float64
	seed       int64
	sizing     bool
	target     float64
	logLevel   string
	metricsOut string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "tetimprove",
		Short:        "Improve the quality of a tetrahedral lattice",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "options file (.json, .yaml or .yml); defaults when empty")
	fl.StringVar(&f.lattice, "lattice", "kuhn", "lattice kind: kuhn or five")
	fl.IntVar(&f.cells, "cells", 3, "cubes per axis")
	fl.Float64Var(&f.spacing, "spacing", 1, "cube edge length")
	fl.Float64Var(&f.jitter, "jitter", 0.3, "interior point displacement as a fraction of the spacing")
	fl.Int64Var(&f.seed, "seed", 1, "random seed for jitter")
	fl.BoolVar(&f.sizing, "sizing", false, "run size control after improvement")
	fl.Float64Var(&f.target, "target", 0, "target edge length; the median when 0")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fl.StringVar(&f.metricsOut, "metrics-out", "", "write Prometheus metrics to this text file")
	fl.DurationVar(&f.timeout, "timeout", 0, "stop the run after this long; no limit when 0")
	return cmd
}

func run(ctx context.Context, f flags, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level, err := parseLevel(f.logLevel)
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := config.Default()
	if f.configPath != "" {
		if opts, err = config.Load(f.configPath); err != nil {
			return err
		}
	}
	if f.sizing {
		opts.Sizing = true
	}
	if f.target > 0 {
		opts.TargetEdgeLength = f.target
	}

	m, err := buildLattice(f)
	if err != nil {
		return err
	}
	log.Info("mesh built", "lattice", f.lattice, "cells", f.cells,
		"vertices", m.NumVertices(), "tets", m.NumTets())

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	out, runErr := tetimprove.Run(ctx, m, opts,
		improve.WithLogger(log), improve.WithProgress(rec.Observe))
	printSummary(stdout, out)

	if f.metricsOut != "" {
		if err := prometheus.WriteToTextfile(f.metricsOut, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return runErr
}

func buildLattice(f flags) (*mesh.Mesh, error) {
	var lattice builder.Constructor
	switch f.lattice {
	case "kuhn":
		lattice = builder.KuhnLattice(f.cells, f.cells, f.cells)
	case "five":
		lattice = builder.FiveTetLattice(f.cells, f.cells, f.cells)
	default:
		return nil, fmt.Errorf("unknown lattice %q", f.lattice)
	}
	cons := []builder.Constructor{lattice}
	if f.jitter > 0 {
		cons = append(cons, builder.Jitter(f.jitter))
	}
	return builder.BuildMesh([]builder.BuilderOption{
		builder.WithSeed(f.seed),
		builder.WithSpacing(f.spacing),
	}, cons...)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func printSummary(w io.Writer, out tetimprove.Outcome) {
	res := out.Improve
	if out.Reimprove != nil {
		res = *out.Reimprove
	}
	fmt.Fprintf(w, "session   %s\n", out.SessionID)
	fmt.Fprintf(w, "stop      %s after %d rounds\n", out.Improve.Reason, out.Improve.Rounds)
	fmt.Fprintf(w, "quality   %.4f -> %.4f\n", out.Improve.Initial.Min, res.Final.Min)
	fmt.Fprintf(w, "angles    %.2f .. %.2f\n", res.Extremes.Min, res.Extremes.Max)
	if out.Sizing != nil {
		sz := out.Sizing
		fmt.Fprintf(w, "sizing    target %.4f, %d iterations, %d contracted, %d split, %.1f%% out of bounds\n",
			sz.Target, sz.Iterations, sz.Contracted, sz.Split, 100*sz.OutOfBounds)
	}
	st := out.Stats
	fmt.Fprintf(w, "operators smooth %d/%d, flip23 %d/%d, flip32 %d/%d, contract %d/%d, insert %d\n",
		st.Smooth.Successes, st.Smooth.Attempts,
		st.Flip23.Successes, st.Flip23.Attempts,
		st.Flip32.Successes, st.Flip32.Attempts,
		st.Contract.Successes, st.Contract.Attempts,
		st.InsertBody.Successes+st.InsertFacet.Successes+st.InsertSegment.Successes)
}
