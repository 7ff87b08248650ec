package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/graph"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/blockmodel"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/checkpoint"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/inference"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/marginals"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
)

// driver runs rounds of one sampler over a block-model state built from a
// run file, checkpointing after every round.
type driver struct {
	cfg     runConfig
	bundle  config.Bundle
	dir     string
	store   checkpoint.Store
	chainID string
	resume  bool
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// summary describes the chain after the last round.
type summary struct {
	ChainID   string
	Algorithm string
	Round     int
	Entropy   float64
	Groups    int
	Totals    blockmcmc.Result
	Partition []int64

	// Multicanonical runs only.
	F         float64
	Converged bool

	// Distinct groups of the max-marginal partition, when marginals are on.
	MarginalGroups int
}

func newDriver(b config.Bundle, dir string) (*driver, error) {
	cfg, err := decodeRunConfig(b)
	if err != nil {
		return nil, fmt.Errorf("run file: %w", err)
	}
	return &driver{
		cfg:     cfg,
		bundle:  b,
		dir:     dir,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}, nil
}

func (d *driver) run(ctx context.Context) (summary, error) {
	if d.resume && d.store == nil {
		return summary{}, fmt.Errorf("resume needs a checkpoint store")
	}
	switch d.cfg.Labels {
	case labelsInt32:
		return drive[int32](ctx, d)
	default:
		return drive[int64](ctx, d)
	}
}

func drive[L blockmcmc.Label](ctx context.Context, d *driver) (summary, error) {
	rng := rand.New(rand.NewPCG(d.cfg.Seed, d.cfg.Seed+1))

	g, err := loadGraph[L](d.cfg.Graph, d.cfg.Groups, d.dir, rng)
	if err != nil {
		return summary{}, err
	}
	b := blockmodel.InitialPartition[L](g, d.cfg.Groups, rng)

	var (
		start  int
		totals blockmcmc.Result
		mc     *checkpoint.Multicanonical
	)
	if d.resume {
		snap, err := checkpoint.Resume(d.store, d.chainID)
		if err != nil {
			observability.LogCheckpointError(d.logger, d.chainID, "load", err)
			return summary{}, fmt.Errorf("resume %s: %w", d.chainID, err)
		}
		if snap.Algorithm != d.cfg.Algorithm {
			return summary{}, fmt.Errorf("resume %s: checkpoint was written by %q, run file asks for %q",
				d.chainID, snap.Algorithm, d.cfg.Algorithm)
		}
		b = fromInt64[L](snap.Partition)
		start = snap.Round
		totals = blockmcmc.Result{DeltaS: snap.DeltaS, Attempts: snap.Attempts, Moves: snap.Moves}
		mc = snap.Multicanonical
		d.logger.Info("resuming chain", "chain_id", d.chainID, "round", start)
	}

	st, err := blockmodel.New(g, b, d.cfg.Groups)
	if err != nil {
		return summary{}, fmt.Errorf("build state: %w", err)
	}

	var ep blockmcmc.EntropyParams
	if err := config.Decode(d.bundle, &ep); err != nil {
		return summary{}, err
	}
	args := ep.Args()

	if d.cfg.Algorithm == inference.AlgorithmMulticanonical {
		if mc == nil {
			mc = newHistogram(st.Entropy(args), d.cfg.WangLandau)
		}
		mc.S = st.Entropy(args)
	}

	base := d.bundle
	if d.cfg.Algorithm == inference.AlgorithmGibbs && !base.Has("block_list") {
		base = base.With("block_list", allGroups[L](d.cfg.Groups))
	}

	vlist := st.Vertices()
	var vhist [][]int
	round := start
	converged := false
	for round < start+d.cfg.Rounds && !converged {
		round++
		runID := fmt.Sprintf("%s/%d", d.chainID, round)
		opts := []blockmcmc.RunOption{
			blockmcmc.WithLogger(d.logger),
			blockmcmc.WithMetrics(d.metrics),
			blockmcmc.WithTracing(d.spans),
			blockmcmc.WithRunID(runID),
		}
		rb := base.With(inference.FieldState, st).With(inference.FieldVList, vlist)

		var res blockmcmc.Result
		if mc != nil {
			rb = rb.With("hist", mc.Hist).With("dens", mc.Dens).
				With("S_min", mc.SMin).With("S_max", mc.SMax).
				With("f", mc.F).With("S", mc.S)
			mres, err := inference.RunMulticanonical(ctx, rb, rng, opts...)
			if err != nil {
				observability.LogSweepError(d.logger, runID, err)
				return summary{}, err
			}
			res, mc.S = mres.Result, mres.S
			converged = d.refine(mc, runID)
		} else {
			res, err = inference.Run(ctx, rb, rng, opts...)
			if err != nil {
				observability.LogSweepError(d.logger, runID, err)
				return summary{}, err
			}
		}
		totals.DeltaS += res.DeltaS
		totals.Attempts += res.Attempts
		totals.Moves += res.Moves

		if d.cfg.Marginals {
			if vhist, err = inference.VertexMarginals(rb, vhist); err != nil {
				return summary{}, err
			}
		}

		if d.store != nil {
			snap := checkpoint.New(d.chainID, round, d.cfg.Algorithm, toInt64(st.Labels())).
				WithTotals(totals.DeltaS, totals.Attempts, totals.Moves).
				WithMulticanonical(mc)
			if err := d.save(ctx, runID, snap); err != nil {
				return summary{}, err
			}
		}
	}

	sum := summary{
		ChainID:   d.chainID,
		Algorithm: d.cfg.Algorithm,
		Round:     round,
		Entropy:   st.Entropy(args),
		Groups:    st.NonEmptyGroups(),
		Totals:    totals,
		Partition: toInt64(st.Labels()),
		Converged: converged,
	}
	if mc != nil {
		sum.F = mc.F
	}
	if vhist != nil {
		mm := marginals.MaxMarginal[L](vhist)
		sum.MarginalGroups = marginals.ContinuousMap(mm)
	}
	return sum, nil
}

// refine applies the Wang-Landau schedule after a round: once the histogram
// is flat, f is halved and the histogram cleared. It reports whether f has
// dropped below f_min.
func (d *driver) refine(mc *checkpoint.Multicanonical, runID string) bool {
	wl := d.cfg.WangLandau
	flatness := blockmcmc.Flatness(mc.Hist)
	if flatness < wl.Flatness {
		return false
	}
	mc.F /= 2
	clear(mc.Hist)
	d.logger.Info("histogram flat",
		"run_id", runID,
		"flatness", flatness,
		"f", mc.F,
	)
	return mc.F < wl.FMin
}

func (d *driver) save(ctx context.Context, key string, snap *checkpoint.Snapshot) error {
	size, attempts, err := checkpoint.PutWithRetry(ctx, d.store, snap, checkpoint.DefaultRetry)
	if err != nil {
		observability.LogCheckpointError(d.logger, key, "save", err)
		return fmt.Errorf("checkpoint %s after %d attempts: %w", key, attempts, err)
	}
	observability.LogCheckpoint(d.logger, key, size)
	d.metrics.RecordCheckpoint(ctx, key, int64(size))
	return nil
}

// loadGraph reads the edge list named by gs, relative to dir, or generates
// a planted partition with the given number of groups.
func loadGraph[L blockmcmc.Label](gs graphConfig, groups int, dir string, rng *rand.Rand) (graph.Undirected, error) {
	if gs.Edges == "" {
		g, _ := blockmodel.PlantedPartition[L](gs.N, groups, gs.PIn, gs.POut, rng)
		return g, nil
	}
	path := gs.Edges
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	defer f.Close()
	g, err := blockmodel.ReadEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("read edge list %s: %w", path, err)
	}
	return g, nil
}

// newHistogram sets up an empty energy histogram around s0.
func newHistogram(s0 float64, wl wangLandauConfig) *checkpoint.Multicanonical {
	lo, hi := wl.SMin, wl.SMax
	if !(hi > lo) {
		width := wl.Width
		if width <= 0 {
			width = max(10, 0.1*math.Abs(s0))
		}
		lo, hi = s0-width, s0+width
	}
	return &checkpoint.Multicanonical{
		Hist: make([]int, wl.Bins),
		Dens: make([]float64, wl.Bins),
		SMin: lo,
		SMax: hi,
		F:    wl.F,
		S:    s0,
	}
}

func allGroups[L blockmcmc.Label](n int) []L {
	gs := make([]L, n)
	for i := range gs {
		gs[i] = L(i)
	}
	return gs
}

func toInt64[L blockmcmc.Label](b []L) []int64 {
	out := make([]int64, len(b))
	for i, r := range b {
		out[i] = int64(r)
	}
	return out
}

func fromInt64[L blockmcmc.Label](b []int64) []L {
	out := make([]L, len(b))
	for i, r := range b {
		out[i] = L(r)
	}
	return out
}

func printSummary(w io.Writer, s summary) {
	fmt.Fprintf(w, "chain      %s\n", s.ChainID)
	fmt.Fprintf(w, "algorithm  %s\n", s.Algorithm)
	fmt.Fprintf(w, "round      %d\n", s.Round)
	fmt.Fprintf(w, "entropy    %.6f\n", s.Entropy)
	fmt.Fprintf(w, "groups     %d\n", s.Groups)
	fmt.Fprintf(w, "delta_S    %.6f\n", s.Totals.DeltaS)
	fmt.Fprintf(w, "attempts   %d\n", s.Totals.Attempts)
	fmt.Fprintf(w, "moves      %d\n", s.Totals.Moves)
	if s.Algorithm == inference.AlgorithmMulticanonical {
		fmt.Fprintf(w, "f          %g (converged: %t)\n", s.F, s.Converged)
	}
	if s.MarginalGroups > 0 {
		fmt.Fprintf(w, "marginal   %d groups\n", s.MarginalGroups)
	}
}
