package blockmcmc

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
	"go.opentelemetry.io/otel/attribute"
)

// Sweeper is a sampler bound to one model state and vertex list.
//
// Sweep runs niter sweeps and returns the aggregate. It mutates the bound
// state through MoveVertex only, and reorders the bound vertex list in
// place when sweeps are shuffled or deterministic.
type Sweeper interface {
	Sweep(ctx context.Context, rng *rand.Rand, opts ...RunOption) (Result, error)
}

// MulticanonicalSweeper is a Sweeper that also reports the final objective.
type MulticanonicalSweeper interface {
	Sweeper
	Run(ctx context.Context, rng *rand.Rand, opts ...RunOption) (MulticanonicalResult, error)
}

// schedule is the visiting order shared by every sampler.
type schedule struct {
	niter         int
	sequential    bool
	deterministic bool
}

func newSchedule(p ScheduleParams) schedule {
	return schedule{niter: p.NIter, sequential: p.Sequential, deterministic: p.Deterministic}
}

// visit calls fn once per slot of every sweep. Sequential sweeps visit each
// vertex once, shuffled unless deterministic; deterministic schedules reverse
// the list after each sweep. Non-sequential sweeps draw len(vlist) vertices
// uniformly with replacement.
func (s schedule) visit(vlist []int, rng *rand.Rand, fn func(v int)) {
	for range s.niter {
		if s.sequential && !s.deterministic {
			rng.Shuffle(len(vlist), func(i, j int) {
				vlist[i], vlist[j] = vlist[j], vlist[i]
			})
		}
		for i := range vlist {
			v := vlist[i]
			if !s.sequential {
				v = vlist[rng.IntN(len(vlist))]
			}
			fn(v)
		}
		if s.sequential && s.deterministic {
			reverse(vlist)
		}
	}
}

func reverse(vlist []int) {
	for i, j := 0, len(vlist)-1; i < j; i, j = i+1, j-1 {
		vlist[i], vlist[j] = vlist[j], vlist[i]
	}
}

// observe wraps one Sweep call with logging, metrics, and tracing. The
// returned logger is nil unless verbose move logs were requested.
func observe(ctx context.Context, rng *rand.Rand, algorithm string, niter int, verbose bool,
	opts []RunOption, body func(ctx context.Context, moveLog *slog.Logger) Result,
) (Result, error) {
	if ctx == nil {
		return Result{}, ErrNilContext
	}
	if rng == nil {
		return Result{}, ErrNilRNG
	}
	cfg := applyRunOptions(opts)
	logger := observability.EnrichLogger(cfg.logger, cfg.runID, algorithm, cfg.entry)

	ctx, span := cfg.spans.StartSweepSpan(ctx, algorithm, cfg.runID, niter)
	observability.LogSweepStart(logger, cfg.runID, algorithm, niter)
	start := time.Now()
	elapsed := observability.TimedOperation()

	var moveLog *slog.Logger
	if verbose {
		moveLog = logger
	}
	res := body(ctx, moveLog)

	observability.LogSweepComplete(logger, cfg.runID, res.DeltaS, res.Attempts, res.Moves, elapsed())
	cfg.spans.AddSpanEvent(ctx, "sweep.result",
		attribute.Float64("delta_s", res.DeltaS),
		attribute.Int("attempts", res.Attempts),
		attribute.Int("moves", res.Moves),
	)
	cfg.metrics.RecordSweep(ctx, algorithm, time.Since(start), res.Attempts, res.Moves, nil)
	cfg.spans.EndSpanWithError(span, nil)
	return res, nil
}
