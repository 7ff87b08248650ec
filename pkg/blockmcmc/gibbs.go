package blockmcmc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
	"gonum.org/v1/gonum/floats"
)

// Gibbs is the single-site Gibbs sampler bound to a model state. For each
// visited vertex it evaluates every allowed candidate group and draws the
// next label from the full conditional exp(-beta*dS).
type Gibbs[L Label, S BlockState[L]] struct {
	state  S
	vlist  []int
	params GibbsParams[L]
	ea     EntropyArgs

	// scratch buffers reused across visits
	cands []L
	dS    []float64
	logw  []float64
}

// NewGibbs validates p and binds the sampler to state and vlist.
func NewGibbs[L Label, S BlockState[L]](state S, vlist []int, p GibbsParams[L]) (*Gibbs[L, S], error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("gibbs: %w", err)
	}
	return &Gibbs[L, S]{state: state, vlist: vlist, params: p, ea: p.Args()}, nil
}

// Params returns the sampler configuration.
func (g *Gibbs[L, S]) Params() GibbsParams[L] { return g.params }

// SkipNode reports whether v is excluded from this sweep.
func (g *Gibbs[L, S]) SkipNode(v int) bool {
	return g.state.Frozen(v) || (!g.params.AllowEmpty && g.state.IsLast(v))
}

// Candidates returns the groups v may take: its current group first,
// followed by block_list in order, without duplicates and restricted to
// groups with the same constraint label.
func (g *Gibbs[L, S]) Candidates(v int) []L {
	r := g.state.NodeState(v)
	g.cands = append(g.cands[:0], r)
	for _, s := range g.params.BlockList {
		if s == r || !g.state.SameConstraint(r, s) || slices.Contains(g.cands, s) {
			continue
		}
		g.cands = append(g.cands, s)
	}
	return g.cands
}

// Sweep runs niter Gibbs sweeps. Every drawn outcome is applied; drawing
// the current label leaves the state unchanged.
func (g *Gibbs[L, S]) Sweep(ctx context.Context, rng *rand.Rand, opts ...RunOption) (Result, error) {
	return observe(ctx, rng, "gibbs", g.params.NIter, g.params.Verbose, opts,
		func(_ context.Context, moveLog *slog.Logger) Result {
			return g.sweep(rng, moveLog)
		})
}

func (g *Gibbs[L, S]) sweep(rng *rand.Rand, moveLog *slog.Logger) Result {
	var res Result
	beta := g.params.Beta
	newSchedule(g.params.ScheduleParams).visit(g.vlist, rng, func(v int) {
		if g.SkipNode(v) {
			return
		}
		cands := g.Candidates(v)
		g.dS = g.dS[:0]
		for _, s := range cands {
			if s == cands[0] {
				g.dS = append(g.dS, 0)
				continue
			}
			g.dS = append(g.dS, g.state.VirtualMove(v, s, g.ea))
		}

		k := g.draw(beta, rng)
		w := g.state.NodeWeight(v)
		res.attempt(w)
		r, s := cands[0], cands[k]
		if k != 0 {
			g.state.MoveVertex(v, s)
			res.commit(w, g.dS[k])
		}
		if moveLog != nil {
			observability.LogMove(moveLog, v, int64(r), int64(s), k != 0, g.dS[k], 0, -g.dS[k]*beta, res.DeltaS)
		}
	})
	return res
}

// draw samples an index into g.dS from the Gibbs distribution. At
// beta = +Inf it returns the first index with the smallest delta.
func (g *Gibbs[L, S]) draw(beta float64, rng *rand.Rand) int {
	if math.IsInf(beta, 1) {
		best := 0
		for i, d := range g.dS {
			if d < g.dS[best] {
				best = i
			}
		}
		return best
	}

	g.logw = g.logw[:0]
	for _, d := range g.dS {
		g.logw = append(g.logw, logWeight(d, beta))
	}
	lse := floats.LogSumExp(g.logw)
	if math.IsInf(lse, -1) || math.IsNaN(lse) {
		return 0
	}
	u := rng.Float64()
	acc := 0.0
	last := 0
	for i, lw := range g.logw {
		if math.IsInf(lw, -1) {
			continue
		}
		acc += math.Exp(lw - lse)
		last = i
		if u < acc {
			return i
		}
	}
	return last
}

// logWeight is -beta*dS, except that an infinite dS always gets zero
// weight and beta = 0 weighs every finite dS equally.
func logWeight(dS, beta float64) float64 {
	if math.IsInf(dS, 1) {
		return math.Inf(-1)
	}
	if beta == 0 {
		return 0
	}
	return -beta * dS
}
