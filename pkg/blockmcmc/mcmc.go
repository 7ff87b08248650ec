package blockmcmc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
)

// mover is the per-vertex protocol the Metropolis sweeps drive. Sweep
// functions are generic over it so the hot loop is instantiated per
// sampler rather than called through an interface.
type mover[L Label] interface {
	NodeState(v int) L
	MoveProposal(v int, rng *rand.Rand) L
	VirtualMoveDS(v int, nr L) (dS, mP float64)
	PerformMove(v int, nr L)
	NodeWeight(v int) int
	SkipNode(v int) bool
}

// MCMC is the Metropolis-Hastings sampler bound to a model state.
type MCMC[L Label, S BlockState[L]] struct {
	state  S
	vlist  []int
	params MCMCParams[L]
	ea     EntropyArgs
}

// NewMCMC validates p, prepares the state's proposal caches, and binds the
// sampler to state and vlist. vlist is reordered in place by Sweep.
func NewMCMC[L Label, S BlockState[L]](state S, vlist []int, p MCMCParams[L]) (*MCMC[L, S], error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("mcmc: %w", err)
	}
	state.InitMCMC(p.C, p.dl())
	return &MCMC[L, S]{state: state, vlist: vlist, params: p, ea: p.Args()}, nil
}

// Params returns the sampler configuration.
func (m *MCMC[L, S]) Params() MCMCParams[L] { return m.params }

// NodeState returns the current label of v.
func (m *MCMC[L, S]) NodeState(v int) L { return m.state.NodeState(v) }

// NodeWeight returns the weight of v.
func (m *MCMC[L, S]) NodeWeight(v int) int { return m.state.NodeWeight(v) }

// SkipNode reports whether v is excluded from this sweep: it is frozen, or
// it is the last member of its group and groups may not be emptied.
func (m *MCMC[L, S]) SkipNode(v int) bool {
	return m.state.Frozen(v) || (!m.params.AllowEmpty && m.state.IsLast(v))
}

// MoveProposal draws a candidate label for v. It returns v's own label
// when moving v would empty its group under allow_empty=false, or when the
// sampled group carries a different constraint label.
func (m *MCMC[L, S]) MoveProposal(v int, rng *rand.Rand) L {
	r := m.state.NodeState(v)
	if !m.params.AllowEmpty && m.state.IsLast(v) {
		return r
	}
	s := m.state.SampleMove(v, m.params.C, m.params.BlockList, rng)
	if s == NullMove[L]() {
		return s
	}
	if !m.state.SameConstraint(r, s) {
		return r
	}
	return s
}

// VirtualMoveDS returns the objective delta of moving v to nr and the
// log proposal ratio log p(back) - log p(forward). The ratio is zero when
// c is infinite, where proposals are uniform.
func (m *MCMC[L, S]) VirtualMoveDS(v int, nr L) (dS, mP float64) {
	r := m.state.NodeState(v)
	if nr == r {
		return 0, 0
	}
	dS = m.state.VirtualMove(v, nr, m.ea)
	if !math.IsInf(m.params.C, 1) {
		pf := m.state.MoveProb(v, r, nr, m.params.C, false)
		pb := m.state.MoveProb(v, nr, r, m.params.C, true)
		mP = math.Log(pb) - math.Log(pf)
	}
	return dS, mP
}

// PerformMove moves v to nr.
func (m *MCMC[L, S]) PerformMove(v int, nr L) { m.state.MoveVertex(v, nr) }

// Sweep runs niter Metropolis-Hastings sweeps, sequentially or with the
// two-phase parallel protocol depending on the parallel flag.
func (m *MCMC[L, S]) Sweep(ctx context.Context, rng *rand.Rand, opts ...RunOption) (Result, error) {
	return observe(ctx, rng, "mcmc", m.params.NIter, m.params.Verbose, opts,
		func(_ context.Context, moveLog *slog.Logger) Result {
			if m.params.Parallel {
				return mcmcSweepParallel[L](m, m.vlist, m.params.Beta, newSchedule(m.params.ScheduleParams),
					m.params.workers(), rng, moveLog)
			}
			return mcmcSweep[L](m, m.vlist, m.params.Beta, newSchedule(m.params.ScheduleParams), rng, moveLog)
		})
}

// mcmcSweep is the sequential sweep. Accepted moves are applied at once
// and are visible to every later visit.
func mcmcSweep[L Label, M mover[L]](m M, vlist []int, beta float64, sched schedule,
	rng *rand.Rand, moveLog *slog.Logger,
) Result {
	var res Result
	sched.visit(vlist, rng, func(v int) {
		if m.SkipNode(v) {
			return
		}
		r := m.NodeState(v)
		s := m.MoveProposal(v, rng)
		if s == NullMove[L]() {
			return
		}
		w := m.NodeWeight(v)
		res.attempt(w)
		if s == r {
			return
		}

		dS, mP := m.VirtualMoveDS(v, s)
		accept := MetropolisAccept(dS, mP, beta, rng)
		if accept {
			m.PerformMove(v, s)
			res.commit(w, dS)
		}
		if moveLog != nil {
			observability.LogMove(moveLog, v, int64(r), int64(s), accept, dS, mP, -dS*beta+mP, res.DeltaS)
		}
	})
	return res
}
