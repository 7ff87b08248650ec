package blockmcmc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Multicanonical is the flat-histogram sampler bound to a model state.
//
// It walks the same proposals as MCMC but replaces the Boltzmann factor by
// the ratio of density-of-states estimates between the current and target
// energy bins. Each visited vertex first credits the current bin with one
// histogram count and f added to its log density, whether or not the
// following move is accepted.
type Multicanonical[L Label, S BlockState[L]] struct {
	state  S
	vlist  []int
	params MulticanonicalParams[L]
	ea     EntropyArgs
	s      float64
}

// NewMulticanonical validates p and binds the sampler to state and vlist.
// p.Hist and p.Dens are updated in place by every Run.
func NewMulticanonical[L Label, S BlockState[L]](state S, vlist []int, p MulticanonicalParams[L]) (*Multicanonical[L, S], error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("multicanonical: %w", err)
	}
	state.InitMCMC(p.C, p.dl())
	return &Multicanonical[L, S]{state: state, vlist: vlist, params: p, ea: p.Args(), s: p.S}, nil
}

// Params returns the sampler configuration.
func (m *Multicanonical[L, S]) Params() MulticanonicalParams[L] { return m.params }

// Energy returns the current objective value tracked by the sampler.
func (m *Multicanonical[L, S]) Energy() float64 { return m.s }

// NodeState returns the current label of v.
func (m *Multicanonical[L, S]) NodeState(v int) L { return m.state.NodeState(v) }

// NodeWeight returns the weight of v.
func (m *Multicanonical[L, S]) NodeWeight(v int) int { return m.state.NodeWeight(v) }

// SkipNode reports whether v is excluded from this sweep. Only frozen
// vertices are skipped; a vertex that may not leave its group is still
// visited, so the current bin is credited and MoveProposal keeps it in place.
func (m *Multicanonical[L, S]) SkipNode(v int) bool {
	return m.state.Frozen(v)
}

// MoveProposal draws a candidate label for v. The constraint label is
// checked first; then a move that would leave v's group with zero weight
// under allow_empty=false falls back to v's own label.
func (m *Multicanonical[L, S]) MoveProposal(v int, rng *rand.Rand) L {
	r := m.state.NodeState(v)
	s := m.state.SampleMove(v, m.params.C, m.params.BlockList, rng)
	if s == NullMove[L]() {
		return s
	}
	if !m.state.SameConstraint(r, s) {
		return r
	}
	if !m.params.AllowEmpty && m.state.WouldEmptyGroup(v) {
		return r
	}
	return s
}

// VirtualMoveDS returns the objective delta and log proposal ratio of
// moving v to nr.
func (m *Multicanonical[L, S]) VirtualMoveDS(v int, nr L) (dS, mP float64) {
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
func (m *Multicanonical[L, S]) PerformMove(v int, nr L) { m.state.MoveVertex(v, nr) }

// Bin returns the histogram bin of energy e and whether e lies within
// [S_min, S_max]. Out-of-range energies map to the nearest boundary bin.
func (m *Multicanonical[L, S]) Bin(e float64) (int, bool) {
	return energyBin(e, m.params.SMin, m.params.SMax, len(m.params.Hist))
}

// Sweep runs niter multicanonical sweeps.
func (m *Multicanonical[L, S]) Sweep(ctx context.Context, rng *rand.Rand, opts ...RunOption) (Result, error) {
	res, err := m.Run(ctx, rng, opts...)
	return res.Result, err
}

// Run runs niter multicanonical sweeps and returns the aggregate together
// with the final energy.
func (m *Multicanonical[L, S]) Run(ctx context.Context, rng *rand.Rand, opts ...RunOption) (MulticanonicalResult, error) {
	res, err := observe(ctx, rng, "multicanonical", m.params.NIter, m.params.Verbose, opts,
		func(_ context.Context, moveLog *slog.Logger) Result {
			return m.sweep(rng, moveLog)
		})
	return MulticanonicalResult{Result: res, S: m.s}, err
}

func (m *Multicanonical[L, S]) sweep(rng *rand.Rand, moveLog *slog.Logger) Result {
	var res Result
	hist, dens, f := m.params.Hist, m.params.Dens, m.params.F
	clamp := m.params.OutOfRange == OutOfRangeClamp

	newSchedule(m.params.ScheduleParams).visit(m.vlist, rng, func(v int) {
		if m.SkipNode(v) {
			return
		}
		i, _ := m.Bin(m.s)
		hist[i]++
		dens[i] += f

		r := m.state.NodeState(v)
		s := m.MoveProposal(v, rng)
		if s == NullMove[L]() {
			return
		}
		w := m.state.NodeWeight(v)
		res.attempt(w)
		if s == r {
			return
		}

		dS, mP := m.VirtualMoveDS(v, s)
		j, inRange := m.Bin(m.s + dS)
		accept := false
		a := math.Inf(-1)
		if inRange || clamp {
			a = dens[i] - dens[j] + mP
			accept = a > 0 || rng.Float64() < math.Exp(a)
		}
		if accept {
			m.state.MoveVertex(v, s)
			m.s += dS
			res.commit(w, dS)
		}
		if moveLog != nil {
			observability.LogMove(moveLog, v, int64(r), int64(s), accept, dS, mP, a, m.s)
		}
	})
	return res
}

// energyBin maps e to one of n equal-width bins over [lo, hi]. hi itself
// falls in the last bin.
func energyBin(e, lo, hi float64, n int) (int, bool) {
	if e < lo {
		return 0, false
	}
	if e > hi || math.IsNaN(e) {
		return n - 1, false
	}
	i := int(math.Floor((e - lo) / (hi - lo) * float64(n)))
	return min(i, n-1), true
}

// Flatness returns min/mean over the visited bins of hist, or 0 if no bin
// has been visited. A perfectly flat histogram has flatness 1.
func Flatness(hist []int) float64 {
	visited := make([]float64, 0, len(hist))
	for _, h := range hist {
		if h > 0 {
			visited = append(visited, float64(h))
		}
	}
	if len(visited) == 0 {
		return 0
	}
	return floats.Min(visited) / stat.Mean(visited, nil)
}

// IsFlat reports whether Flatness(hist) reaches threshold, the usual
// Wang-Landau criterion for halving f.
func IsFlat(hist []int, threshold float64) bool {
	return Flatness(hist) >= threshold
}
