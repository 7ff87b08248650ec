package blockmcmc

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
	"github.com/sourcegraph/conc/pool"
)

// proposal is one vertex's phase-one outcome.
type proposal[L Label] struct {
	s         L
	dS        float64
	attempted bool
	accepted  bool
}

// workerStreams derives one generator per worker from the caller's
// generator, so a fixed seed and worker count reproduce the same sweep.
func workerStreams(rng *rand.Rand, n int) []*rand.Rand {
	streams := make([]*rand.Rand, n)
	for i := range streams {
		streams[i] = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	}
	return streams
}

// mcmcSweepParallel runs the two-phase parallel sweep.
//
// Phase one splits vlist into contiguous chunks, one per worker. Each
// worker proposes and evaluates a move for its vertices against the state
// as it was when the sweep began, recording the moves its own Metropolis
// test accepted. SampleMove runs under a single lock; everything else in
// phase one only reads the state.
//
// Phase two walks vlist in order on the calling goroutine, re-evaluates
// each recorded move against the current state, and commits it only if
// the move is still allowed and passes the acceptance test again (at
// beta = +Inf, only if it still strictly lowers the objective).
func mcmcSweepParallel[L Label, M mover[L]](m M, vlist []int, beta float64, sched schedule,
	workers int, rng *rand.Rand, moveLog *slog.Logger,
) Result {
	var res Result
	if len(vlist) == 0 {
		return res
	}
	workers = max(1, min(workers, len(vlist)))
	chunk := (len(vlist) + workers - 1) / workers
	props := make([]proposal[L], len(vlist))
	var sampleMu sync.Mutex

	for range sched.niter {
		clear(props)
		streams := workerStreams(rng, workers)

		p := pool.New().WithMaxGoroutines(workers)
		for w := range workers {
			lo, hi := w*chunk, min((w+1)*chunk, len(vlist))
			if lo >= hi {
				continue
			}
			wrng := streams[w]
			p.Go(func() {
				for i := lo; i < hi; i++ {
					v := vlist[i]
					if m.NodeWeight(v) == 0 || m.SkipNode(v) {
						continue
					}
					sampleMu.Lock()
					s := m.MoveProposal(v, wrng)
					sampleMu.Unlock()
					if s == NullMove[L]() {
						continue
					}
					props[i].attempted = true
					if s == m.NodeState(v) {
						continue
					}
					dS, mP := m.VirtualMoveDS(v, s)
					if MetropolisAccept(dS, mP, beta, wrng) {
						props[i] = proposal[L]{s: s, dS: dS, attempted: true, accepted: true}
					}
				}
			})
		}
		p.Wait()

		for i, v := range vlist {
			pr := props[i]
			if !pr.attempted {
				continue
			}
			w := m.NodeWeight(v)
			res.attempt(w)
			if !pr.accepted {
				continue
			}
			r := m.NodeState(v)
			if pr.s == r || m.SkipNode(v) {
				continue
			}
			ddS, mP := m.VirtualMoveDS(v, pr.s)
			accept := MetropolisAccept(ddS, mP, beta, rng)
			if accept {
				m.PerformMove(v, pr.s)
				res.commit(w, ddS)
			}
			if moveLog != nil {
				observability.LogMove(moveLog, v, int64(r), int64(pr.s), accept, ddS, mP, -ddS*beta+mP, res.DeltaS)
			}
		}
	}
	return res
}
