package blockmodel

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
)

// SampleMove proposes a group for v.
//
// A random neighbor u is picked and t = b[u]. With probability
// c*B/(m_t + c*B) the proposal is uniform over all B groups; otherwise it is
// the group at the far end of a random edge endpoint of t, so s is drawn
// proportionally to e_ts. Isolated vertices and c = +Inf propose uniformly.
//
// When candidates is non-empty, a draw outside it yields NullMove, which
// keeps MoveProb exact for the unrestricted draw.
func (st *State[L]) SampleMove(v int, c float64, candidates []L, rng *rand.Rand) L {
	s := st.sampleGroup(v, c, rng)
	if len(candidates) > 0 && !slices.Contains(candidates, s) {
		return blockmcmc.NullMove[L]()
	}
	return s
}

func (st *State[L]) sampleGroup(v int, c float64, rng *rand.Rand) L {
	B := st.numB
	nbrs := st.adj[v]
	if len(nbrs) == 0 || math.IsInf(c, 1) {
		return L(rng.IntN(B))
	}
	t := int(st.b[nbrs[rng.IntN(len(nbrs))]])
	cB := c * float64(B)
	if rng.Float64() < cB/(float64(st.mr[t])+cB) {
		return L(rng.IntN(B))
	}
	x := rng.IntN(st.mr[t])
	row := st.ers[t*B : (t+1)*B]
	for s, e := range row {
		x -= e
		if x < 0 {
			return L(s)
		}
	}
	return L(B - 1)
}

// MoveProb returns the probability that SampleMove, ignoring candidates,
// proposes s for v:
//
//	sum_t k_t/k_v * (e_ts + c) / (m_t + c*B)
//
// With reverse set the counts are taken as if v had already moved from s
// to r.
func (st *State[L]) MoveProb(v int, r, s L, c float64, reverse bool) float64 {
	B := st.numB
	kv := len(st.adj[v])
	if kv == 0 || math.IsInf(c, 1) {
		return 1 / float64(B)
	}
	k := st.neighborGroups(v)
	si := int(s)
	a, b := -1, -1
	if reverse {
		a, b = si, int(r)
	}

	var p float64
	for t, kt := range k {
		if kt == 0 {
			continue
		}
		ets := st.ers[t*B+si]
		mt := st.mr[t]
		if reverse {
			ets += edgeDelta(t, si, a, b, k)
			mt += shift(t, a, b, kv)
		}
		p += float64(kt) / float64(kv) * (float64(ets) + c) / (float64(mt) + c*float64(B))
	}
	return p
}
