package blockmodel

import (
	"math"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"gonum.org/v1/gonum/stat/combin"
)

// Entropy returns the objective of the current partition under ea.
//
// The sparse form is E - sum_{r<=s} e_rs ln(e_rs / (n_r n_s)), with the
// diagonal weighted by one half and n_r the vertex count of r. Vertex
// weights enter only through the partition description length. The dense form counts the graphs
// compatible with the block edge counts exactly. DegreeDL is accepted and
// contributes nothing: the model is not degree corrected.
func (st *State[L]) Entropy(ea blockmcmc.EntropyArgs) float64 {
	B := st.numB
	var S float64
	if !ea.Dense {
		S = float64(st.e)
	}
	for x := range B {
		for y := x; y < B; y++ {
			S += pairTerm(st.ers[x*B+y], st.nr[x], st.nr[y], x == y, ea)
		}
	}

	if ea.PartitionDL || ea.EdgesDL {
		bne := st.NonEmptyGroups()
		if ea.PartitionDL {
			n := st.totalWeight()
			S += partitionDL(n, bne)
			for _, w := range st.wr {
				S -= lgamma(float64(w) + 1)
			}
			if n > 0 {
				S += lgamma(float64(n)+1) + math.Log(float64(n))
			}
		}
		if ea.EdgesDL {
			S += edgesDL(bne, st.edgeTotal(ea))
		}
	}
	return S
}

// VirtualMove returns Entropy after moving v to nr minus Entropy now. It
// reads the cached statistics only.
func (st *State[L]) VirtualMove(v int, nr L, ea blockmcmc.EntropyArgs) float64 {
	r := st.b[v]
	if r == nr {
		return 0
	}
	B := st.numB
	a, b := int(r), int(nr)
	k := st.neighborGroups(v)
	w := st.vweight[v]

	var dS float64
	affectedPairs(B, a, b, func(x, y int) {
		e := st.ers[x*B+y]
		before := pairTerm(e, st.nr[x], st.nr[y], x == y, ea)
		after := pairTerm(e+edgeDelta(x, y, a, b, k),
			st.nr[x]+shift(x, a, b, 1), st.nr[y]+shift(y, a, b, 1), x == y, ea)
		dS += after - before
	})

	if ea.PartitionDL || ea.EdgesDL {
		bne := st.NonEmptyGroups()
		nbne := bne
		if w > 0 {
			if st.wr[a] == w {
				nbne--
			}
			if st.wr[b] == 0 {
				nbne++
			}
		}
		if ea.PartitionDL {
			n := st.totalWeight()
			dS += partitionDL(n, nbne) - partitionDL(n, bne)
			dS -= lgamma(float64(st.wr[a]-w)+1) + lgamma(float64(st.wr[b]+w)+1) -
				lgamma(float64(st.wr[a])+1) - lgamma(float64(st.wr[b])+1)
		}
		if ea.EdgesDL {
			E := st.edgeTotal(ea)
			dS += edgesDL(nbne, E) - edgesDL(bne, E)
		}
	}
	return dS
}

func (st *State[L]) totalWeight() int {
	n := 0
	for _, w := range st.wr {
		n += w
	}
	return n
}

// edgeTotal is the edge count used by description lengths: ea.E when set,
// otherwise the graph's own.
func (st *State[L]) edgeTotal(ea blockmcmc.EntropyArgs) int {
	if ea.E > 0 {
		return ea.E
	}
	return st.e
}

// affectedPairs calls fn once for every unordered group pair touching a or b.
func affectedPairs(B, a, b int, fn func(x, y int)) {
	for t := range B {
		fn(a, t)
	}
	for t := range B {
		if t != a {
			fn(b, t)
		}
	}
}

// edgeDelta is the change of e_xy when a vertex with neighbor group counts
// k moves from a to b.
func edgeDelta(x, y, a, b int, k []int) int {
	d := 0
	if x == a {
		d -= k[y]
	}
	if y == a {
		d -= k[x]
	}
	if x == b {
		d += k[y]
	}
	if y == b {
		d += k[x]
	}
	return d
}

// shift is the change of a per-group count at x when an item of size w
// moves from a to b.
func shift(x, a, b, w int) int {
	switch x {
	case a:
		return -w
	case b:
		return w
	}
	return 0
}

// pairTerm is the contribution of the unordered pair (x, y) holding e_xy
// edge endpoints between groups of nx and ny vertices. Frozen vertices
// count, so a group with edges is never of size zero.
func pairTerm(exy, nx, ny int, diag bool, ea blockmcmc.EntropyArgs) float64 {
	if ea.Dense {
		if diag {
			m := float64(exy / 2)
			if ea.Multigraph {
				return lbinom(float64(nx*(nx+1)/2)+m-1, m)
			}
			return lbinom(float64(nx*(nx-1)/2), m)
		}
		m := float64(exy)
		if ea.Multigraph {
			return lbinom(float64(nx*ny)+m-1, m)
		}
		return lbinom(float64(nx*ny), m)
	}

	if exy == 0 {
		return 0
	}
	e := float64(exy)
	if diag {
		return -0.5 * e * math.Log(e/(float64(nx)*float64(nx)))
	}
	return -e * math.Log(e/(float64(nx)*float64(ny)))
}

// partitionDL is the part of the partition description length that
// depends on the number of non-empty groups.
func partitionDL(n, bne int) float64 {
	if n == 0 || bne == 0 {
		return 0
	}
	return lbinom(float64(n-1), float64(bne-1))
}

// edgesDL is the description length of the block edge counts.
func edgesDL(bne, E int) float64 {
	if bne == 0 {
		return 0
	}
	nn := float64(bne * (bne + 1) / 2)
	return lbinom(nn+float64(E)-1, float64(E))
}

// lbinom returns ln C(n, k), +Inf when k exceeds n.
func lbinom(n, k float64) float64 {
	if k == 0 || k == n {
		return 0
	}
	if k < 0 || n < k {
		return math.Inf(1)
	}
	return combin.LogGeneralizedBinomial(n, k)
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
