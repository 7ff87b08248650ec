package blockmodel

import (
	"fmt"
	"slices"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"gonum.org/v1/gonum/graph"
)

// State is a block partition of a graph with cached group statistics.
// It implements blockmcmc.BlockState[L].
type State[L blockmcmc.Label] struct {
	adj     [][]int
	b       []L
	numB    int
	vweight []int
	bclabel []int

	wr  []int
	nr  []int
	ers []int
	mr  []int
	e   int
}

var (
	_ blockmcmc.BlockState[int32] = (*State[int32])(nil)
	_ blockmcmc.BlockState[int64] = (*State[int64])(nil)
)

type options struct {
	weights     []int
	constraints []int
}

// Option configures a State.
type Option func(*options)

// WithWeights sets per-vertex weights. A vertex of weight zero is frozen.
// Default: every vertex has weight 1.
func WithWeights(w []int) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithConstraints sets a constraint label per group. Vertices only move
// between groups that share a constraint label.
// Default: every group has label 0.
func WithConstraints(labels []int) Option {
	return func(o *options) {
		o.constraints = labels
	}
}

// New builds a State for g with partition b over numGroups groups.
// b is copied. g must have node IDs 0..len(b)-1.
func New[L blockmcmc.Label](g graph.Undirected, b []L, numGroups int, opts ...Option) (*State[L], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n := g.Nodes().Len()
	if n != len(b) {
		return nil, fmt.Errorf("%w: %d labels for %d vertices", ErrInvalidPartition, len(b), n)
	}
	if numGroups <= 0 {
		return nil, fmt.Errorf("%w: numGroups must be positive, got %d", ErrInvalidPartition, numGroups)
	}
	for v, r := range b {
		if r < 0 || int64(r) >= int64(numGroups) {
			return nil, fmt.Errorf("%w: vertex %d has label %d outside [0, %d)", ErrInvalidPartition, v, r, numGroups)
		}
	}
	if o.weights != nil && len(o.weights) != n {
		return nil, fmt.Errorf("%w: %d weights for %d vertices", ErrInvalidOption, len(o.weights), n)
	}
	if o.constraints != nil && len(o.constraints) != numGroups {
		return nil, fmt.Errorf("%w: %d constraint labels for %d groups", ErrInvalidOption, len(o.constraints), numGroups)
	}

	adj, err := adjacency(g, n)
	if err != nil {
		return nil, err
	}

	st := &State[L]{
		adj:     adj,
		b:       slices.Clone(b),
		numB:    numGroups,
		vweight: o.weights,
		bclabel: o.constraints,
	}
	if st.vweight == nil {
		st.vweight = make([]int, n)
		for v := range st.vweight {
			st.vweight[v] = 1
		}
	} else {
		st.vweight = slices.Clone(st.vweight)
	}
	if st.bclabel == nil {
		st.bclabel = make([]int, numGroups)
	} else {
		st.bclabel = slices.Clone(st.bclabel)
	}
	st.rebuild()
	return st, nil
}

// adjacency returns sorted neighbor lists indexed by node ID.
func adjacency(g graph.Undirected, n int) ([][]int, error) {
	adj := make([][]int, n)
	nodes := g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		if id < 0 || id >= int64(n) {
			return nil, fmt.Errorf("%w: found ID %d in a graph of %d nodes", ErrNodeIDs, id, n)
		}
		to := g.From(id)
		nbrs := make([]int, 0, to.Len())
		for to.Next() {
			u := to.Node().ID()
			if u == id {
				continue
			}
			nbrs = append(nbrs, int(u))
		}
		slices.Sort(nbrs)
		adj[id] = nbrs
	}
	return adj, nil
}

// rebuild recomputes every cached group statistic from b.
func (st *State[L]) rebuild() {
	B := st.numB
	st.wr = make([]int, B)
	st.nr = make([]int, B)
	st.ers = make([]int, B*B)
	st.mr = make([]int, B)
	st.e = 0
	for v, r := range st.b {
		st.wr[r] += st.vweight[v]
		st.nr[r]++
		for _, u := range st.adj[v] {
			s := st.b[u]
			st.ers[int(r)*B+int(s)]++
			st.mr[r]++
			if u > v {
				st.e++
			}
		}
	}
}

// NodeState returns the group of v.
func (st *State[L]) NodeState(v int) L { return st.b[v] }

// NodeWeight returns the weight of v.
func (st *State[L]) NodeWeight(v int) int { return st.vweight[v] }

// Frozen reports whether v has zero weight.
func (st *State[L]) Frozen(v int) bool { return st.vweight[v] == 0 }

// IsLast reports whether v is the only weighted member of its group.
func (st *State[L]) IsLast(v int) bool {
	return st.vweight[v] > 0 && st.wr[st.b[v]] == st.vweight[v]
}

// WouldEmptyGroup reports whether removing v leaves its group with zero
// weight.
func (st *State[L]) WouldEmptyGroup(v int) bool {
	return st.wr[st.b[v]]-st.vweight[v] == 0
}

// SameConstraint reports whether r and s carry the same constraint label.
func (st *State[L]) SameConstraint(r, s L) bool {
	return st.bclabel[r] == st.bclabel[s]
}

// InitMCMC resynchronizes the cached group statistics with the partition.
// Proposals read c per call, so nothing else is cached.
func (st *State[L]) InitMCMC(_ float64, _ bool) {
	st.rebuild()
}

// MoveVertex moves v to group nr and updates the cached statistics.
func (st *State[L]) MoveVertex(v int, nr L) {
	r := st.b[v]
	if r == nr {
		return
	}
	B := st.numB
	ri, si := int(r), int(nr)
	w := st.vweight[v]
	st.wr[ri] -= w
	st.wr[si] += w
	st.nr[ri]--
	st.nr[si]++
	for _, u := range st.adj[v] {
		t := int(st.b[u])
		st.ers[ri*B+t]--
		st.ers[t*B+ri]--
		st.ers[si*B+t]++
		st.ers[t*B+si]++
	}
	kv := len(st.adj[v])
	st.mr[ri] -= kv
	st.mr[si] += kv
	st.b[v] = nr
}

// NumVertices returns the number of vertices.
func (st *State[L]) NumVertices() int { return len(st.b) }

// NumGroups returns the number of group slots B.
func (st *State[L]) NumGroups() int { return st.numB }

// NumEdges returns the number of edges.
func (st *State[L]) NumEdges() int { return st.e }

// NonEmptyGroups returns the number of groups with positive weight.
func (st *State[L]) NonEmptyGroups() int {
	n := 0
	for _, w := range st.wr {
		if w > 0 {
			n++
		}
	}
	return n
}

// GroupWeight returns the summed vertex weight of r.
func (st *State[L]) GroupWeight(r L) int { return st.wr[r] }

// GroupSize returns n_r, the number of vertices in r whatever their
// weight. The likelihood terms use it.
func (st *State[L]) GroupSize(r L) int { return st.nr[r] }

// EdgeCount returns e_rs. e_rr counts each internal edge twice.
func (st *State[L]) EdgeCount(r, s L) int { return st.ers[int(r)*st.numB+int(s)] }

// Partition returns a copy of the current labels.
func (st *State[L]) Partition() []L { return slices.Clone(st.b) }

// Labels returns the live label slice. Callers must not modify it.
func (st *State[L]) Labels() []L { return st.b }

// Vertices returns 0..N-1, suitable as a sampler vertex list.
func (st *State[L]) Vertices() []int {
	vs := make([]int, len(st.b))
	for v := range vs {
		vs[v] = v
	}
	return vs
}

// Edges returns every edge once as (u, v) with u < v, in increasing order.
func (st *State[L]) Edges() [][2]int {
	edges := make([][2]int, 0, st.e)
	for v, nbrs := range st.adj {
		for _, u := range nbrs {
			if u > v {
				edges = append(edges, [2]int{v, u})
			}
		}
	}
	return edges
}

// neighborGroups returns k, where k[t] is the number of neighbors of v in
// group t.
func (st *State[L]) neighborGroups(v int) []int {
	k := make([]int, st.numB)
	for _, u := range st.adj[v] {
		k[st.b[u]]++
	}
	return k
}
