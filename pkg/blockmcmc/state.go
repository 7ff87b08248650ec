package blockmcmc

import "math/rand/v2"

// Label is a group identifier. Real labels are non-negative.
type Label interface {
	~int32 | ~int64
}

// NullMove returns the sentinel meaning "no candidate proposed". It is
// distinct from every real label and from proposing the current label.
func NullMove[L Label]() L {
	return L(-1)
}

// EntropyArgs selects which terms of the objective a model state includes
// when it evaluates a virtual move.
type EntropyArgs struct {
	Dense       bool
	Multigraph  bool
	PartitionDL bool
	DegreeDL    bool
	EdgesDL     bool
	// E is the total edge count used by description-length terms.
	E int
}

// BlockState is the contract a partition model exposes to the samplers.
//
// Samplers only change the state through MoveVertex. VirtualMove and
// MoveProb must not mutate observable state; the parallel sweep calls them
// from several goroutines at once.
type BlockState[L Label] interface {
	// NodeState returns the current group of v.
	NodeState(v int) L

	// SampleMove proposes a group for v. When candidates is non-empty the
	// proposal is drawn from it; c biases the draw toward neighbor groups
	// (c = +Inf is uniform). It may return NullMove.
	SampleMove(v int, c float64, candidates []L, rng *rand.Rand) L

	// VirtualMove returns the objective delta of moving v to nr.
	VirtualMove(v int, nr L, ea EntropyArgs) float64

	// MoveProb returns the probability that SampleMove proposes s for a
	// vertex v currently in r. With reverse set it is evaluated as if v had
	// already been moved from s to r.
	MoveProb(v int, r, s L, c float64, reverse bool) float64

	// MoveVertex moves v to nr and updates cached statistics.
	MoveVertex(v int, nr L)

	// NodeWeight returns the contribution of v to attempt and move counts.
	NodeWeight(v int) int

	// IsLast reports whether v is the only member of its group.
	IsLast(v int) bool

	// WouldEmptyGroup reports whether removing v leaves its group with zero
	// total weight.
	WouldEmptyGroup(v int) bool

	// SameConstraint reports whether groups r and s carry the same
	// constraint label, i.e. whether a move between them is allowed.
	SameConstraint(r, s L) bool

	// Frozen reports whether v is excluded from sampling.
	Frozen(v int) bool

	// InitMCMC prepares proposal caches for locality c. dl is set when any
	// description-length term is enabled.
	InitMCMC(c float64, dl bool)
}
