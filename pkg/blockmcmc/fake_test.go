package blockmcmc

import (
	"math/rand/v2"
)

// fakeState is a scripted BlockState. Proposals come from target when set,
// costs from cost when set (default -1).
type fakeState struct {
	labels     []int32
	weights    []int
	frozen     map[int]bool
	constraint map[int32]int
	target     []int32
	cost       func(f *fakeState, v int, nr int32) float64
	pf, pb     float64

	initC     float64
	initDL    bool
	initCalls int
	moveCalls int
	sampled   []int
}

func newFakeState(labels ...int32) *fakeState {
	return &fakeState{labels: labels, pf: 0.5, pb: 0.5}
}

func (f *fakeState) NodeState(v int) int32 { return f.labels[v] }

func (f *fakeState) SampleMove(v int, _ float64, candidates []int32, rng *rand.Rand) int32 {
	f.sampled = append(f.sampled, v)
	if f.target != nil {
		return f.target[v]
	}
	if len(candidates) > 0 {
		return candidates[rng.IntN(len(candidates))]
	}
	return NullMove[int32]()
}

func (f *fakeState) VirtualMove(v int, nr int32, _ EntropyArgs) float64 {
	if f.cost != nil {
		return f.cost(f, v, nr)
	}
	return -1
}

func (f *fakeState) MoveProb(_ int, _, _ int32, _ float64, reverse bool) float64 {
	if reverse {
		return f.pb
	}
	return f.pf
}

func (f *fakeState) MoveVertex(v int, nr int32) {
	f.moveCalls++
	f.labels[v] = nr
}

func (f *fakeState) NodeWeight(v int) int {
	if f.weights == nil {
		return 1
	}
	return f.weights[v]
}

func (f *fakeState) groupWeight(r int32) int {
	w := 0
	for u, l := range f.labels {
		if l == r {
			w += f.NodeWeight(u)
		}
	}
	return w
}

func (f *fakeState) IsLast(v int) bool {
	n := 0
	for _, l := range f.labels {
		if l == f.labels[v] {
			n++
		}
	}
	return n == 1
}

func (f *fakeState) WouldEmptyGroup(v int) bool {
	return f.groupWeight(f.labels[v])-f.NodeWeight(v) == 0
}

func (f *fakeState) SameConstraint(r, s int32) bool {
	return f.constraint[r] == f.constraint[s]
}

func (f *fakeState) Frozen(v int) bool { return f.frozen[v] }

func (f *fakeState) InitMCMC(c float64, dl bool) {
	f.initC, f.initDL = c, dl
	f.initCalls++
}

func (f *fakeState) snapshot() []int32 {
	return append([]int32(nil), f.labels...)
}

func vertices(n int) []int {
	vs := make([]int, n)
	for i := range vs {
		vs[i] = i
	}
	return vs
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

var _ BlockState[int32] = (*fakeState)(nil)
