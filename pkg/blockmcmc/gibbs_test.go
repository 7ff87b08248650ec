package blockmcmc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gibbsParams(niter int, beta float64, blocks ...int32) GibbsParams[int32] {
	p := DefaultGibbsParams[int32]()
	p.NIter = niter
	p.Beta = beta
	p.BlockList = blocks
	p.AllowEmpty = true
	return p
}

// costByTarget makes dS depend on the destination group only.
func costByTarget(costs map[int32]float64) func(*fakeState, int, int32) float64 {
	return func(_ *fakeState, _ int, nr int32) float64 { return costs[nr] }
}

func TestGibbs_Candidates(t *testing.T) {
	st := newFakeState(1, 0)
	st.constraint = map[int32]int{0: 0, 1: 0, 2: 0, 3: 1}
	g, err := NewGibbs[int32](st, vertices(2), gibbsParams(1, 1, 0, 1, 2, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 0, 2}, g.Candidates(0))
	assert.Equal(t, []int32{0, 1, 2}, g.Candidates(1))
}

func TestGibbs_InfiniteBetaPicksArgMin(t *testing.T) {
	st := newFakeState(0, 0, 0)
	st.cost = costByTarget(map[int32]float64{1: 2, 2: -3, 3: -3})

	g, err := NewGibbs[int32](st, vertices(3), gibbsParams(1, math.Inf(1), 1, 2, 3))
	require.NoError(t, err)
	res, err := g.Sweep(context.Background(), testRNG())
	require.NoError(t, err)

	// Ties go to the earliest candidate.
	assert.Equal(t, []int32{2, 2, 2}, st.labels)
	assert.Equal(t, Result{DeltaS: -9, Attempts: 3, Moves: 3}, res)
}

func TestGibbs_InfiniteBetaTieKeepsCurrent(t *testing.T) {
	st := newFakeState(0, 1)
	st.cost = func(*fakeState, int, int32) float64 { return 0 }

	g, err := NewGibbs[int32](st, vertices(2), gibbsParams(4, math.Inf(1), 0, 1))
	require.NoError(t, err)
	res, err := g.Sweep(context.Background(), testRNG())
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1}, st.labels)
	assert.Equal(t, Result{Attempts: 8}, res)
	assert.Zero(t, st.moveCalls)
}

func TestGibbs_DrawFollowsFullConditional(t *testing.T) {
	st := newFakeState(0)
	g, err := NewGibbs[int32](st, vertices(1), gibbsParams(1, 1, 1))
	require.NoError(t, err)

	// Weights 1 : 3 : 0.
	g.dS = []float64{0, -math.Log(3), math.Inf(1)}
	rng := testRNG()
	const draws = 20000
	counts := make([]int, 3)
	for range draws {
		counts[g.draw(1, rng)]++
	}

	assert.InDelta(t, 0.25, float64(counts[0])/draws, 0.02)
	assert.InDelta(t, 0.75, float64(counts[1])/draws, 0.02)
	assert.Zero(t, counts[2])
}

func TestGibbs_ZeroBetaIsUniform(t *testing.T) {
	st := newFakeState(0)
	g, err := NewGibbs[int32](st, vertices(1), gibbsParams(1, 0, 1))
	require.NoError(t, err)

	g.dS = []float64{0, 100, -100, 5}
	rng := testRNG()
	const draws = 20000
	counts := make([]int, 4)
	for range draws {
		counts[g.draw(0, rng)]++
	}
	for _, c := range counts {
		assert.InDelta(t, 0.25, float64(c)/draws, 0.02)
	}
}

func TestGibbs_SkipsSoleMembersWhenEmptyForbidden(t *testing.T) {
	st := newFakeState(0, 1, 1)
	st.cost = costByTarget(map[int32]float64{0: -1, 1: -1})
	p := gibbsParams(1, math.Inf(1), 0, 1)
	p.AllowEmpty = false
	p.Deterministic = true

	g, err := NewGibbs[int32](st, vertices(3), p)
	require.NoError(t, err)
	res, err := g.Sweep(context.Background(), testRNG())
	require.NoError(t, err)

	// Vertex 0 is skipped; vertex 1 joins group 0; vertex 2 is then alone.
	assert.Equal(t, []int32{0, 0, 1}, st.labels)
	assert.Equal(t, Result{DeltaS: -1, Attempts: 1, Moves: 1}, res)
}

func TestGibbs_ZeroIterationsIsIdentity(t *testing.T) {
	st := newFakeState(0, 1, 2)
	g, err := NewGibbs[int32](st, vertices(3), gibbsParams(0, 1, 0, 1, 2))
	require.NoError(t, err)
	res, err := g.Sweep(context.Background(), testRNG())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, []int32{0, 1, 2}, st.labels)
}

func TestGibbs_InvalidParams(t *testing.T) {
	_, err := NewGibbs[int32](newFakeState(0), vertices(1), gibbsParams(-1, 1))
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = NewGibbs[int32](newFakeState(0), vertices(1), gibbsParams(1, -1))
	assert.ErrorIs(t, err, ErrInvalidParams)
}
