package checkpoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/checkpoint"
)

func TestPutAndResume(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	defer store.Close()

	for round := 1; round <= 3; round++ {
		s := checkpoint.New("chain-a", round, "multicanonical", []int64{0, 1, int64(round)}).
			WithTotals(-1.5*float64(round), 10*round, round).
			WithMulticanonical(&checkpoint.Multicanonical{
				Hist: []int{1, 2, round},
				Dens: []float64{0.5, 1, 0},
				SMin: 10, SMax: 20,
				F: 1 / float64(round),
				S: 15,
			})
		size, err := checkpoint.Put(store, s)
		require.NoError(t, err)
		assert.Positive(t, size)
	}

	got, err := checkpoint.Resume(store, "chain-a")
	require.NoError(t, err)

	assert.Equal(t, checkpoint.Version, got.Version)
	assert.Equal(t, 3, got.Round)
	assert.Equal(t, "multicanonical", got.Algorithm)
	assert.Equal(t, []int64{0, 1, 3}, got.Partition)
	assert.Equal(t, 30, got.Attempts)
	assert.InDelta(t, -4.5, got.DeltaS, 1e-12)
	require.NotNil(t, got.Multicanonical)
	assert.Equal(t, []int{1, 2, 3}, got.Multicanonical.Hist)
	assert.InDelta(t, 1.0/3, got.Multicanonical.F, 1e-12)
}

func TestResume_NotFound(t *testing.T) {
	_, err := checkpoint.Resume(checkpoint.NewMemoryStore(), "chain-missing")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := checkpoint.Unmarshal([]byte(`{"version": 99}`))
	assert.ErrorIs(t, err, checkpoint.ErrVersion)

	_, err = checkpoint.Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}

func TestSnapshot_OmitsEmptyMulticanonical(t *testing.T) {
	data, err := checkpoint.New("c", 1, "mcmc", []int64{0}).Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "multicanonical")
}
