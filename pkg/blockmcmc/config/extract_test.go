package config_test

import (
	"errors"
	"testing"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct{ n int }

func TestExtract_Direct(t *testing.T) {
	st := &fakeState{n: 3}
	b := config.New(map[string]any{"state": st})

	got, err := config.Extract[*fakeState](b, "state")
	require.NoError(t, err)
	assert.Same(t, st, got)
}

func TestExtract_ThroughHolder(t *testing.T) {
	st := &fakeState{n: 3}
	b := config.New(map[string]any{"state": config.Hold(st)})

	got, err := config.Extract[*fakeState](b, "state")
	require.NoError(t, err)
	assert.Same(t, st, got)
}

func TestExtract_HolderItselfRequested(t *testing.T) {
	h := config.Hold(1)
	b := config.New(map[string]any{"x": h})

	got, err := config.Extract[config.Holder](b, "x")
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestExtract_DereferencesPointer(t *testing.T) {
	vlist := []int32{4, 5}
	b := config.New(map[string]any{"vlist": &vlist})

	got, err := config.Extract[[]int32](b, "vlist")
	require.NoError(t, err)
	assert.Equal(t, vlist, got)

	got[0] = 9
	assert.Equal(t, int32(9), vlist[0], "dereferenced slice shares the backing array")
}

func TestExtract_DereferencesHeldPointer(t *testing.T) {
	beta := 2.5
	b := config.New(map[string]any{"beta": config.Hold(&beta)})

	got, err := config.Extract[float64](b, "beta")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}

func TestExtract_Errors(t *testing.T) {
	var nilVlist *[]int
	tests := []struct {
		name    string
		data    map[string]any
		wantErr error
		wantGot string
	}{
		{"missing", map[string]any{}, config.ErrMissingField, ""},
		{"wrong type", map[string]any{"vlist": []int64{1}}, config.ErrTypeMismatch, "[]int64"},
		{"nil pointer", map[string]any{"vlist": nilVlist}, config.ErrTypeMismatch, "*[]int"},
		{"holder of wrong type", map[string]any{"vlist": config.Hold("v")}, config.ErrTypeMismatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := config.New(tt.data)
			_, err := config.Extract[[]int](b, "vlist")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var ee *config.ExtractionError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, "vlist", ee.Field)
			assert.Equal(t, "[]int", ee.Want)
			if tt.wantGot != "" {
				assert.Equal(t, tt.wantGot, ee.Got)
			}
			assert.Contains(t, err.Error(), `cannot extract parameter "vlist" of desired type []int`)
		})
	}
}
