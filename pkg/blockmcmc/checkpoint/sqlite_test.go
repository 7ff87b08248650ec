package checkpoint_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/checkpoint"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chains.db")

	store1, err := checkpoint.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save("chain-1", 4, []byte("persistent")))
	require.NoError(t, store1.Close())

	store2, err := checkpoint.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	info, data, err := store2.Latest("chain-1")
	require.NoError(t, err)
	assert.Equal(t, 4, info.Round)
	assert.Equal(t, []byte("persistent"), data)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := checkpoint.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	store, err := checkpoint.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	store, err := checkpoint.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	const chains, rounds = 8, 20
	var wg sync.WaitGroup
	for c := range chains {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chainID := fmt.Sprintf("chain-%d", c)
			for r := range rounds {
				assert.NoError(t, store.Save(chainID, r, []byte("data")))
				_, _, _ = store.Latest(chainID)
			}
		}()
	}
	wg.Wait()

	for c := range chains {
		infos, err := store.List(fmt.Sprintf("chain-%d", c))
		require.NoError(t, err)
		assert.Len(t, infos, rounds)
	}
}
