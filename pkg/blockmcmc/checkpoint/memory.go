package checkpoint

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and short runs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	chains map[string]map[int]record
	closed bool
}

type record struct {
	data      []byte
	timestamp time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chains: make(map[string]map[int]record),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(chainID string, round int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if m.chains[chainID] == nil {
		m.chains[chainID] = make(map[int]record)
	}
	m.chains[chainID][round] = record{
		data:      slices.Clone(data),
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(chainID string, round int) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	rec, ok := m.chains[chainID][round]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(rec.data), nil
}

// Latest implements Store.
func (m *MemoryStore) Latest(chainID string) (Info, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Info{}, nil, ErrStoreClosed
	}
	chain := m.chains[chainID]
	if len(chain) == 0 {
		return Info{}, nil, ErrNotFound
	}
	rounds := slices.Collect(maps.Keys(chain))
	last := slices.Max(rounds)
	rec := chain[last]
	return m.info(chainID, last, rec), slices.Clone(rec.data), nil
}

// List implements Store.
func (m *MemoryStore) List(chainID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	chain := m.chains[chainID]
	infos := make([]Info, 0, len(chain))
	for round, rec := range chain {
		infos = append(infos, m.info(chainID, round, rec))
	}
	slices.SortFunc(infos, func(a, b Info) int { return a.Round - b.Round })
	return infos, nil
}

// DeleteChain implements Store.
func (m *MemoryStore) DeleteChain(chainID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.chains, chainID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.chains = nil
	return nil
}

// Len returns the number of records across all chains.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, chain := range m.chains {
		n += len(chain)
	}
	return n
}

func (m *MemoryStore) info(chainID string, round int, rec record) Info {
	return Info{
		ChainID:   chainID,
		Round:     round,
		Timestamp: rec.timestamp,
		Size:      int64(len(rec.data)),
	}
}
