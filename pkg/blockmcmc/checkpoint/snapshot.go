package checkpoint

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the current snapshot format version.
// Increment when making breaking changes to Snapshot.
const Version = 1

// Snapshot is the persisted state of a sampler chain after a round.
type Snapshot struct {
	Version   int       `json:"version"`
	ChainID   string    `json:"chain_id"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`

	Algorithm string  `json:"algorithm"`
	Partition []int64 `json:"partition"`

	// Running totals over every round so far.
	DeltaS   float64 `json:"delta_s"`
	Attempts int     `json:"attempts"`
	Moves    int     `json:"moves"`

	Multicanonical *Multicanonical `json:"multicanonical,omitempty"`
}

// Multicanonical is the flat-histogram state carried between rounds.
type Multicanonical struct {
	Hist []int     `json:"hist"`
	Dens []float64 `json:"dens"`
	SMin float64   `json:"s_min"`
	SMax float64   `json:"s_max"`
	F    float64   `json:"f"`
	S    float64   `json:"s"`
}

// New creates a snapshot of partition for chainID at round.
func New(chainID string, round int, algorithm string, partition []int64) *Snapshot {
	return &Snapshot{
		Version:   Version,
		ChainID:   chainID,
		Round:     round,
		Timestamp: time.Now().UTC(),
		Algorithm: algorithm,
		Partition: partition,
	}
}

// WithTotals sets the running totals.
func (s *Snapshot) WithTotals(deltaS float64, attempts, moves int) *Snapshot {
	s.DeltaS, s.Attempts, s.Moves = deltaS, attempts, moves
	return s
}

// WithMulticanonical attaches flat-histogram state.
func (s *Snapshot) WithMulticanonical(mc *Multicanonical) *Snapshot {
	s.Multicanonical = mc
	return s
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON. Snapshots written with a
// different Version are rejected with ErrVersion.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrVersion, s.Version, Version)
	}
	return &s, nil
}

// Put marshals s and saves it under its chain and round. It returns the
// stored size in bytes.
func Put(store Store, s *Snapshot) (int, error) {
	data, err := s.Marshal()
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := store.Save(s.ChainID, s.Round, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Resume loads the latest snapshot of chainID.
func Resume(store Store, chainID string) (*Snapshot, error) {
	_, data, err := store.Latest(chainID)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
