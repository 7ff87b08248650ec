// Package checkpoint persists sampler chain snapshots so long runs can be
// resumed.
//
// A chain is identified by an ID and advances in rounds; a Store keeps one
// record per (chain, round) and returns the latest one on resume.
package checkpoint

import (
	"errors"
	"time"
)

// Store persists snapshot bytes per chain and round.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data for a chain at a round.
	// Overwrites if a record for (chainID, round) already exists.
	Save(chainID string, round int, data []byte) error

	// Load retrieves the record for a chain at a round.
	// Returns ErrNotFound if it doesn't exist.
	Load(chainID string, round int) ([]byte, error)

	// Latest retrieves the record with the highest round of a chain.
	// Returns ErrNotFound if the chain has no records.
	Latest(chainID string) (Info, []byte, error)

	// List returns all records of a chain, ordered by round.
	// Returns an empty slice (not error) if the chain has no records.
	List(chainID string) ([]Info, error)

	// DeleteChain removes all records of a chain.
	// Returns nil if the chain has no records.
	DeleteChain(chainID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a record without loading it.
type Info struct {
	ChainID   string
	Round     int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for checkpoint operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("checkpoint store closed")

	// ErrVersion indicates a snapshot written by an incompatible format.
	ErrVersion = errors.New("unsupported snapshot version")
)
