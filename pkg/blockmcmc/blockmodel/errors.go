package blockmodel

import "errors"

// Sentinel errors for model construction.
var (
	// ErrNodeIDs indicates the graph's node IDs are not 0..N-1.
	ErrNodeIDs = errors.New("node IDs must be contiguous from 0")

	// ErrInvalidPartition indicates the partition does not fit the graph or
	// the number of groups.
	ErrInvalidPartition = errors.New("invalid partition")

	// ErrInvalidOption indicates an option value does not fit the graph.
	ErrInvalidOption = errors.New("invalid option")
)
