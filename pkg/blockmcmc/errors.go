package blockmcmc

import "errors"

// Sentinel errors for sampler construction and invocation.
var (
	// ErrInvalidParams indicates parameters that decode but cannot drive a
	// sampler, such as a negative niter or mismatched histogram lengths.
	ErrInvalidParams = errors.New("invalid sampler parameters")

	// ErrUnknownAlgorithm indicates an algorithm name with no sampler.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrNilContext indicates Sweep was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrNilRNG indicates Sweep was called without a random generator.
	ErrNilRNG = errors.New("random generator cannot be nil")
)
