package blockmcmc

// Result aggregates one sampler invocation.
type Result struct {
	// DeltaS is the summed objective change of every committed move.
	DeltaS float64
	// Attempts is the summed node weight of every vertex that was evaluated.
	Attempts int
	// Moves is the summed node weight of every vertex whose label changed.
	Moves int
}

func (r *Result) attempt(weight int) {
	r.Attempts += weight
}

func (r *Result) commit(weight int, dS float64) {
	r.Moves += weight
	r.DeltaS += dS
}

// MulticanonicalResult extends Result with the objective value reached at
// the end of the run, to be fed back as S on the next call.
type MulticanonicalResult struct {
	Result
	S float64
}
