// Package blockmcmc samples graph partitions with Markov chain Monte Carlo.
//
// A partition model implements BlockState. Three samplers drive it:
//
//   - MCMC: Metropolis-Hastings sweeps, sequential or with a two-phase
//     parallel protocol (parallel proposals against a snapshot, then a
//     sequential reconciliation that re-checks every move);
//   - Gibbs: draws each visited vertex's label from the full conditional
//     over a candidate set;
//   - Multicanonical: flat-histogram sampling that updates a caller-owned
//     histogram and log density of states as it goes.
//
// Each sampler is a Sweeper. Samplers are generic over the label type and
// the concrete state type, so the per-vertex loop is compiled for each
// combination; the inference package selects a combination at run time
// from a config.Bundle.
//
// Basic usage:
//
//	p := blockmcmc.DefaultMCMCParams[int32]()
//	p.Beta = math.Inf(1)
//	p.NIter = 10
//	s, err := blockmcmc.NewMCMC[int32](state, vertices, p)
//	if err != nil {
//	    return err
//	}
//	res, err := s.Sweep(ctx, rand.New(rand.NewPCG(1, 2)))
//
// Sweep never cancels: ctx carries tracing only, and niter sweeps always run
// to completion.
package blockmcmc
