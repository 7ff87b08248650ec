// Package inference is the invocation surface of the samplers.
//
// A caller describes one run as a config.Bundle: the model state under
// "state", the vertices to visit under "vlist", and the algorithm's fixed
// parameters (beta, c, niter, ...). Each Run function resolves the state
// and vertex list types against a closed catalog of generic
// instantiations, builds the matching sampler, and runs it:
//
//	b := config.New(map[string]any{
//	    "state": st,            // *blockmodel.State[int32] or [int64]
//	    "vlist": st.Vertices(), // []int, []int32 or []int64
//	    "beta":  1.0,
//	    "niter": 10,
//	})
//	res, err := inference.RunMCMC(ctx, b, rng)
//
// Unsupported type combinations fail with a *dispatch.DispatchError; bad
// fixed parameters fail with a *config.ExtractionError or
// blockmcmc.ErrInvalidParams. In both cases the state is left untouched.
package inference
