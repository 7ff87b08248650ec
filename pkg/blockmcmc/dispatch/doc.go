// Package dispatch routes a runtime parameter bundle to one of a closed set
// of statically instantiated values.
//
// A Catalog is declared over a list of type-list fields (for example the
// model state and the vertex list). Each Entry names one concrete Go type
// per field and a factory. At call time the catalog walks its entries in
// declaration order, resolves each field with config.Extract, and hands the
// first full match to the factory. Because every combination is a separate
// generic instantiation, the chosen value runs fully specialized code.
//
//	cat := dispatch.New("mcmc", []string{"state", "vlist"},
//	    dispatch.Entry2(newSweeper[int32, []int]),
//	    dispatch.Entry2(newSweeper[int64, []int]),
//	)
//	err := cat.MakeDispatch(b, func(s blockmcmc.Sweeper) {
//	    res, runErr = s.Sweep(ctx, rng)
//	})
//
// A bundle that matches no entry yields a *DispatchError wrapping
// ErrNoMatch; pass AllowNotFound to make it a no-op. Errors from the
// factory, typically a *config.ExtractionError for a fixed-type field, are
// returned before the continuation runs.
//
// Catalogs are sealed once built and are safe for concurrent use.
package dispatch
