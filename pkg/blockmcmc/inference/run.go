package inference

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/dispatch"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
)

// Algorithm names accepted by Run.
const (
	AlgorithmMCMC           = "mcmc"
	AlgorithmGibbs          = "gibbs"
	AlgorithmMulticanonical = "multicanonical"
)

// FieldAlgorithm is the bundle key Run switches on.
const FieldAlgorithm = "algorithm"

// RunMCMC resolves b against the Metropolis-Hastings catalog and runs
// niter sweeps.
func RunMCMC(ctx context.Context, b config.Bundle, rng *rand.Rand, opts ...blockmcmc.RunOption) (blockmcmc.Result, error) {
	return run(ctx, mcmcCatalog, b, rng, opts)
}

// RunGibbs resolves b against the Gibbs catalog and runs niter sweeps.
func RunGibbs(ctx context.Context, b config.Bundle, rng *rand.Rand, opts ...blockmcmc.RunOption) (blockmcmc.Result, error) {
	return run(ctx, gibbsCatalog, b, rng, opts)
}

// RunMulticanonical resolves b against the multicanonical catalog and runs
// niter sweeps. The hist and dens slices in b are updated in place; the
// returned S is the energy to pass as S on the next call.
func RunMulticanonical(ctx context.Context, b config.Bundle, rng *rand.Rand, opts ...blockmcmc.RunOption) (blockmcmc.MulticanonicalResult, error) {
	var (
		res    blockmcmc.MulticanonicalResult
		runErr error
	)
	err := multicanonicalCatalog.MakeDispatch(b, func(s bound[blockmcmc.MulticanonicalSweeper]) {
		res, runErr = s.sampler.Run(ctx, rng, append(slices.Clip(opts), blockmcmc.WithEntry(s.entry))...)
		s.sync()
	})
	if err != nil {
		reportDispatch(ctx, multicanonicalCatalog.Name(), err, opts)
		return blockmcmc.MulticanonicalResult{}, err
	}
	return res, runErr
}

// Run dispatches on the "algorithm" field of b.
func Run(ctx context.Context, b config.Bundle, rng *rand.Rand, opts ...blockmcmc.RunOption) (blockmcmc.Result, error) {
	algorithm, err := config.Extract[string](b, FieldAlgorithm)
	if err != nil {
		return blockmcmc.Result{}, err
	}
	switch algorithm {
	case AlgorithmMCMC:
		return RunMCMC(ctx, b, rng, opts...)
	case AlgorithmGibbs:
		return RunGibbs(ctx, b, rng, opts...)
	case AlgorithmMulticanonical:
		res, err := RunMulticanonical(ctx, b, rng, opts...)
		return res.Result, err
	}
	return blockmcmc.Result{}, unknownAlgorithm(algorithm)
}

func run(ctx context.Context, cat *dispatch.Catalog[bound[blockmcmc.Sweeper]], b config.Bundle,
	rng *rand.Rand, opts []blockmcmc.RunOption,
) (blockmcmc.Result, error) {
	var (
		res    blockmcmc.Result
		runErr error
	)
	err := cat.MakeDispatch(b, func(s bound[blockmcmc.Sweeper]) {
		res, runErr = s.sampler.Sweep(ctx, rng, append(slices.Clip(opts), blockmcmc.WithEntry(s.entry))...)
		s.sync()
	})
	if err != nil {
		reportDispatch(ctx, cat.Name(), err, opts)
		return blockmcmc.Result{}, err
	}
	return res, runErr
}

func reportDispatch(ctx context.Context, catalog string, err error, opts []blockmcmc.RunOption) {
	logger, metrics := blockmcmc.Observers(opts...)
	observability.LogDispatchError(logger, catalog, err)
	if ctx == nil {
		ctx = context.Background()
	}
	metrics.RecordDispatchError(ctx, catalog)
}

func unknownAlgorithm(name string) error {
	return fmt.Errorf("%w: %q (want %q, %q or %q)", blockmcmc.ErrUnknownAlgorithm, name,
		AlgorithmMCMC, AlgorithmGibbs, AlgorithmMulticanonical)
}
