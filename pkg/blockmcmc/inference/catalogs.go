package inference

import (
	"fmt"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/blockmodel"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/dispatch"
)

// Bundle keys of the type-list fields.
const (
	FieldState = "state"
	FieldVList = "vlist"
)

var samplerFields = []string{FieldState, FieldVList}

// vertexID is an element type accepted for the vertex list.
type vertexID interface {
	int | int32 | int64
}

// bound is a sampler built by a catalog entry, with the hook that writes
// the reordered vertex list back into the caller's slice.
type bound[S any] struct {
	sampler S
	entry   string
	sync    func()
}

// vertices returns vl as []int. An []int is used as is; other element
// types are copied and written back by the returned sync func.
func vertices[E vertexID](vl []E) ([]int, func()) {
	if ints, ok := any(vl).([]int); ok {
		return ints, func() {}
	}
	vs := make([]int, len(vl))
	for i, v := range vl {
		vs[i] = int(v)
	}
	return vs, func() {
		for i, v := range vs {
			vl[i] = E(v)
		}
	}
}

// checkBounds reports a vertex or candidate group the state does not have.
func checkBounds[L blockmcmc.Label, E vertexID](st *blockmodel.State[L], blockList []L, vl []E) error {
	for _, r := range blockList {
		if r < 0 || int64(r) >= int64(st.NumGroups()) {
			return fmt.Errorf("%w: block_list label %d outside [0, %d)", blockmcmc.ErrInvalidParams, r, st.NumGroups())
		}
	}
	for _, v := range vl {
		if v < 0 || int64(v) >= int64(st.NumVertices()) {
			return fmt.Errorf("%w: vlist vertex %d outside [0, %d)", blockmcmc.ErrInvalidParams, v, st.NumVertices())
		}
	}
	return nil
}

func entrySignature[L blockmcmc.Label, E vertexID]() string {
	return dispatch.Signature(dispatch.Of[*blockmodel.State[L]](), dispatch.Of[[]E]())
}

func mcmcEntry[L blockmcmc.Label, E vertexID]() dispatch.Entry[bound[blockmcmc.Sweeper]] {
	return dispatch.Entry2(func(b config.Bundle, st *blockmodel.State[L], vl []E) (bound[blockmcmc.Sweeper], error) {
		p, err := blockmcmc.DecodeMCMCParams[L](b)
		if err != nil {
			return bound[blockmcmc.Sweeper]{}, err
		}
		if err := checkBounds(st, p.BlockList, vl); err != nil {
			return bound[blockmcmc.Sweeper]{}, err
		}
		vs, sync := vertices(vl)
		m, err := blockmcmc.NewMCMC[L](st, vs, p)
		if err != nil {
			return bound[blockmcmc.Sweeper]{}, err
		}
		return bound[blockmcmc.Sweeper]{sampler: m, entry: entrySignature[L, E](), sync: sync}, nil
	})
}

func gibbsEntry[L blockmcmc.Label, E vertexID]() dispatch.Entry[bound[blockmcmc.Sweeper]] {
	return dispatch.Entry2(func(b config.Bundle, st *blockmodel.State[L], vl []E) (bound[blockmcmc.Sweeper], error) {
		p, err := blockmcmc.DecodeGibbsParams[L](b)
		if err != nil {
			return bound[blockmcmc.Sweeper]{}, err
		}
		if err := checkBounds(st, p.BlockList, vl); err != nil {
			return bound[blockmcmc.Sweeper]{}, err
		}
		vs, sync := vertices(vl)
		g, err := blockmcmc.NewGibbs[L](st, vs, p)
		if err != nil {
			return bound[blockmcmc.Sweeper]{}, err
		}
		return bound[blockmcmc.Sweeper]{sampler: g, entry: entrySignature[L, E](), sync: sync}, nil
	})
}

func multicanonicalEntry[L blockmcmc.Label, E vertexID]() dispatch.Entry[bound[blockmcmc.MulticanonicalSweeper]] {
	return dispatch.Entry2(func(b config.Bundle, st *blockmodel.State[L], vl []E) (bound[blockmcmc.MulticanonicalSweeper], error) {
		p, err := blockmcmc.DecodeMulticanonicalParams[L](b)
		if err != nil {
			return bound[blockmcmc.MulticanonicalSweeper]{}, err
		}
		if err := checkBounds(st, p.BlockList, vl); err != nil {
			return bound[blockmcmc.MulticanonicalSweeper]{}, err
		}
		vs, sync := vertices(vl)
		m, err := blockmcmc.NewMulticanonical[L](st, vs, p)
		if err != nil {
			return bound[blockmcmc.MulticanonicalSweeper]{}, err
		}
		return bound[blockmcmc.MulticanonicalSweeper]{sampler: m, entry: entrySignature[L, E](), sync: sync}, nil
	})
}

var (
	mcmcCatalog = dispatch.New("mcmc", samplerFields,
		mcmcEntry[int32, int](),
		mcmcEntry[int32, int32](),
		mcmcEntry[int32, int64](),
		mcmcEntry[int64, int](),
		mcmcEntry[int64, int32](),
		mcmcEntry[int64, int64](),
	)

	gibbsCatalog = dispatch.New("gibbs", samplerFields,
		gibbsEntry[int32, int](),
		gibbsEntry[int32, int32](),
		gibbsEntry[int32, int64](),
		gibbsEntry[int64, int](),
		gibbsEntry[int64, int32](),
		gibbsEntry[int64, int64](),
	)

	multicanonicalCatalog = dispatch.New("multicanonical", samplerFields,
		multicanonicalEntry[int32, int](),
		multicanonicalEntry[int32, int32](),
		multicanonicalEntry[int32, int64](),
		multicanonicalEntry[int64, int](),
		multicanonicalEntry[int64, int32](),
		multicanonicalEntry[int64, int64](),
	)

	// stateCatalog resolves the model state alone.
	stateCatalog = dispatch.New("state", []string{FieldState},
		dispatch.Entry1(identity[*blockmodel.State[int32]]),
		dispatch.Entry1(identity[*blockmodel.State[int64]]),
	)
)

func identity[T any](_ config.Bundle, v T) (any, error) { return v, nil }

// Signatures lists the instantiations available for algorithm in
// dispatch order.
func Signatures(algorithm string) ([]string, error) {
	switch algorithm {
	case AlgorithmMCMC:
		return mcmcCatalog.Signatures(), nil
	case AlgorithmGibbs:
		return gibbsCatalog.Signatures(), nil
	case AlgorithmMulticanonical:
		return multicanonicalCatalog.Signatures(), nil
	}
	return nil, unknownAlgorithm(algorithm)
}
