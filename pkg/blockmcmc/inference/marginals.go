package inference

import (
	"fmt"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/blockmodel"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/dispatch"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/marginals"
)

// VertexMarginals adds the current partition of the state in b to hist
// and returns the updated histogram.
func VertexMarginals(b config.Bundle, hist [][]int, opts ...marginals.Option) ([][]int, error) {
	err := stateCatalog.Dispatch(b, func(m dispatch.Match) {
		switch st := m.Value(FieldState).(type) {
		case *blockmodel.State[int32]:
			hist = marginals.CollectVertex(st.Labels(), hist, opts...)
		case *blockmodel.State[int64]:
			hist = marginals.CollectVertex(st.Labels(), hist, opts...)
		}
	})
	if err != nil {
		return hist, fmt.Errorf("vertex marginals: %w", err)
	}
	return hist, nil
}

// EdgeMarginals adds the current block pair of every edge of the state in
// b to hist and returns the updated histogram. Rows follow the order of
// State.Edges.
func EdgeMarginals(b config.Bundle, hist [][]int, opts ...marginals.Option) ([][]int, error) {
	err := stateCatalog.Dispatch(b, func(m dispatch.Match) {
		switch st := m.Value(FieldState).(type) {
		case *blockmodel.State[int32]:
			hist = marginals.CollectEdge(st.Edges(), st.Labels(), st.NumGroups(), hist, opts...)
		case *blockmodel.State[int64]:
			hist = marginals.CollectEdge(st.Edges(), st.Labels(), st.NumGroups(), hist, opts...)
		}
	})
	if err != nil {
		return hist, fmt.Errorf("edge marginals: %w", err)
	}
	return hist, nil
}
