// Package blockmodel provides a reference stochastic block model that
// implements blockmcmc.BlockState.
//
// The model is the non-degree-corrected SBM over a simple undirected graph.
// A State holds the partition b together with the cached group statistics
// the samplers need:
//
//   - n_r: number of vertices in group r, frozen ones included
//   - w_r: total vertex weight in group r
//   - e_rs: number of edge endpoints between groups r and s (e_rr counts
//     each internal edge twice)
//   - m_r: sum of e_rs over s
//
// The objective is the microcanonical entropy of the graph given the
// partition, either the sparse (Poisson) approximation or the exact dense
// count, optionally with the partition and edge-count description lengths.
// The likelihood terms use n_r. Vertex weights only decide which vertices
// are sampled, which groups count as empty, and the partition description
// length.
// VirtualMove evaluates the change in that objective from the cached counts
// without mutating the state, so it is safe to call concurrently as long as
// no MoveVertex runs at the same time.
//
// Vertex IDs must be the contiguous range 0..N-1. ReadEdgeList and
// PlantedPartition build graphs that satisfy this.
//
// Basic usage:
//
//	g, truth := blockmodel.PlantedPartition[int32](200, 4, 0.2, 0.01, rng)
//	b := blockmodel.InitialPartition[int32](g, 4, rng)
//	st, err := blockmodel.New(g, b, 4)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(st.Entropy(blockmcmc.EntropyArgs{}))
package blockmodel
