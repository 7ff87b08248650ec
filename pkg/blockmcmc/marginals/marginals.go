// Package marginals accumulates label histograms over sampled partitions
// and compacts label vectors.
//
// CollectVertex and CollectEdge are called once per sample, typically after
// every sweep, and build up per-vertex and per-edge label counts from which
// posterior marginals are read. Map, ContinuousMap and RMap relabel label
// vectors in place.
package marginals

import (
	"runtime"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"github.com/sourcegraph/conc/pool"
)

// parallelMin is the input size below which collection stays on the
// calling goroutine.
const parallelMin = 4096

type options struct {
	workers int
}

// Option configures a collection call.
type Option func(*options)

// WithWorkers sets the number of goroutines used for large inputs.
// Default: GOMAXPROCS. A value of 1 disables parallel collection.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CollectVertex adds one sample to the vertex histogram: hist[v][labels[v]]
// is incremented for every vertex. hist is extended to len(labels) rows and
// each row to the label it counts, so a nil hist is a valid start. The
// possibly reallocated hist is returned.
func CollectVertex[L blockmcmc.Label](labels []L, hist [][]int, opts ...Option) [][]int {
	hist = grow(hist, len(labels))
	forEach(len(labels), applyOptions(opts), func(v int) {
		r := int(labels[v])
		if len(hist[v]) <= r {
			hist[v] = append(hist[v], make([]int, r+1-len(hist[v]))...)
		}
		hist[v][r]++
	})
	return hist
}

// CollectEdge adds one sample to the edge histogram. For edge i = (u, v)
// with r, s the labels of min(u,v) and max(u,v), hist[i][r + B*s] is
// incremented. Rows are sized to B*B on first use.
func CollectEdge[L blockmcmc.Label](edges [][2]int, labels []L, B int, hist [][]int, opts ...Option) [][]int {
	hist = grow(hist, len(edges))
	forEach(len(edges), applyOptions(opts), func(i int) {
		u, v := edges[i][0], edges[i][1]
		if u > v {
			u, v = v, u
		}
		r, s := int(labels[u]), int(labels[v])
		if len(hist[i]) < B*B {
			hist[i] = append(hist[i], make([]int, B*B-len(hist[i]))...)
		}
		hist[i][r+B*s]++
	})
	return hist
}

// MaxMarginal returns, for every row of a vertex histogram, the label with
// the highest count. Ties go to the smaller label; empty rows yield
// NullMove.
func MaxMarginal[L blockmcmc.Label](hist [][]int) []L {
	out := make([]L, len(hist))
	for v, row := range hist {
		best, bestN := blockmcmc.NullMove[L](), 0
		for r, n := range row {
			if n > bestN {
				best, bestN = L(r), n
			}
		}
		out[v] = best
	}
	return out
}

func grow(hist [][]int, n int) [][]int {
	if len(hist) < n {
		hist = append(hist, make([][]int, n-len(hist))...)
	}
	return hist
}

// forEach calls fn for 0..n-1. Large inputs are split into contiguous
// chunks across a bounded pool; fn must only touch index-local state.
func forEach(n int, o options, fn func(i int)) {
	if n < parallelMin || o.workers <= 1 {
		for i := range n {
			fn(i)
		}
		return
	}
	workers := min(o.workers, n)
	chunk := (n + workers - 1) / workers
	p := pool.New().WithMaxGoroutines(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		p.Go(func() {
			for i := lo; i < hi; i++ {
				fn(i)
			}
		})
	}
	p.Wait()
}
