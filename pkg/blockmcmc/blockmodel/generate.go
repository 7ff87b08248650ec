package blockmodel

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// PlantedPartition samples a graph with n vertices split round-robin into
// numGroups groups. Each pair is joined with probability pin inside a group
// and pout across groups. It returns the graph and the planted labels.
func PlantedPartition[L blockmcmc.Label](n, numGroups int, pin, pout float64, rng *rand.Rand) (*simple.UndirectedGraph, []L) {
	g := simple.NewUndirectedGraph()
	truth := make([]L, n)
	for v := range n {
		g.AddNode(simple.Node(v))
		truth[v] = L(v % numGroups)
	}
	for u := range n {
		for v := u + 1; v < n; v++ {
			p := pout
			if truth[u] == truth[v] {
				p = pin
			}
			if rng.Float64() < p {
				g.SetEdge(g.NewEdge(simple.Node(u), simple.Node(v)))
			}
		}
	}
	return g, truth
}

// InitialPartition seeds a partition of g into numGroups groups from the
// Louvain communities of g. The largest communities get their own groups;
// the rest are folded, largest first, into the currently smallest group.
// A graph without edges is labeled round-robin.
func InitialPartition[L blockmcmc.Label](g graph.Undirected, numGroups int, rng *rand.Rand) []L {
	n := g.Nodes().Len()
	b := make([]L, n)
	if countEdges(g) == 0 {
		for v := range b {
			b[v] = L(v % numGroups)
		}
		return b
	}

	comms := community.Modularize(g, 1, rng).Communities()
	slices.SortStableFunc(comms, func(x, y []graph.Node) int {
		return cmp.Compare(len(y), len(x))
	})

	size := make([]int, numGroups)
	for i, c := range comms {
		r := i
		if i >= numGroups {
			r = slices.Index(size, slices.Min(size))
		}
		for _, node := range c {
			b[node.ID()] = L(r)
		}
		size[r] += len(c)
	}
	return b
}

func countEdges(g graph.Undirected) int {
	n := 0
	nodes := g.Nodes()
	for nodes.Next() {
		n += g.From(nodes.Node().ID()).Len()
	}
	return n / 2
}

// ReadEdgeList reads a whitespace-separated edge list with one "u v" pair
// per line. Blank lines and lines starting with '#' or '%' are skipped, as
// are self-loops and repeated edges. Every ID up to the largest one seen
// becomes a node, so isolated vertices keep their IDs.
func ReadEdgeList(r io.Reader) (*simple.UndirectedGraph, error) {
	g := simple.NewUndirectedGraph()
	maxID := int64(-1)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == '%' {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("edge list line %d: want two vertex IDs, got %q", line, text)
		}
		u, err := parseID(fields[0])
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: %w", line, err)
		}
		v, err := parseID(fields[1])
		if err != nil {
			return nil, fmt.Errorf("edge list line %d: %w", line, err)
		}
		maxID = max(maxID, u, v)
		if u == v || g.HasEdgeBetween(u, v) {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(u), simple.Node(v)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	for id := int64(0); id <= maxID; id++ {
		if g.Node(id) == nil {
			g.AddNode(simple.Node(id))
		}
	}
	return g, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse vertex ID %q: %w", s, err)
	}
	if id < 0 {
		return 0, fmt.Errorf("negative vertex ID %d", id)
	}
	return id, nil
}
