package marginals

import "github.com/randalmurphal/blockmcmc/pkg/blockmcmc"

// Map compacts vals in place using table as the label lookup. Entries of
// table equal to -1 are unassigned; each unassigned value met in vals gets
// the next position, counting from 0. table must be indexable by every
// value in vals. It returns the number of positions assigned.
func Map[L blockmcmc.Label](vals, table []L) int {
	var pos L
	for i, v := range vals {
		if table[v] == -1 {
			table[v] = pos
			pos++
		}
		vals[i] = table[v]
	}
	return int(pos)
}

// ContinuousMap compacts vals in place to 0..k-1 in order of first
// appearance and returns k. Unlike Map it accepts arbitrary label values.
func ContinuousMap[L blockmcmc.Label](vals []L) int {
	seen := make(map[L]L)
	for i, v := range vals {
		r, ok := seen[v]
		if !ok {
			r = L(len(seen))
			seen[v] = r
		}
		vals[i] = r
	}
	return len(seen)
}

// RMap writes the inverse of vals into table: table[vals[i]] = i. When a
// value repeats, the last position wins.
func RMap[L blockmcmc.Label](vals, table []L) {
	for i, v := range vals {
		table[v] = L(i)
	}
}
