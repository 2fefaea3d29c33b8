// Package coverage implements the greedy max-coverage selector shared by
// influence maximization and blocker selection (spec.md §4.5, §4.6).
package coverage

import (
	"github.com/nodewave/influenceengine/internal/heap"
	"github.com/nodewave/influenceengine/internal/rrset"
)

// Universe narrows coverage counting to a subset of RR-set indices, used
// by the blocker selector to restrict to "risky" RR sets (spec.md §4.6).
// A nil Universe means every RR set counts.
type Universe []bool

func (u Universe) eligible(i int) bool { return u == nil || u[i] }

// Greedy selects up to k nodes maximizing coverage over store's RR sets,
// skipping any node in excluded, and counting only RR sets for which
// universe.eligible returns true. The result is a classical (1-1/e)
// approximation to maximum coverage (spec.md §4.5); it may return fewer
// than k nodes if the candidate pool is exhausted — greedy selectors
// never fail internally.
func Greedy(store *rrset.Store, numNodes, k int, excluded map[int]bool, universe Universe) []int {
	if k <= 0 {
		return nil
	}

	covered := make([]bool, store.NumSets())

	var h heap.Indexed
	h.Init(numNodes)
	for u := 0; u < numNodes; u++ {
		if excluded[u] {
			continue
		}
		cov := 0
		for _, i := range store.SetsContaining(u) {
			if universe.eligible(i) {
				cov++
			}
		}
		if cov > 0 {
			h.InsertOrUpdate(u, -float64(cov))
		}
	}

	result := make([]int, 0, k)
	for len(result) < k && !h.IsEmpty() {
		u := h.Pop()
		result = append(result, u)

		for _, i := range store.SetsContaining(u) {
			if !universe.eligible(i) || covered[i] {
				continue
			}
			covered[i] = true
			for _, w := range store.Members(i) {
				if excluded[w] || !h.Contains(w) {
					continue
				}
				h.InsertOrUpdate(w, h.ValueOf(w)+1)
			}
		}
	}
	return result
}

// Coverage returns the number of RR sets (within universe) covered by the
// given node set, used to compute the IMM estimator's ept (spec.md §4.4).
func Coverage(store *rrset.Store, nodes []int, universe Universe) int {
	covered := make(map[int]bool)
	for _, u := range nodes {
		for _, i := range store.SetsContaining(u) {
			if universe.eligible(i) {
				covered[i] = true
			}
		}
	}
	return len(covered)
}
