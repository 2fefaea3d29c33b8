// Package sampler generates Reverse Reachable (RR) sets under the
// Independent Cascade or Linear Threshold semantics, walking the
// transposed graph from a chosen root (spec.md §4.3).
package sampler

import (
	"math/rand"

	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/rrset"
)

// Target is an early-termination predicate: when it reports true for a
// node the sampler has just visited, the RR set is committed immediately
// even if the frontier is not yet exhausted. A nil Target never
// terminates early.
type Target func(node int) bool

// IC generates one RR set rooted at root under Independent Cascade (or
// WC, which is IC with WC-chosen probabilities — spec.md §9 confirms this
// fallthrough is intentional, not a bug). BFS walks in-edges of the
// original graph (out-edges of the transpose); each traversed edge (v,u)
// is included independently with probability p(v,u). If target is
// non-nil and fires on any visited node, the walk stops there.
func IC(g *graphmodel.Graph, model graphmodel.Model, root int, rng *rand.Rand, store *rrset.Store, target Target) int {
	b := rrset.NewBuilder()
	b.Add(root)
	if target != nil && target(root) {
		return store.Commit(b)
	}

	queue := []int{root}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		inNeighbors := g.InNeighbors(u)
		for i, v := range inNeighbors {
			if b.Contains(v) {
				continue
			}
			p := g.InProb(model, u, i)
			if rng.Float64() < p {
				b.Add(v)
				queue = append(queue, v)
				if target != nil && target(v) {
					return store.Commit(b)
				}
			}
		}
	}
	return store.Commit(b)
}

// LT generates one RR set rooted at root under Linear Threshold. From the
// current node u, at most one in-neighbor v is chosen by weighted
// roulette: draw r in (0,1], walk u's in-edges, subtract each edge's
// weight from r; the edge that drives r <= 0 selects v. A hop may select
// nothing if r exceeds the total weight. If target is non-nil and fires
// on any visited node, the walk stops there.
func LT(g *graphmodel.Graph, model graphmodel.Model, root int, rng *rand.Rand, store *rrset.Store, target Target) int {
	b := rrset.NewBuilder()
	b.Add(root)
	if target != nil && target(root) {
		return store.Commit(b)
	}

	u := root
	for {
		inNeighbors := g.InNeighbors(u)
		if len(inNeighbors) == 0 {
			break
		}
		r := rng.Float64()
		if r == 0 {
			r = 1 // keep the draw in (0,1]
		}
		selected := -1
		for i := range inNeighbors {
			r -= g.InProb(model, u, i)
			if r <= 0 {
				selected = i
				break
			}
		}
		if selected == -1 {
			break
		}
		v := inNeighbors[selected]
		if b.Contains(v) {
			break
		}
		b.Add(v)
		if target != nil && target(v) {
			return store.Commit(b)
		}
		u = v
	}
	return store.Commit(b)
}

// Generate dispatches to IC or LT based on the propagation model name
// ("IC" or "LT"); WC is treated as IC per spec.md §4.3.
func Generate(propagation string, g *graphmodel.Graph, model graphmodel.Model, root int, rng *rand.Rand, store *rrset.Store, target Target) int {
	if propagation == "LT" {
		return LT(g, model, root, rng, store, target)
	}
	return IC(g, model, root, rng, store, target)
}
