// Package blocker implements influence minimization: restricting max
// coverage to "risky" RR sets (those touching a negative seed) and
// selecting blockers that knock the most of them out (spec.md §4.6).
package blocker

import (
	"math/rand"

	"github.com/nodewave/influenceengine/internal/coverage"
	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/rrset"
	"github.com/nodewave/influenceengine/internal/sampler"
)

// Result holds the RR-set store (for inspection/testing) and the chosen
// blocker set.
type Result struct {
	Store    *rrset.Store
	Blockers []int
}

// BuildRiskySample generates R RR sets rooted uniformly over all n nodes,
// each truncated as soon as the walk touches a negative seed — grounded
// on the original build_hyper_graph_for_minimization's stoppable
// samplers, which root uniformly over the whole graph and early-terminate
// on any negative seed, not uniformly over the seeds themselves.
func BuildRiskySample(g *graphmodel.Graph, propagation string, model graphmodel.Model, negativeSeeds []int, r int64, rng *rand.Rand) *rrset.Store {
	isSeed := make(map[int]bool, len(negativeSeeds))
	for _, s := range negativeSeeds {
		isSeed[s] = true
	}
	target := func(node int) bool { return isSeed[node] }

	store := rrset.New(g.N)
	for i := int64(0); i < r; i++ {
		root := rng.Intn(g.N)
		sampler.Generate(propagation, g, model, root, rng, store, target)
	}
	return store
}

// Select computes the risky RR-set universe (sets touching any negative
// seed) and runs greedy max coverage restricted to that universe,
// excluding the negative seeds themselves from candidacy.
func Select(store *rrset.Store, numNodes int, negativeSeeds []int, k int) []int {
	excluded := make(map[int]bool, len(negativeSeeds))
	for _, s := range negativeSeeds {
		excluded[s] = true
	}

	universe := make(coverage.Universe, store.NumSets())
	for _, s := range negativeSeeds {
		for _, i := range store.SetsContaining(s) {
			universe[i] = true
		}
	}

	return coverage.Greedy(store, numNodes, k, excluded, universe)
}

// Run performs the full blocker-selection pipeline: risky sampling then
// restricted greedy selection.
func Run(g *graphmodel.Graph, propagation string, model graphmodel.Model, negativeSeeds []int, r int64, k int, rng *rand.Rand) *Result {
	store := BuildRiskySample(g, propagation, model, negativeSeeds, r, rng)
	blockers := Select(store, g.N, negativeSeeds, k)
	return &Result{Store: store, Blockers: blockers}
}
