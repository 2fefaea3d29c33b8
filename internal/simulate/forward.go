// Package simulate runs forward Monte-Carlo propagation trials on the
// original (non-transposed) graph: blocked-set influence estimation,
// parent-witness path tracking, and cut-off edge extraction (spec.md
// §4.7).
package simulate

import (
	"math/rand"
	"sort"

	"github.com/nodewave/influenceengine/internal/graphmodel"
)

// Edge is a directed parent->child propagation edge.
type Edge struct {
	From int
	To   int
}

func blockedSet(blocking []int, n int) []bool {
	blocked := make([]bool, n)
	for _, b := range blocking {
		if b >= 0 && b < n {
			blocked[b] = true
		}
	}
	return blocked
}

func icTrial(g *graphmodel.Graph, model graphmodel.Model, activated []bool, queue []int, blocked []bool, rng *rand.Rand) {
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		neigh := g.OutNeighbors(u)
		for i, v := range neigh {
			if activated[v] || blocked[v] {
				continue
			}
			p := g.OutProb(model, u, i)
			if rng.Float64() < p {
				activated[v] = true
				queue = append(queue, v)
			}
		}
	}
}

func ltTrial(g *graphmodel.Graph, model graphmodel.Model, activated []bool, queue []int, blocked []bool, rng *rand.Rand) {
	thresholds := make([]float64, g.N)
	for i := range thresholds {
		thresholds[i] = rng.Float64()
	}
	totalWeight := make([]float64, g.N)

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		neigh := g.OutNeighbors(u)
		for i, v := range neigh {
			if activated[v] || blocked[v] {
				continue
			}
			w := g.OutProb(model, u, i)
			totalWeight[v] += w
			if totalWeight[v] >= thresholds[v] {
				activated[v] = true
				queue = append(queue, v)
			}
		}
	}
}

func runTrial(g *graphmodel.Graph, propagation string, model graphmodel.Model, seeds []int, blocked []bool, rng *rand.Rand) []bool {
	activated := make([]bool, g.N)
	queue := make([]int, 0, g.N)
	for _, s := range seeds {
		if s >= 0 && s < g.N && !blocked[s] && !activated[s] {
			activated[s] = true
			queue = append(queue, s)
		}
	}
	if propagation == "LT" {
		ltTrial(g, model, activated, queue, blocked, rng)
	} else {
		icTrial(g, model, activated, queue, blocked, rng)
	}
	return activated
}

// FinalProbabilities estimates per-node activation probability across
// numSimulations independent forward trials seeded at initialNodes, with
// blockingNodes excluded from activating at all.
func FinalProbabilities(g *graphmodel.Graph, propagation string, model graphmodel.Model, initialNodes []int, numSimulations int, blockingNodes []int, rng *rand.Rand) []float64 {
	counts := make([]float64, g.N)
	if numSimulations <= 0 {
		return counts
	}
	blocked := blockedSet(blockingNodes, g.N)

	for i := 0; i < numSimulations; i++ {
		activated := runTrial(g, propagation, model, initialNodes, blocked, rng)
		for v, on := range activated {
			if on {
				counts[v]++
			}
		}
	}
	for v := range counts {
		counts[v] /= float64(numSimulations)
	}
	return counts
}

// parentInfo records who activated a node and with what edge probability.
type parentInfo struct {
	parent int
	prob   float64
}

// withTracking runs a single forward trial recording, for every activated
// non-seed node, the parent and the edge probability/weight that first
// crossed its activation condition.
func withTracking(g *graphmodel.Graph, propagation string, model graphmodel.Model, seeds []int, blockingNodes []int, rng *rand.Rand) map[int]parentInfo {
	parentMap := make(map[int]parentInfo)
	if len(seeds) == 0 {
		return parentMap
	}
	blocked := blockedSet(blockingNodes, g.N)

	activated := make([]bool, g.N)
	queue := make([]int, 0, g.N)
	for _, s := range seeds {
		if s >= 0 && s < g.N && !blocked[s] && !activated[s] {
			activated[s] = true
			queue = append(queue, s)
			parentMap[s] = parentInfo{parent: -1, prob: 1.0}
		}
	}

	if propagation == "LT" {
		thresholds := make([]float64, g.N)
		for i := range thresholds {
			thresholds[i] = rng.Float64()
		}
		totalWeight := make([]float64, g.N)
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			neigh := g.OutNeighbors(u)
			for i, v := range neigh {
				if activated[v] || blocked[v] {
					continue
				}
				w := g.OutProb(model, u, i)
				totalWeight[v] += w
				if totalWeight[v] >= thresholds[v] {
					activated[v] = true
					queue = append(queue, v)
					if _, ok := parentMap[v]; !ok {
						parentMap[v] = parentInfo{parent: u, prob: w}
					}
				}
			}
		}
	} else {
		for head := 0; head < len(queue); head++ {
			u := queue[head]
			neigh := g.OutNeighbors(u)
			for i, v := range neigh {
				if activated[v] || blocked[v] {
					continue
				}
				p := g.OutProb(model, u, i)
				if rng.Float64() < p {
					activated[v] = true
					queue = append(queue, v)
					parentMap[v] = parentInfo{parent: u, prob: p}
				}
			}
		}
	}
	return parentMap
}

// Witness is a single node's activating parent and the edge probability
// that first crossed its activation condition. Seeds have Parent -1.
type Witness struct {
	Parent int
	Prob   float64
}

// ParentWitness runs one tracked forward trial and exposes the full
// child->witness map, for callers (e.g. critical-path extraction) that
// need more than the top-50 edge list MainPropagationPaths returns.
func ParentWitness(g *graphmodel.Graph, propagation string, model graphmodel.Model, seeds []int, blockingNodes []int, rng *rand.Rand) map[int]Witness {
	raw := withTracking(g, propagation, model, seeds, blockingNodes, rng)
	out := make(map[int]Witness, len(raw))
	for child, info := range raw {
		out[child] = Witness{Parent: info.parent, Prob: info.prob}
	}
	return out
}

// MainPropagationPaths runs one unblocked tracked trial from seeds and
// returns up to 50 edges ordered by descending edge-activation
// probability, excluding seed self-entries.
func MainPropagationPaths(g *graphmodel.Graph, propagation string, model graphmodel.Model, seeds []int, rng *rand.Rand) []Edge {
	if len(seeds) == 0 {
		return nil
	}
	parentMap := withTracking(g, propagation, model, seeds, nil, rng)

	type weighted struct {
		prob float64
		edge Edge
	}
	all := make([]weighted, 0, len(parentMap))
	for child, info := range parentMap {
		if info.parent == -1 {
			continue
		}
		all = append(all, weighted{prob: info.prob, edge: Edge{From: info.parent, To: child}})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].prob != all[j].prob {
			return all[i].prob > all[j].prob
		}
		if all[i].edge.From != all[j].edge.From {
			return all[i].edge.From < all[j].edge.From
		}
		return all[i].edge.To < all[j].edge.To
	})

	limit := 50
	if len(all) < limit {
		limit = len(all)
	}
	out := make([]Edge, limit)
	for i := 0; i < limit; i++ {
		out[i] = all[i].edge
	}
	return out
}

// CutOffEdges compares an unblocked tracked trial against a Monte-Carlo
// probability estimate of the blocked state: every parent->child edge
// that activated the child before blocking, where the child's
// post-blocking activation probability (over numSimulations trials)
// falls below 0.5, is reported as a critical edge the blocker set
// severed.
func CutOffEdges(g *graphmodel.Graph, propagation string, model graphmodel.Model, negativeSeeds []int, blockingNodes []int, numSimulations int, rng *rand.Rand) []Edge {
	var cutOff []Edge
	if len(negativeSeeds) == 0 {
		return cutOff
	}

	originalParents := withTracking(g, propagation, model, negativeSeeds, nil, rng)
	if len(originalParents) == 0 {
		return cutOff
	}

	afterProbs := FinalProbabilities(g, propagation, model, negativeSeeds, numSimulations, blockingNodes, rng)
	activatedAfter := make([]bool, g.N)
	for v, p := range afterProbs {
		if p >= 0.5 {
			activatedAfter[v] = true
		}
	}

	children := make([]int, 0, len(originalParents))
	for child := range originalParents {
		children = append(children, child)
	}
	sort.Ints(children)

	for _, child := range children {
		info := originalParents[child]
		if info.parent == -1 {
			continue
		}
		if !activatedAfter[child] {
			cutOff = append(cutOff, Edge{From: info.parent, To: child})
		}
	}
	return cutOff
}
