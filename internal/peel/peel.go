// Package peel extracts cohesive subgraphs from the influenced-node set
// of a prior simulation result: directed (k,l)-core, undirected k-core,
// and k-truss, each followed by connected-component extraction around a
// query node (spec.md §4.10).
package peel

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nodewave/influenceengine/internal/graphmodel"
)

// ErrInsufficientInfluence is returned when none of the query nodes are
// present in the influenced set, or the peeling removes every candidate
// before a query node survives.
var ErrInsufficientInfluence = errors.New("peel: no query node survived")

// NodeProbability pairs a node with its final activation probability,
// the input shape produced by a prior simulation/estimation result.
type NodeProbability struct {
	ID          int
	Probability float64
}

// Result is a packaged cohesive-subgraph community.
type Result struct {
	NodeIDs              []int
	NodeCount            int
	AverageInfluenceProb float64
}

func searchSpace(g *graphmodel.Graph, influenced map[int]bool, queryNodes []int) (map[int]bool, []int, error) {
	validQuery := make([]int, 0, len(queryNodes))
	for _, qn := range queryNodes {
		if influenced[qn] {
			validQuery = append(validQuery, qn)
		}
	}
	if len(validQuery) == 0 {
		return nil, nil, ErrInsufficientInfluence
	}

	space := map[int]bool{validQuery[0]: true}
	queue := []int{validQuery[0]}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, v := range g.OutNeighbors(u) {
			if influenced[v] && !space[v] {
				space[v] = true
				queue = append(queue, v)
			}
		}
		for _, v := range g.InNeighbors(u) {
			if influenced[v] && !space[v] {
				space[v] = true
				queue = append(queue, v)
			}
		}
	}
	return space, validQuery, nil
}

func buildUndirectedAdj(g *graphmodel.Graph, space map[int]bool) map[int]map[int]bool {
	adj := make(map[int]map[int]bool, len(space))
	for u := range space {
		if adj[u] == nil {
			adj[u] = make(map[int]bool)
		}
		for _, v := range g.OutNeighbors(u) {
			if space[v] {
				if adj[u] == nil {
					adj[u] = make(map[int]bool)
				}
				if adj[v] == nil {
					adj[v] = make(map[int]bool)
				}
				adj[u][v] = true
				adj[v][u] = true
			}
		}
		for _, v := range g.InNeighbors(u) {
			if space[v] {
				if adj[u] == nil {
					adj[u] = make(map[int]bool)
				}
				if adj[v] == nil {
					adj[v] = make(map[int]bool)
				}
				adj[u][v] = true
				adj[v][u] = true
			}
		}
	}
	return adj
}

func extractComponent(start int, adj map[int]map[int]bool, candidates map[int]bool) map[int]bool {
	component := map[int]bool{}
	if !candidates[start] {
		return component
	}
	component[start] = true
	queue := []int{start}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for v := range adj[u] {
			if candidates[v] && !component[v] {
				component[v] = true
				queue = append(queue, v)
			}
		}
	}
	return component
}

func firstSurvivor(validQuery []int, candidates map[int]bool) (int, bool) {
	for _, qn := range validQuery {
		if candidates[qn] {
			return qn, true
		}
	}
	return 0, false
}

func packageResult(component map[int]bool, probs map[int]float64) Result {
	nodeIDs := make([]int, 0, len(component))
	values := make([]float64, 0, len(component))
	for node := range component {
		nodeIDs = append(nodeIDs, node)
		values = append(values, probs[node])
	}
	sort.Ints(nodeIDs)

	avg := 0.0
	if len(values) > 0 {
		avg = stat.Mean(values, nil)
	}
	return Result{NodeIDs: nodeIDs, NodeCount: len(nodeIDs), AverageInfluenceProb: avg}
}

func influencedAndProbs(finalStates []NodeProbability) (map[int]bool, map[int]float64) {
	influenced := make(map[int]bool, len(finalStates))
	probs := make(map[int]float64, len(finalStates))
	for _, ns := range finalStates {
		influenced[ns.ID] = true
		probs[ns.ID] = ns.Probability
	}
	return influenced, probs
}

// KLCore runs the directed (k,l)-core peeler: a node survives only while
// its in-degree within the candidate set is >=k and its out-degree is
// >=l, propagating decrements to its out/in-neighbors on every removal.
func KLCore(g *graphmodel.Graph, k, l int, finalStates []NodeProbability, queryNodes []int) (Result, error) {
	if len(finalStates) == 0 || k < 0 || l < 0 {
		return Result{}, ErrInsufficientInfluence
	}
	influenced, probs := influencedAndProbs(finalStates)
	space, validQuery, err := searchSpace(g, influenced, queryNodes)
	if err != nil {
		return Result{}, err
	}

	candidates := make(map[int]bool, len(space))
	inDeg := make(map[int]int, len(space))
	outDeg := make(map[int]int, len(space))
	for u := range space {
		candidates[u] = true
	}
	for u := range space {
		for _, v := range g.InNeighbors(u) {
			if candidates[v] {
				inDeg[u]++
			}
		}
		for _, v := range g.OutNeighbors(u) {
			if candidates[v] {
				outDeg[u]++
			}
		}
	}

	queue := []int{}
	queued := map[int]bool{}
	for u := range candidates {
		if inDeg[u] < k || outDeg[u] < l {
			queue = append(queue, u)
			queued[u] = true
		}
	}
	sort.Ints(queue)

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		if !candidates[u] {
			continue
		}
		delete(candidates, u)

		for _, v := range g.InNeighbors(u) {
			if candidates[v] {
				outDeg[v]--
				if outDeg[v] < l && !queued[v] {
					queue = append(queue, v)
					queued[v] = true
				}
			}
		}
		for _, v := range g.OutNeighbors(u) {
			if candidates[v] {
				inDeg[v]--
				if inDeg[v] < k && !queued[v] {
					queue = append(queue, v)
					queued[v] = true
				}
			}
		}
	}

	if len(candidates) == 0 {
		return Result{}, ErrInsufficientInfluence
	}
	survivor, ok := firstSurvivor(validQuery, candidates)
	if !ok {
		return Result{}, ErrInsufficientInfluence
	}

	component := map[int]bool{survivor: true}
	queue2 := []int{survivor}
	for head := 0; head < len(queue2); head++ {
		u := queue2[head]
		for _, v := range g.OutNeighbors(u) {
			if candidates[v] && !component[v] {
				component[v] = true
				queue2 = append(queue2, v)
			}
		}
		for _, v := range g.InNeighbors(u) {
			if candidates[v] && !component[v] {
				component[v] = true
				queue2 = append(queue2, v)
			}
		}
	}

	return packageResult(component, probs), nil
}

// KCore runs the undirected k-core peeler over the collapsed adjacency
// within the search space.
func KCore(g *graphmodel.Graph, k int, finalStates []NodeProbability, queryNodes []int) (Result, error) {
	if len(finalStates) == 0 || k < 0 {
		return Result{}, ErrInsufficientInfluence
	}
	influenced, probs := influencedAndProbs(finalStates)
	space, validQuery, err := searchSpace(g, influenced, queryNodes)
	if err != nil {
		return Result{}, err
	}

	adj := buildUndirectedAdj(g, space)
	candidates := make(map[int]bool, len(space))
	degree := make(map[int]int, len(space))
	for u := range space {
		candidates[u] = true
		degree[u] = len(adj[u])
	}

	queue := []int{}
	queued := map[int]bool{}
	for u := range candidates {
		if degree[u] < k {
			queue = append(queue, u)
			queued[u] = true
		}
	}
	sort.Ints(queue)

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		if !candidates[u] {
			continue
		}
		delete(candidates, u)
		for v := range adj[u] {
			if candidates[v] {
				degree[v]--
				if degree[v] < k && !queued[v] {
					queue = append(queue, v)
					queued[v] = true
				}
			}
		}
	}

	if len(candidates) == 0 {
		return Result{}, ErrInsufficientInfluence
	}
	survivor, ok := firstSurvivor(validQuery, candidates)
	if !ok {
		return Result{}, ErrInsufficientInfluence
	}

	component := extractComponent(survivor, adj, candidates)
	return packageResult(component, probs), nil
}

type edgeKey struct{ a, b int }

func makeEdge(u, v int) edgeKey {
	if u < v {
		return edgeKey{u, v}
	}
	return edgeKey{v, u}
}

// KTruss runs the k-truss peeler: edges with triangle support below
// k-2 are removed, cascading support decrements to their witness
// triangles, until all surviving edges meet the threshold.
func KTruss(g *graphmodel.Graph, k int, finalStates []NodeProbability, queryNodes []int) (Result, error) {
	if len(finalStates) == 0 || k < 2 {
		return Result{}, ErrInsufficientInfluence
	}
	minSupport := k - 2

	influenced, probs := influencedAndProbs(finalStates)
	space, validQuery, err := searchSpace(g, influenced, queryNodes)
	if err != nil {
		return Result{}, err
	}

	adj := buildUndirectedAdj(g, space)

	support := map[edgeKey]int{}
	witnesses := map[edgeKey][]int{}
	edges := map[edgeKey]bool{}

	nodes := make([]int, 0, len(adj))
	for u := range adj {
		nodes = append(nodes, u)
	}
	sort.Ints(nodes)

	for _, u := range nodes {
		neigh := make([]int, 0, len(adj[u]))
		for v := range adj[u] {
			neigh = append(neigh, v)
		}
		sort.Ints(neigh)
		for i := 0; i < len(neigh); i++ {
			for j := i + 1; j < len(neigh); j++ {
				v, w := neigh[i], neigh[j]
				if adj[v][w] {
					euv, euw, evw := makeEdge(u, v), makeEdge(u, w), makeEdge(v, w)
					support[euv]++
					support[euw]++
					support[evw]++
					witnesses[euv] = append(witnesses[euv], w)
					witnesses[euw] = append(witnesses[euw], v)
					witnesses[evw] = append(witnesses[evw], u)
					edges[euv] = true
					edges[euw] = true
					edges[evw] = true
				}
			}
		}
	}

	queue := make([]edgeKey, 0)
	queued := map[edgeKey]bool{}
	sortedEdges := make([]edgeKey, 0, len(edges))
	for e := range edges {
		sortedEdges = append(sortedEdges, e)
	}
	sort.Slice(sortedEdges, func(i, j int) bool {
		if sortedEdges[i].a != sortedEdges[j].a {
			return sortedEdges[i].a < sortedEdges[j].a
		}
		return sortedEdges[i].b < sortedEdges[j].b
	})
	for _, e := range sortedEdges {
		if support[e] < minSupport {
			queue = append(queue, e)
			queued[e] = true
		}
	}

	for head := 0; head < len(queue); head++ {
		e := queue[head]
		if !edges[e] {
			continue
		}
		delete(edges, e)

		u, v := e.a, e.b
		for _, w := range witnesses[e] {
			euw := makeEdge(u, w)
			evw := makeEdge(v, w)
			if edges[euw] {
				support[euw]--
				if support[euw] < minSupport && !queued[euw] {
					queue = append(queue, euw)
					queued[euw] = true
				}
			}
			if edges[evw] {
				support[evw]--
				if support[evw] < minSupport && !queued[evw] {
					queue = append(queue, evw)
					queued[evw] = true
				}
			}
		}
	}

	if len(edges) == 0 {
		return Result{}, ErrInsufficientInfluence
	}

	candidates := map[int]bool{}
	trussAdj := map[int]map[int]bool{}
	for e := range edges {
		candidates[e.a] = true
		candidates[e.b] = true
		if trussAdj[e.a] == nil {
			trussAdj[e.a] = map[int]bool{}
		}
		if trussAdj[e.b] == nil {
			trussAdj[e.b] = map[int]bool{}
		}
		trussAdj[e.a][e.b] = true
		trussAdj[e.b][e.a] = true
	}

	survivor, ok := firstSurvivor(validQuery, candidates)
	if !ok {
		return Result{}, ErrInsufficientInfluence
	}

	component := extractComponent(survivor, trussAdj, candidates)
	return packageResult(component, probs), nil
}
