// Package graphmodel holds the immutable directed-graph snapshot the rest
// of the engine operates on: dense node ids, forward and transposed
// adjacency, and three precomputed per-edge activation-probability
// schemes (weighted cascade, trivalency, constant).
package graphmodel

import (
	"fmt"
	"math/rand"
)

// Model names an edge-probability scheme.
type Model int

const (
	// WC is weighted cascade: p(u,v) = 1/inDeg(v).
	WC Model = iota
	// TR is trivalency: p(u,v) drawn once at load time from {0.1,0.01,0.001}.
	TR
	// CO is constant: p(u,v) = 0.1 for every edge.
	CO
)

// ParseModel parses a probability-model name, returning an error the
// caller should surface as apperr.ConfigInvalid.
func ParseModel(name string) (Model, error) {
	switch name {
	case "WC":
		return WC, nil
	case "TR":
		return TR, nil
	case "CO":
		return CO, nil
	default:
		return 0, fmt.Errorf("unknown probability model: %q", name)
	}
}

// Graph is an immutable snapshot built once by Build and never mutated
// afterward. Node ids are dense integers in [0, N).
type Graph struct {
	N int

	out [][]int // out[u] = ordered out-neighbors of u
	in  [][]int // in[v]  = ordered in-neighbors of v

	// outProb[u][i] is the probability of edge (u, out[u][i]) under each
	// scheme; inProb[v][j] is the probability of edge (in[v][j], v) under
	// each scheme. Built so that the value for a given directed edge
	// agrees regardless of which side it is looked up from.
	outProbWC, outProbTR, outProbCO [][]float64
	inProbWC, inProbTR, inProbCO    [][]float64

	inDeg []int
}

// OutNeighbors returns u's ordered out-neighbor list. Callers must not
// mutate the returned slice.
func (g *Graph) OutNeighbors(u int) []int { return g.out[u] }

// InNeighbors returns v's ordered in-neighbor list. Callers must not
// mutate the returned slice.
func (g *Graph) InNeighbors(v int) []int { return g.in[v] }

// InDegree returns the number of edges incident into v.
func (g *Graph) InDegree(v int) int { return g.inDeg[v] }

// OutProb returns the probability of the i-th out-edge of u under model m.
func (g *Graph) OutProb(m Model, u, i int) float64 {
	return probAt(m, g.outProbWC, g.outProbTR, g.outProbCO, u, i)
}

// InProb returns the probability of the j-th in-edge of v under model m.
func (g *Graph) InProb(m Model, v, j int) float64 {
	return probAt(m, g.inProbWC, g.inProbTR, g.inProbCO, v, j)
}

func probAt(m Model, wc, tr, co [][]float64, a, i int) float64 {
	switch m {
	case WC:
		return wc[a][i]
	case TR:
		return tr[a][i]
	case CO:
		return co[a][i]
	default:
		panic("graphmodel: unknown model")
	}
}

// edge is a raw directed edge read from the input before adjacency and
// probabilities are built.
type edge struct{ u, v int }

// Build constructs a Graph from a raw edge list. n must be 1+max(node id)
// seen across edges; edges are not deduplicated, matching spec behavior.
// rng supplies the single draw per undirected pair used for TR
// probabilities.
func Build(n int, edges []edge, rng *rand.Rand) *Graph {
	g := &Graph{
		N:     n,
		out:   make([][]int, n),
		in:    make([][]int, n),
		inDeg: make([]int, n),
	}

	for _, e := range edges {
		g.out[e.u] = append(g.out[e.u], e.v)
		g.in[e.v] = append(g.in[e.v], e.u)
		g.inDeg[e.v]++
	}

	g.outProbWC = make([][]float64, n)
	g.outProbTR = make([][]float64, n)
	g.outProbCO = make([][]float64, n)
	g.inProbWC = make([][]float64, n)
	g.inProbTR = make([][]float64, n)
	g.inProbCO = make([][]float64, n)

	trChoices := [3]float64{0.1, 0.01, 0.001}

	// One TR draw per undirected pair {u,v}, shared identically by both
	// adjacency sides (and by u->v and v->u when both exist). See
	// DESIGN.md: the original C++ draws independently per view, which the
	// spec calls out as a bug; this draws once.
	pairKey := func(a, b int) [2]int {
		if a > b {
			a, b = b, a
		}
		return [2]int{a, b}
	}
	trByEdge := make(map[[2]int]float64, len(edges))
	for _, e := range edges {
		key := pairKey(e.u, e.v)
		if _, ok := trByEdge[key]; !ok {
			trByEdge[key] = trChoices[rng.Intn(len(trChoices))]
		}
	}

	for u := 0; u < n; u++ {
		g.outProbWC[u] = make([]float64, len(g.out[u]))
		g.outProbTR[u] = make([]float64, len(g.out[u]))
		g.outProbCO[u] = make([]float64, len(g.out[u]))
		for i, v := range g.out[u] {
			g.outProbWC[u][i] = wcProb(g.inDeg[v])
			g.outProbCO[u][i] = 0.1
			g.outProbTR[u][i] = trByEdge[pairKey(u, v)]
		}
	}
	for v := 0; v < n; v++ {
		g.inProbWC[v] = make([]float64, len(g.in[v]))
		g.inProbTR[v] = make([]float64, len(g.in[v]))
		g.inProbCO[v] = make([]float64, len(g.in[v]))
		wc := wcProb(g.inDeg[v])
		for j, u := range g.in[v] {
			g.inProbWC[v][j] = wc
			g.inProbCO[v][j] = 0.1
			g.inProbTR[v][j] = trByEdge[pairKey(u, v)]
		}
	}

	return g
}

func wcProb(inDeg int) float64 {
	if inDeg == 0 {
		return 0
	}
	return 1.0 / float64(inDeg)
}
