package graphmodel

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainEdges() []edge {
	return []edge{{0, 1}, {1, 2}, {2, 3}}
}

func TestBuildAdjacencyBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := Build(4, chainEdges(), rng)

	for u := 0; u < g.N; u++ {
		for _, v := range g.OutNeighbors(u) {
			found := false
			for _, back := range g.InNeighbors(v) {
				if back == u {
					found = true
					break
				}
			}
			assert.True(t, found, "edge (%d,%d) missing from in[%d]", u, v, v)
		}
	}
}

func TestWCProbability(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// star: hub 0 -> leaves 1..9, each leaf has inDeg 1.
	var edges []edge
	for leaf := 1; leaf <= 9; leaf++ {
		edges = append(edges, edge{0, leaf})
	}
	g := Build(10, edges, rng)
	for i := range g.OutNeighbors(0) {
		assert.Equal(t, 1.0, g.OutProb(WC, 0, i))
	}
}

func TestWCZeroInDegree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := Build(2, []edge{{0, 1}}, rng)
	// node 0 has inDeg 0 and no in-edge slot to look a WC value up in, so
	// the WC formula is checked directly on its in-degree.
	assert.Equal(t, 0, g.InDegree(0))
	assert.Equal(t, 0.0, wcProb(g.InDegree(0)))
}

func TestCOConstant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := Build(4, chainEdges(), rng)
	for u := 0; u < g.N; u++ {
		for i := range g.OutNeighbors(u) {
			assert.Equal(t, 0.1, g.OutProb(CO, u, i))
		}
	}
}

func TestTRAgreesAcrossViews(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := Build(4, chainEdges(), rng)
	for u := 0; u < g.N; u++ {
		for i, v := range g.OutNeighbors(u) {
			fwd := g.OutProb(TR, u, i)
			// find matching in-edge slot
			for j, from := range g.InNeighbors(v) {
				if from == u {
					assert.Equal(t, fwd, g.InProb(TR, v, j))
				}
			}
		}
	}
}

func TestTRValuesFromAllowedSet(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	g := Build(4, chainEdges(), rng)
	allowed := map[float64]bool{0.1: true, 0.01: true, 0.001: true}
	for u := 0; u < g.N; u++ {
		for i := range g.OutNeighbors(u) {
			assert.True(t, allowed[g.OutProb(TR, u, i)])
		}
	}
}

func TestParseModel(t *testing.T) {
	for _, name := range []string{"WC", "TR", "CO"} {
		_, err := ParseModel(name)
		assert.NoError(t, err)
	}
	_, err := ParseModel("BOGUS")
	assert.Error(t, err)
}

func TestLoadEdgeList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n2 3\n"), 0o644))

	g, err := Load(path, 42)
	require.NoError(t, err)
	assert.Equal(t, 4, g.N)
	assert.Equal(t, []int{1}, g.OutNeighbors(0))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/graph.txt", 1)
	assert.Error(t, err)
}
