package peel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewave/influenceengine/internal/graphmodel"
)

func loadGraph(t *testing.T, edgeList string) *graphmodel.Graph {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, []byte(edgeList), 0o644))
	g, err := graphmodel.Load(path, 1)
	require.NoError(t, err)
	return g
}

func statesAll(n int, p float64) []NodeProbability {
	out := make([]NodeProbability, n)
	for i := 0; i < n; i++ {
		out[i] = NodeProbability{ID: i, Probability: p}
	}
	return out
}

// a 4-clique, each node connected to every other: 0-1,0-2,0-3,1-2,1-3,2-3
// expressed as directed edges both ways so in/out degree is 3 for every
// node.
func cliqueEdges() string {
	return "0 1\n1 0\n0 2\n2 0\n0 3\n3 0\n1 2\n2 1\n1 3\n3 1\n2 3\n3 2\n"
}

func TestKLCoreSurvivesOnClique(t *testing.T) {
	g := loadGraph(t, cliqueEdges())
	result, err := KLCore(g, 3, 3, statesAll(4, 0.5), []int{0})
	require.NoError(t, err)
	assert.Equal(t, 4, result.NodeCount)
	assert.InDelta(t, 0.5, result.AverageInfluenceProb, 1e-9)
}

func TestKLCoreFailsWhenTooStrict(t *testing.T) {
	g := loadGraph(t, "0 1\n1 2\n")
	_, err := KLCore(g, 2, 2, statesAll(3, 0.5), []int{0})
	assert.ErrorIs(t, err, ErrInsufficientInfluence)
}

func TestKLCoreRejectsQueryNodeNotInfluenced(t *testing.T) {
	g := loadGraph(t, cliqueEdges())
	states := []NodeProbability{{ID: 1, Probability: 0.3}, {ID: 2, Probability: 0.3}, {ID: 3, Probability: 0.3}}
	_, err := KLCore(g, 1, 1, states, []int{0})
	assert.ErrorIs(t, err, ErrInsufficientInfluence)
}

func TestKCoreSurvivesOnClique(t *testing.T) {
	g := loadGraph(t, cliqueEdges())
	result, err := KCore(g, 3, statesAll(4, 1.0), []int{2})
	require.NoError(t, err)
	assert.Equal(t, 4, result.NodeCount)
	assert.Equal(t, []int{0, 1, 2, 3}, result.NodeIDs)
}

func TestKCorePeelsLowDegreePendant(t *testing.T) {
	// node 4 hangs off the clique with degree 1; a k=2 core should drop it.
	edges := cliqueEdges() + "0 4\n4 0\n"
	g := loadGraph(t, edges)
	result, err := KCore(g, 2, statesAll(5, 0.5), []int{0})
	require.NoError(t, err)
	assert.NotContains(t, result.NodeIDs, 4)
}

func TestKTrussRequiresKAtLeastTwo(t *testing.T) {
	g := loadGraph(t, cliqueEdges())
	_, err := KTruss(g, 1, statesAll(4, 0.5), []int{0})
	assert.ErrorIs(t, err, ErrInsufficientInfluence)
}

func TestKTrussSurvivesOnClique(t *testing.T) {
	g := loadGraph(t, cliqueEdges())
	// every edge in a 4-clique has support 2 (two triangles), so k=4
	// (min_support=2) should keep the whole clique.
	result, err := KTruss(g, 4, statesAll(4, 0.25), []int{0})
	require.NoError(t, err)
	assert.Equal(t, 4, result.NodeCount)
}

func TestKTrussDropsTriangleFreeEdge(t *testing.T) {
	// clique plus a pendant edge 0-4 with no triangle support; k=3
	// (min_support=1) should peel node 4 away.
	edges := cliqueEdges() + "0 4\n4 0\n"
	g := loadGraph(t, edges)
	result, err := KTruss(g, 3, statesAll(5, 0.5), []int{0})
	require.NoError(t, err)
	assert.NotContains(t, result.NodeIDs, 4)
}
