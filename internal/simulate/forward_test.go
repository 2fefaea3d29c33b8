package simulate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/rngpool"
)

func loadChain(t *testing.T) *graphmodel.Graph {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n2 3\n"), 0o644))
	g, err := graphmodel.Load(path, 1)
	require.NoError(t, err)
	return g
}

func TestFinalProbabilitiesSeedAlwaysActive(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	probs := FinalProbabilities(g, "IC", graphmodel.WC, []int{0}, 50, nil, rng)
	assert.Equal(t, 1.0, probs[0])
}

func TestFinalProbabilitiesWCChainFullyPropagates(t *testing.T) {
	// WC probability on a chain with in-degree 1 at every hop is always 1,
	// so every node downstream of the seed activates in every trial.
	g := loadChain(t)
	rng := rngpool.New(1)
	probs := FinalProbabilities(g, "IC", graphmodel.WC, []int{0}, 20, nil, rng)
	for _, p := range probs {
		assert.Equal(t, 1.0, p)
	}
}

func TestFinalProbabilitiesBlockedNodeNeverActivates(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	probs := FinalProbabilities(g, "IC", graphmodel.WC, []int{0}, 20, []int{2}, rng)
	assert.Equal(t, 0.0, probs[2])
	assert.Equal(t, 0.0, probs[3])
	assert.Equal(t, 1.0, probs[1])
}

func TestFinalProbabilitiesBlockedSeedCannotStartPropagation(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	probs := FinalProbabilities(g, "IC", graphmodel.WC, []int{0}, 20, []int{0}, rng)
	for _, p := range probs {
		assert.Equal(t, 0.0, p)
	}
}

func TestMainPropagationPathsFollowsChain(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	paths := MainPropagationPaths(g, "IC", graphmodel.WC, []int{0}, rng)
	require.Len(t, paths, 3)
	assert.Contains(t, paths, Edge{From: 0, To: 1})
	assert.Contains(t, paths, Edge{From: 1, To: 2})
	assert.Contains(t, paths, Edge{From: 2, To: 3})
}

func TestMainPropagationPathsCapAtFifty(t *testing.T) {
	edges := make([]byte, 0)
	for i := 0; i < 80; i++ {
		edges = append(edges, []byte(
			// star graph: node 0 fans out to 80 leaves, each a length-1 path
			"0 "+itoa(i+1)+"\n")...)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, edges, 0o644))
	g, err := graphmodel.Load(path, 1)
	require.NoError(t, err)

	rng := rngpool.New(1)
	// WC gives every leaf (in-degree 1) probability 1, so all 80 edges
	// fire and the cap is what limits the result.
	paths := MainPropagationPaths(g, "IC", graphmodel.WC, []int{0}, rng)
	assert.LessOrEqual(t, len(paths), 50)
}

func TestMainPropagationPathsEmptySeeds(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	paths := MainPropagationPaths(g, "IC", graphmodel.WC, nil, rng)
	assert.Nil(t, paths)
}

func TestCutOffEdgesIdentifiesSeveredEdge(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	cut := CutOffEdges(g, "IC", graphmodel.WC, []int{0}, []int{1}, 200, rng)
	require.NotEmpty(t, cut)
	assert.Equal(t, Edge{From: 0, To: 1}, cut[0])
}

func TestCutOffEdgesEmptyWhenNoSeeds(t *testing.T) {
	g := loadChain(t)
	rng := rngpool.New(1)
	cut := CutOffEdges(g, "IC", graphmodel.WC, nil, []int{1}, 200, rng)
	assert.Empty(t, cut)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
