package imm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/rngpool"
)

func TestLogCnkSymmetric(t *testing.T) {
	assert.InDelta(t, LogCnk(10, 3), LogCnk(10, 7), 1e-9)
}

func TestLogCnkEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, LogCnk(10, 0))
	assert.Equal(t, 0.0, LogCnk(10, 10))
	assert.Equal(t, -1.0, LogCnk(10, 11))
}

func TestRunChainSelectsRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n2 3\n"), 0o644))
	g, err := graphmodel.Load(path, 1)
	require.NoError(t, err)

	rng := rngpool.New(rngpool.DefaultSeed)
	result := Run(g, "IC", graphmodel.WC, 1, 0.3, rng)
	require.Len(t, result.Seeds, 1)
	assert.Equal(t, 0, result.Seeds[0])
}

func TestRunProducesBoundedSeedCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1\n1 2\n2 3\n0 2\n"), 0o644))
	g, err := graphmodel.Load(path, 1)
	require.NoError(t, err)

	rng := rngpool.New(rngpool.DefaultSeed)
	result := Run(g, "IC", graphmodel.WC, 2, 0.3, rng)
	assert.LessOrEqual(t, len(result.Seeds), 2)
}
