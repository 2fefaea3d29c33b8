package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEdgeList(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestScanRegistersEdgeListFiles(t *testing.T) {
	dir := t.TempDir()
	writeEdgeList(t, dir, "chain.txt", "0 1\n1 2\n2 3\n")
	writeEdgeList(t, dir, "ignored.json", "{}")

	svc := NewDatasetService(dir, 1, zerolog.Nop())
	require.NoError(t, svc.Scan())

	datasets := svc.List()
	require.Len(t, datasets, 1)
	assert.Equal(t, "chain", datasets[0].ID)
	assert.Equal(t, 4, datasets[0].NodeCount)
	assert.Equal(t, 3, datasets[0].EdgeCount)
}

func TestScanMissingDirectoryIsNotFatal(t *testing.T) {
	svc := NewDatasetService(filepath.Join(t.TempDir(), "missing"), 1, zerolog.Nop())
	assert.NoError(t, svc.Scan())
	assert.Empty(t, svc.List())
}

func TestRegisterAndOrchestrator(t *testing.T) {
	dir := t.TempDir()
	path := writeEdgeList(t, dir, "seed-source.txt", "0 1\n1 2\n")

	svc := NewDatasetService(dir, 1, zerolog.Nop())
	ds, err := svc.Register("uploaded", path)
	require.NoError(t, err)
	require.NotEmpty(t, ds.ID)

	orc, err := svc.Orchestrator(ds.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, orc.Graph.N)

	got, ok := svc.Get(ds.ID)
	require.True(t, ok)
	assert.Equal(t, ds.Name, got.Name)

	assert.True(t, svc.Delete(ds.ID))
	_, err = svc.Orchestrator(ds.ID)
	assert.Error(t, err)
}

func TestOrchestratorUnknownDataset(t *testing.T) {
	svc := NewDatasetService(t.TempDir(), 1, zerolog.Nop())
	_, err := svc.Orchestrator("does-not-exist")
	assert.Error(t, err)
}
