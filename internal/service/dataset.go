// Package service owns the long-lived, process-wide state that sits
// around the query engine: which graph datasets are known, their loaded
// snapshots, and the bookkeeping (concurrency limiting, result caching)
// a query needs that the core engine itself deliberately stays ignorant
// of (spec.md §5 "callers enforce via an external deadline").
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/query"
)

// Dataset describes one loaded graph snapshot available for querying.
type Dataset struct {
	ID        string
	Name      string
	Path      string
	NodeCount int
	EdgeCount int
	LoadedAt  time.Time
}

// DatasetService owns every loaded Graph snapshot, keyed by dataset id.
// Snapshots are immutable once built (spec.md §3 "Lifecycle") and shared
// read-only across every query that references them, so the only
// mutable state here is the registry itself.
type DatasetService struct {
	dir  string
	seed int64
	log  zerolog.Logger

	mutex    sync.RWMutex
	datasets map[string]*Dataset
	graphs   map[string]*graphmodel.Graph
}

// NewDatasetService creates a dataset registry rooted at dir. Existing
// edge-list files in dir are not loaded eagerly; Scan (called once at
// startup by cmd/server) or Register populate the registry.
func NewDatasetService(dir string, seed int64, log zerolog.Logger) *DatasetService {
	return &DatasetService{
		dir:      dir,
		seed:     seed,
		datasets: make(map[string]*Dataset),
		graphs:   make(map[string]*graphmodel.Graph),
		log:      log,
	}
}

// Scan walks the dataset directory and registers every ".txt"/".edges"
// file it finds, using the file's basename (without extension) as both
// the dataset id and its display name. Graphs are loaded eagerly here so
// that a dataset id is immediately queryable once Scan returns, matching
// spec.md §3's "created on load" lifecycle for the snapshot rather than
// deferring loading to first query. A file that fails to load is logged
// and skipped; Scan returns an error only when the directory itself
// cannot be read.
func (s *DatasetService) Scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("dir", s.dir).Msg("dataset directory does not exist, starting with no datasets")
			return nil
		}
		return fmt.Errorf("service: failed to scan dataset directory %q: %w", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".txt" && ext != ".edges" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		path := filepath.Join(s.dir, entry.Name())
		if _, err := s.load(id, id, path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable dataset file")
			continue
		}
	}
	return nil
}

// Register loads a new dataset from an edge-list file already saved at
// path (for example by an upload handler) and adds it to the registry
// under a freshly minted id.
func (s *DatasetService) Register(name, path string) (*Dataset, error) {
	return s.load(uuid.New().String(), name, path)
}

// UploadEdgeList stages a raw edge-list body under the dataset directory
// and registers it, the equivalent of the teacher's DatasetService.Upload
// for our single-file (no properties/path sidecar) input format.
func (s *DatasetService) UploadEdgeList(name string, data []byte) (*Dataset, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("service: failed to create dataset directory %q: %w", s.dir, err)
	}

	id := uuid.New().String()
	path := filepath.Join(s.dir, id+".txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("service: failed to stage uploaded dataset: %w", err)
	}

	return s.load(id, name, path)
}

func (s *DatasetService) load(id, name, path string) (*Dataset, error) {
	g, err := graphmodel.Load(path, s.seed)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load dataset %q: %w", name, err)
	}

	edgeCount := 0
	for u := 0; u < g.N; u++ {
		edgeCount += len(g.OutNeighbors(u))
	}

	ds := &Dataset{
		ID:        id,
		Name:      name,
		Path:      path,
		NodeCount: g.N,
		EdgeCount: edgeCount,
		LoadedAt:  time.Now(),
	}

	s.mutex.Lock()
	s.datasets[id] = ds
	s.graphs[id] = g
	s.mutex.Unlock()

	s.log.Info().
		Str("dataset_id", id).
		Str("name", name).
		Int("nodes", ds.NodeCount).
		Int("edges", ds.EdgeCount).
		Msg("dataset loaded")

	return ds, nil
}

// List returns every registered dataset's metadata.
func (s *DatasetService) List() []*Dataset {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	return out
}

// Get returns a dataset's metadata by id.
func (s *DatasetService) Get(id string) (*Dataset, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	ds, ok := s.datasets[id]
	return ds, ok
}

// Delete removes a dataset from the registry. It does not remove the
// backing file, only in-memory state; the graph snapshot is dropped for
// garbage collection once no in-flight query still holds it.
func (s *DatasetService) Delete(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	delete(s.graphs, id)
	return true
}

// Orchestrator builds a query.Orchestrator bound to dataset id's Graph
// snapshot. The snapshot is shared read-only (spec.md §5); a fresh
// Orchestrator value is returned per call since it is a stateless wrapper
// over the shared graph plus a per-query logger.
func (s *DatasetService) Orchestrator(id string) (*query.Orchestrator, error) {
	s.mutex.RLock()
	g, ok := s.graphs[id]
	s.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("service: unknown dataset %q", id)
	}
	return query.New(g, s.log.With().Str("dataset_id", id).Logger()), nil
}

// Info converts a Dataset into its JSON-serializable form.
func (ds *Dataset) Info() models.DatasetInfo {
	return models.DatasetInfo{
		ID:        ds.ID,
		Name:      ds.Name,
		NodeCount: ds.NodeCount,
		EdgeCount: ds.EdgeCount,
		LoadedAt:  ds.LoadedAt,
	}
}
