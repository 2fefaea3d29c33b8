package graphmodel

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// Load reads a whitespace-separated "u v" edge list from path, builds the
// dense adjacency and precomputed probability vectors, and returns the
// resulting snapshot. An unreadable file is fatal to the caller: spec.md
// §6 classifies this as aborting, not a recoverable query-time error, so
// Load returns a plain error for the caller to log and exit on, mirroring
// the original loader's loadGraphFromEdgeList which calls exit(EXIT_FAILURE).
func Load(path string, seed int64) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graphmodel: failed to open graph file %q: %w", path, err)
	}
	defer f.Close()

	var edges []edge
	maxID := -1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("graphmodel: %s:%d: expected \"u v\", got %q", path, lineNo, line)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil || u < 0 {
			return nil, fmt.Errorf("graphmodel: %s:%d: invalid node id %q", path, lineNo, fields[0])
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil || v < 0 {
			return nil, fmt.Errorf("graphmodel: %s:%d: invalid node id %q", path, lineNo, fields[1])
		}
		edges = append(edges, edge{u: u, v: v})
		if u > maxID {
			maxID = u
		}
		if v > maxID {
			maxID = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("graphmodel: failed to read graph file %q: %w", path, err)
	}

	n := maxID + 1
	if n <= 0 {
		return nil, fmt.Errorf("graphmodel: graph file %q contains no edges", path)
	}

	rng := rand.New(rand.NewSource(seed))
	return Build(n, edges, rng), nil
}
