package query

import (
	"math/rand"
	"sort"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/simulate"
)

// CriticalPathsParams are the inputs to the critical-paths query.
type CriticalPathsParams struct {
	Propagation string
	Probability string
	Seeds       []int
	Rng         *rand.Rand
}

// CriticalPaths runs one tracked forward trial and reports the deepest
// seed-to-activated-node path in the resulting parent-witness forest.
// Ties on depth break toward the lowest-id deepest node, so the result
// is reproducible for a fixed rng seed.
func (o *Orchestrator) CriticalPaths(p CriticalPathsParams) (*models.CriticalPathResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if len(p.Seeds) == 0 {
		return nil, apperr.New(apperr.InputMissing, "critical-paths requires at least one seed")
	}

	witnesses := simulate.ParentWitness(o.Graph, p.Propagation, model, p.Seeds, nil, p.Rng)

	bestNode, bestDepth := -1, -1
	nodes := make([]int, 0, len(witnesses))
	for v := range witnesses {
		nodes = append(nodes, v)
	}
	sort.Ints(nodes)

	depthOf := make(map[int]int, len(witnesses))
	var depth func(int) int
	depth = func(v int) int {
		if d, ok := depthOf[v]; ok {
			return d
		}
		w := witnesses[v]
		d := 0
		if w.Parent != -1 {
			d = depth(w.Parent) + 1
		}
		depthOf[v] = d
		return d
	}

	for _, v := range nodes {
		d := depth(v)
		if d > bestDepth {
			bestDepth = d
			bestNode = v
		}
	}

	if bestNode == -1 || bestDepth == 0 {
		return &models.CriticalPathResult{
			ResultID: newResultID(),
			Message:  "no propagation occurred beyond the seed set",
		}, nil
	}

	var path []int
	for v := bestNode; v != -1; v = witnesses[v].Parent {
		path = append([]int{v}, path...)
	}

	return &models.CriticalPathResult{
		ResultID: newResultID(),
		CriticalPaths: []models.CriticalPath{
			{Nodes: path, Score: float64(len(path) - 1), Type: "deepest"},
		},
	}, nil
}
