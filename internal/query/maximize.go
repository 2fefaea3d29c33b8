package query

import (
	"fmt"
	"math/rand"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/coverage"
	"github.com/nodewave/influenceengine/internal/imm"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/simulate"
)

// MaximizeParams are the inputs to the maximize query.
type MaximizeParams struct {
	Propagation string
	Probability string
	K           int
	Epsilon     float64
	Rng         *rand.Rand
}

// Maximize runs the full IMM pipeline and returns the seed set, its
// estimated spread, and up to 50 main-propagation-path edges.
func (o *Orchestrator) Maximize(p MaximizeParams) (*models.MaximizeResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if p.K < 0 {
		return nil, apperr.New(apperr.ConfigInvalid, "k must be >= 0, got %d", p.K)
	}
	epsilon := p.Epsilon
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	result := imm.Run(o.Graph, p.Propagation, model, p.K, epsilon, p.Rng)
	n := o.Graph.N

	cov := coverage.Coverage(result.Store, result.Seeds, nil)
	count := 0.0
	if result.R > 0 {
		count = float64(cov) / float64(result.R) * float64(n)
	}
	ratio := 0.0
	if n > 0 {
		ratio = count / float64(n)
	}

	seedNodes := make([]models.SeedNode, len(result.Seeds))
	k := len(result.Seeds)
	for i, s := range result.Seeds {
		priority := 1.0
		if k > 0 {
			priority = float64(k-i) / float64(k)
		}
		seedNodes[i] = models.SeedNode{ID: s, Priority: priority}
	}

	paths := simulate.MainPropagationPaths(o.Graph, p.Propagation, model, result.Seeds, p.Rng)
	edges := make([]models.Edge, len(paths))
	for i, e := range paths {
		edges[i] = models.Edge{Source: e.From, Target: e.To}
	}

	message := fmt.Sprintf("selected %d seed(s) with estimated reach %.2f nodes (%.1f%% of the graph)", len(result.Seeds), count, ratio*100)

	return &models.MaximizeResult{
		ResultID:             newResultID(),
		SeedNodes:            seedNodes,
		FinalInfluence:       models.FinalInfluence{Count: int(count + 0.5), Ratio: ratio},
		Message:              message,
		MainPropagationPaths: edges,
	}, nil
}
