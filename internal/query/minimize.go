package query

import (
	"fmt"
	"math/rand"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/blocker"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/simulate"
)

// MinimizeParams are the inputs to the minimize query.
type MinimizeParams struct {
	Propagation      string
	Probability      string
	Budget           int // number of blockers to select
	NegativeSeedMode SeedMode
	NegativeSeedK    int   // budget for IMM/RANDOM negative-seed generation
	ManualNegSeeds   []int // explicit negative seeds when NegativeSeedMode is MANUAL
	Epsilon          float64
	Rng              *rand.Rand
}

// riskySampleSize is the number of RR sets drawn for blocker selection.
// The spec names no formula for this (unlike IMM's epsilon-guaranteed
// schedule); it reuses spec.md §6's default Monte-Carlo trial count as a
// large-enough sample for a heuristic coverage restriction.
const riskySampleSize = DefaultSimulationCount

// Minimize generates the negative seeds (IMM, random draw, or the caller's
// list), estimates their reach before blocking, then runs the
// blocker-selection pipeline once against a freshly built RR-set store,
// pairing both runs' result ids (spec.md §6, SPEC_FULL.md §4).
func (o *Orchestrator) Minimize(p MinimizeParams) (*models.MinimizeResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if p.Budget < 0 {
		return nil, apperr.New(apperr.ConfigInvalid, "blocker budget must be >= 0, got %d", p.Budget)
	}
	epsilon := p.Epsilon
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	negativeSeeds, err := generateSeeds(o, p.NegativeSeedMode, p.NegativeSeedK, p.ManualNegSeeds, p.Propagation, model, epsilon, p.Rng)
	if err != nil {
		return nil, err
	}
	if len(negativeSeeds) == 0 {
		return nil, apperr.New(apperr.InputMissing, "minimize requires at least one negative seed")
	}

	originalResultID := newResultID()

	beforeProbs := simulate.FinalProbabilities(o.Graph, p.Propagation, model, negativeSeeds, DefaultSimulationCount, nil, p.Rng)
	beforeCount := sumProbs(beforeProbs)

	// The RR-set store used for blocker selection is built fresh here,
	// independent of any store the negative-seed generation pass may have
	// used internally, per spec.md §9's explicit-reset resolution.
	result := blocker.Run(o.Graph, p.Propagation, model, negativeSeeds, riskySampleSize, p.Budget, p.Rng)

	blockedResultID := newResultID()

	afterProbs := simulate.FinalProbabilities(o.Graph, p.Propagation, model, negativeSeeds, DefaultSimulationCount, result.Blockers, p.Rng)
	afterCount := sumProbs(afterProbs)

	n := o.Graph.N
	reduction := 0.0
	if beforeCount > 0 {
		reduction = (beforeCount - afterCount) / beforeCount
	}

	cutOff := simulate.CutOffEdges(o.Graph, p.Propagation, model, negativeSeeds, result.Blockers, DefaultSimulationCount, p.Rng)
	edges := make([]models.Edge, len(cutOff))
	for i, e := range cutOff {
		edges[i] = models.Edge{Source: e.From, Target: e.To}
	}

	blockingNodes := make([]models.BlockingNode, len(result.Blockers))
	m := len(result.Blockers)
	for i, b := range result.Blockers {
		priority := 1.0
		if m > 0 {
			priority = float64(m-i) / float64(m)
		}
		blockingNodes[i] = models.BlockingNode{ID: b, Priority: priority}
	}

	ratioOf := func(count float64) float64 {
		if n == 0 {
			return 0
		}
		return count / float64(n)
	}

	message := fmt.Sprintf("selected %d blocker(s), reducing estimated reach by %.1f%%", len(result.Blockers), reduction*100)

	return &models.MinimizeResult{
		OriginalResultID: originalResultID,
		BlockedResultID:  blockedResultID,
		BlockingNodes:    blockingNodes,
		SeedNodes:        negativeSeeds,
		InfluenceBefore:  models.FinalInfluence{Count: int(beforeCount + 0.5), Ratio: ratioOf(beforeCount)},
		InfluenceAfter:   models.FinalInfluence{Count: int(afterCount + 0.5), Ratio: ratioOf(afterCount)},
		ReductionRatio:   reduction,
		CutOffPaths:      edges,
		Message:          message,
	}, nil
}
