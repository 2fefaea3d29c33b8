package query

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/peel"
	"github.com/nodewave/influenceengine/internal/simulate"
)

// CommunityMethod selects which cohesive-subgraph peeler backs the
// community query.
type CommunityMethod int

const (
	CommunityKL CommunityMethod = iota
	CommunityK
	CommunityTruss
)

// CommunityParams are the inputs to the community query.
type CommunityParams struct {
	Propagation string
	Probability string
	Method      CommunityMethod
	K           int
	L           int // only used by CommunityKL

	SeedMode   SeedMode
	SeedK      int
	ManualSeed []int
	Epsilon    float64

	QueryNodes []int
	Rng        *rand.Rand
}

// Community generates a seed set, estimates final influence, then
// extracts the cohesive subgraph containing a surviving query node via
// the requested peeler (spec.md §4.10).
func (o *Orchestrator) Community(p CommunityParams) (*models.CommunityResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if p.Method == CommunityTruss && p.K < 2 {
		return nil, apperr.New(apperr.ConfigInvalid, "k-truss requires k >= 2, got %d", p.K)
	}
	if len(p.QueryNodes) == 0 {
		return nil, apperr.New(apperr.InputMissing, "community requires at least one query node")
	}
	epsilon := p.Epsilon
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	seeds, err := generateSeeds(o, p.SeedMode, p.SeedK, p.ManualSeed, p.Propagation, model, epsilon, p.Rng)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, apperr.New(apperr.InputMissing, "community requires at least one seed")
	}

	probs := simulate.FinalProbabilities(o.Graph, p.Propagation, model, seeds, DefaultSimulationCount, nil, p.Rng)

	finalStates := make([]peel.NodeProbability, 0, len(probs))
	for v, pr := range probs {
		if pr > activationReportThreshold {
			finalStates = append(finalStates, peel.NodeProbability{ID: v, Probability: pr})
		}
	}
	anyInfluenced := len(finalStates) > 0
	if !anyInfluenced {
		return &models.CommunityResult{
			ResultID:    newResultID(),
			Message:     "no node was influenced; community extraction skipped",
			FinalStates: nodeStatesAboveThreshold(probs),
			SeedNodes:   seeds,
		}, nil
	}

	var result peel.Result
	switch p.Method {
	case CommunityKL:
		result, err = peel.KLCore(o.Graph, p.K, p.L, finalStates, p.QueryNodes)
	case CommunityK:
		result, err = peel.KCore(o.Graph, p.K, finalStates, p.QueryNodes)
	case CommunityTruss:
		result, err = peel.KTruss(o.Graph, p.K, finalStates, p.QueryNodes)
	default:
		return nil, apperr.New(apperr.ConfigInvalid, "unknown community method %d", p.Method)
	}

	if errors.Is(err, peel.ErrInsufficientInfluence) {
		return &models.CommunityResult{
			ResultID:    newResultID(),
			Message:     "no query node survived peeling at the requested cohesion threshold",
			FinalStates: nodeStatesAboveThreshold(probs),
			SeedNodes:   seeds,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("extracted a cohesive subgraph of %d node(s)", result.NodeCount)

	return &models.CommunityResult{
		ResultID: newResultID(),
		Community: models.Community{
			NodeIDs:              result.NodeIDs,
			AverageInfluenceProb: result.AverageInfluenceProb,
			NodeCount:            result.NodeCount,
		},
		Message:     message,
		FinalStates: nodeStatesAboveThreshold(probs),
		SeedNodes:   seeds,
	}, nil
}
