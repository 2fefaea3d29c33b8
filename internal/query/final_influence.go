package query

import (
	"math/rand"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/simulate"
)

// activationReportThreshold is the minimum probability a node needs to
// appear in a final-states report (spec.md §6: "for p>10⁻⁶").
const activationReportThreshold = 1e-6

// activeThreshold is the probability at/above which a node counts as
// "active" in a reported NodeState.
const activeThreshold = 0.5

// FinalInfluenceParams are the inputs to the final-influence query.
type FinalInfluenceParams struct {
	Propagation string
	Probability string
	Seeds       []int
	Blockers    []int
	Rng         *rand.Rand
}

// FinalInfluence estimates per-node activation probability via
// Monte-Carlo trial and reports every node crossing the reporting
// threshold plus the total expected reach.
func (o *Orchestrator) FinalInfluence(p FinalInfluenceParams) (*models.FinalInfluenceStateResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if len(p.Seeds) == 0 {
		return nil, apperr.New(apperr.InputMissing, "final-influence requires at least one seed")
	}

	probs := simulate.FinalProbabilities(o.Graph, p.Propagation, model, p.Seeds, DefaultSimulationCount, p.Blockers, p.Rng)
	total := sumProbs(probs)

	states := nodeStatesAboveThreshold(probs)

	return &models.FinalInfluenceStateResult{
		ResultID:       newResultID(),
		FinalStates:    states,
		TotalInfluence: total,
	}, nil
}

func nodeStatesAboveThreshold(probs []float64) []models.NodeState {
	var states []models.NodeState
	for v, p := range probs {
		if p <= activationReportThreshold {
			continue
		}
		state := "inactive"
		if p >= activeThreshold {
			state = "active"
		}
		states = append(states, models.NodeState{ID: v, State: state, Probability: p})
	}
	return states
}
