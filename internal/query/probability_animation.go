package query

import (
	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/probiter"
)

// ProbabilityAnimationParams are the inputs to the probability-animation
// query.
type ProbabilityAnimationParams struct {
	Propagation string
	Probability string
	Seeds       []int
	Blockers    []int
	Delta       float64
	MaxSteps    int
}

// ProbabilityAnimation runs the deterministic fixed-point iterator and
// packages its frames as an ordered list of simulation steps.
func (o *Orchestrator) ProbabilityAnimation(p ProbabilityAnimationParams) (*models.SimulationResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if len(p.Seeds) == 0 {
		return nil, apperr.New(apperr.InputMissing, "probability-animation requires at least one seed")
	}

	steps := probiter.Run(o.Graph, p.Propagation, model, p.Seeds, p.Blockers, p.Delta, p.MaxSteps)

	out := make([]models.SimulationStep, len(steps))
	for i, s := range steps {
		out[i] = models.SimulationStep{
			Step:                s.Index,
			NewlyActivatedNodes: s.NewlyActivated,
			NodeStates:          convertNodeStates(s.NodeStates),
		}
	}

	return &models.SimulationResult{
		ResultID:        newResultID(),
		TotalSteps:      len(steps) - 1,
		SimulationSteps: out,
	}, nil
}

func convertNodeStates(states []probiter.NodeState) []models.NodeState {
	out := make([]models.NodeState, len(states))
	for i, s := range states {
		state := "inactive"
		if s.Active {
			state = "active"
		}
		out[i] = models.NodeState{ID: s.ID, State: state, Probability: s.Probability}
	}
	return out
}
