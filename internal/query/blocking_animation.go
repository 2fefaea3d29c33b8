package query

import (
	"math/rand"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/simulate"
)

// BlockingAnimationParams are the inputs to the blocking-animation
// query.
type BlockingAnimationParams struct {
	Propagation     string
	Probability     string
	Seeds           []int
	OrderedBlockers []int
	Rng             *rand.Rand
}

// BlockingAnimation re-estimates influence after each prefix of the
// ordered blocker list, reporting newly_recovered nodes at each step
// (spec.md §4.9). The "already recovered" set is monotone across steps.
func (o *Orchestrator) BlockingAnimation(p BlockingAnimationParams) (*models.SimulationResult, error) {
	model, err := validateModels(p.Propagation, p.Probability)
	if err != nil {
		return nil, err
	}
	if len(p.Seeds) == 0 {
		return nil, apperr.New(apperr.InputMissing, "blocking-animation requires at least one seed")
	}

	steps := make([]models.SimulationStep, 0, len(p.OrderedBlockers)+1)
	recovered := make(map[int]bool)
	prevActive := make(map[int]bool)

	for i := 0; i <= len(p.OrderedBlockers); i++ {
		blockers := p.OrderedBlockers[:i]
		probs := simulate.FinalProbabilities(o.Graph, p.Propagation, model, p.Seeds, DefaultSimulationCount, blockers, p.Rng)

		active := make(map[int]bool, len(probs))
		states := nodeStatesAllWithActive(probs, active)

		var newlyActivated, newlyRecovered []int
		for v := range active {
			if !prevActive[v] {
				newlyActivated = append(newlyActivated, v)
			}
		}
		if i > 0 {
			for v := range prevActive {
				if !active[v] && !recovered[v] {
					newlyRecovered = append(newlyRecovered, v)
					recovered[v] = true
				}
			}
		}

		steps = append(steps, models.SimulationStep{
			Step:                i,
			NewlyActivatedNodes: newlyActivated,
			NewlyRecoveredNodes: newlyRecovered,
			NodeStates:          states,
		})
		prevActive = active
	}

	return &models.SimulationResult{
		ResultID:        newResultID(),
		TotalSteps:      len(steps) - 1,
		SimulationSteps: steps,
	}, nil
}

func nodeStatesAllWithActive(probs []float64, active map[int]bool) []models.NodeState {
	states := make([]models.NodeState, 0, len(probs))
	for v, p := range probs {
		if p <= activationReportThreshold {
			continue
		}
		isActive := p >= activeThreshold
		if isActive {
			active[v] = true
		}
		state := "inactive"
		if isActive {
			state = "active"
		}
		states = append(states, models.NodeState{ID: v, State: state, Probability: p})
	}
	return states
}
