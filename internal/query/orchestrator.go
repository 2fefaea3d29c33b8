// Package query composes the lower-level algorithmic packages into the
// seven query operations: Maximize, Minimize, FinalInfluence,
// ProbabilityAnimation, BlockingAnimation, Community, and CriticalPaths.
// It mints result ids, validates caller input into typed apperr errors,
// and turns NoInfluence/NoSurvivor into well-formed empty results rather
// than propagating them as Go errors (spec.md §7).
package query

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/graphmodel"
	"github.com/nodewave/influenceengine/internal/imm"
)

// DefaultSimulationCount is the Monte-Carlo trial count used wherever
// spec.md §6 doesn't name a smaller one ("Count T ... is 10000 unless
// otherwise specified").
const DefaultSimulationCount = 10000

// DefaultEpsilon is the IMM approximation slack used when a query
// doesn't specify its own.
const DefaultEpsilon = 0.1

// Orchestrator binds a loaded Graph snapshot and a logger to the seven
// query operations.
type Orchestrator struct {
	Graph *graphmodel.Graph
	Log   zerolog.Logger
}

// New builds an Orchestrator over a loaded graph snapshot.
func New(g *graphmodel.Graph, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{Graph: g, Log: log}
}

func newResultID() string { return uuid.New().String() }

func validateModels(propagation, probability string) (graphmodel.Model, error) {
	if propagation != "IC" && propagation != "LT" {
		return 0, apperr.New(apperr.ConfigInvalid, "unknown propagation model: %q", propagation)
	}
	model, err := graphmodel.ParseModel(probability)
	if err != nil {
		return 0, apperr.New(apperr.ConfigInvalid, "%s", err)
	}
	return model, nil
}

// SeedMode names how a seed set is produced.
type SeedMode string

const (
	SeedModeIMM    SeedMode = "IMM"
	SeedModeRandom SeedMode = "RANDOM"
	SeedModeManual SeedMode = "MANUAL"
)

// generateSeeds produces budget seeds per mode: IMM runs the full
// two-phase estimator, RANDOM draws budget distinct node ids uniformly,
// MANUAL returns the caller-supplied list verbatim.
func generateSeeds(o *Orchestrator, mode SeedMode, budget int, manual []int, propagation string, model graphmodel.Model, epsilon float64, rng *rand.Rand) ([]int, error) {
	switch mode {
	case SeedModeIMM:
		if budget < 0 {
			return nil, apperr.New(apperr.ConfigInvalid, "seed budget must be >= 0, got %d", budget)
		}
		result := imm.Run(o.Graph, propagation, model, budget, epsilon, rng)
		return result.Seeds, nil
	case SeedModeRandom:
		if budget < 0 {
			return nil, apperr.New(apperr.ConfigInvalid, "seed budget must be >= 0, got %d", budget)
		}
		return randomDistinctNodes(o.Graph.N, budget, rng), nil
	case SeedModeManual:
		if len(manual) == 0 {
			return nil, apperr.New(apperr.InputMissing, "manual seed mode requires a non-empty seed list")
		}
		return manual, nil
	default:
		return nil, apperr.New(apperr.ConfigInvalid, "unknown seed mode: %q", mode)
	}
}

func randomDistinctNodes(n, count int, rng *rand.Rand) []int {
	if count > n {
		count = n
	}
	if count <= 0 {
		return nil
	}
	perm := rng.Perm(n)
	out := make([]int, count)
	copy(out, perm[:count])
	return out
}

func sumProbs(probs []float64) float64 {
	total := 0.0
	for _, p := range probs {
		total += p
	}
	return total
}
