// Package probiter runs the deterministic fixed-point activation
// probability iteration used to build per-node animation frames
// (spec.md §4.8), as distinct from internal/simulate's stochastic
// Monte-Carlo trials.
package probiter

import "github.com/nodewave/influenceengine/internal/graphmodel"

const (
	// DefaultDelta is the convergence threshold: iteration stops once no
	// node's probability changes by more than this.
	DefaultDelta = 1e-6
	// DefaultMaxSteps bounds the iteration regardless of convergence.
	DefaultMaxSteps = 10
	// activeThreshold is the probability at/above which a node counts as
	// "active" for newly_activated bookkeeping.
	activeThreshold = 0.5
)

// NodeState is one node's animation-frame entry.
type NodeState struct {
	ID          int
	Active      bool
	Probability float64
}

// Step is one emitted SimulationStep.
type Step struct {
	Index          int
	NewlyActivated []int
	NodeStates     []NodeState
}

func blockedSet(blocked []int, n int) []bool {
	out := make([]bool, n)
	for _, b := range blocked {
		if b >= 0 && b < n {
			out[b] = true
		}
	}
	return out
}

func seedSet(seeds []int, n int) []bool {
	out := make([]bool, n)
	for _, s := range seeds {
		if s >= 0 && s < n {
			out[s] = true
		}
	}
	return out
}

// Run iterates the fixed point from step 0 (seeds at p=1, all else 0,
// blocked nodes excluded even if named as seeds) through convergence or
// maxSteps, whichever comes first. maxSteps<=0 uses DefaultMaxSteps and
// delta<=0 uses DefaultDelta.
func Run(g *graphmodel.Graph, propagation string, model graphmodel.Model, seeds, blocked []int, delta float64, maxSteps int) []Step {
	if delta <= 0 {
		delta = DefaultDelta
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	isBlocked := blockedSet(blocked, g.N)
	isSeed := seedSet(seeds, g.N)

	p := make([]float64, g.N)
	frozen := make([]bool, g.N)
	wasActive := make([]bool, g.N)

	for v := 0; v < g.N; v++ {
		if isSeed[v] && !isBlocked[v] {
			p[v] = 1
		}
		if isBlocked[v] || p[v] >= 1-delta {
			frozen[v] = true
		}
	}

	var unblockedSeeds []int
	for v := 0; v < g.N; v++ {
		if isSeed[v] && !isBlocked[v] {
			unblockedSeeds = append(unblockedSeeds, v)
		}
	}

	steps := make([]Step, 0, maxSteps+1)
	steps = append(steps, seedSnapshot(unblockedSeeds, p))
	for v := range p {
		wasActive[v] = p[v] >= activeThreshold
	}

	for step := 1; step <= maxSteps; step++ {
		prev := p
		next := make([]float64, g.N)
		copy(next, p)
		maxDelta := 0.0

		for v := 0; v < g.N; v++ {
			if isBlocked[v] || frozen[v] {
				continue
			}
			in := g.InNeighbors(v)
			var newP float64
			switch propagation {
			case "LT":
				sum := 0.0
				for j, u := range in {
					sum += p[u] * g.InProb(model, v, j)
				}
				if sum > 1 {
					sum = 1
				}
				newP = sum
			default:
				prodNotActivated := 1.0
				for j, u := range in {
					prodNotActivated *= 1 - p[u]*g.InProb(model, v, j)
				}
				newP = 1 - prodNotActivated
			}

			d := newP - p[v]
			if d < 0 {
				d = -d
			}
			if d > maxDelta {
				maxDelta = d
			}
			next[v] = newP
			if newP >= 1-delta {
				frozen[v] = true
			}
		}

		p = next
		steps = append(steps, snapshot(step, p, prev, wasActive, delta))
		for v := range p {
			wasActive[v] = p[v] >= activeThreshold
		}

		if maxDelta <= delta {
			break
		}
	}

	return steps
}

// seedSnapshot builds step 0, which reports only the unblocked seeds
// jumping straight to p=1, mirroring run_probability_simulation's step0
// loop rather than dumping every node's zero-probability state.
func seedSnapshot(seeds []int, p []float64) Step {
	states := make([]NodeState, len(seeds))
	newlyActivated := make([]int, len(seeds))
	for i, v := range seeds {
		states[i] = NodeState{ID: v, Active: p[v] >= activeThreshold, Probability: p[v]}
		newlyActivated[i] = v
	}
	return Step{Index: 0, NewlyActivated: newlyActivated, NodeStates: states}
}

// snapshot builds a post-step-0 Step, reporting only nodes whose
// probability moved by more than delta since the previous step or
// crossed the active threshold, instead of every node in the graph.
func snapshot(index int, p, prev []float64, wasActive []bool, delta float64) Step {
	var states []NodeState
	var newlyActivated []int
	for v, prob := range p {
		active := prob >= activeThreshold
		crossed := active && !wasActive[v]
		d := prob - prev[v]
		if d < 0 {
			d = -d
		}
		if d > delta || crossed {
			states = append(states, NodeState{ID: v, Active: active, Probability: prob})
		}
		if crossed {
			newlyActivated = append(newlyActivated, v)
		}
	}
	return Step{Index: index, NewlyActivated: newlyActivated, NodeStates: states}
}
