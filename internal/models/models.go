// Package models holds the JSON-serializable result types returned by
// the seven query operations, translated from the original engine's
// API structures into idiomatic Go.
package models

import "time"

// APIResponse is the JSON envelope every HTTP endpoint replies with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DatasetInfo describes a registered graph dataset.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Edge is a directed parent->child propagation edge in a result payload.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// SeedNode is one selected influence-maximization seed.
type SeedNode struct {
	ID       int     `json:"id"`
	Priority float64 `json:"priority"`
}

// FinalInfluence summarizes an estimated influence spread.
type FinalInfluence struct {
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// MaximizeResult is the response body for the maximize query.
type MaximizeResult struct {
	ResultID             string         `json:"result_id"`
	SeedNodes            []SeedNode     `json:"seed_nodes"`
	FinalInfluence       FinalInfluence `json:"final_influence"`
	Message              string         `json:"message"`
	MainPropagationPaths []Edge         `json:"main_propagation_paths"`
}

// BlockingNode is one selected blocker.
type BlockingNode struct {
	ID       int     `json:"id"`
	Priority float64 `json:"priority"`
}

// MinimizeResult is the response body for the minimize query.
type MinimizeResult struct {
	OriginalResultID string         `json:"original_result_id"`
	BlockedResultID  string         `json:"blocked_result_id"`
	BlockingNodes    []BlockingNode `json:"blocking_nodes"`
	SeedNodes        []int          `json:"seed_nodes"`
	InfluenceBefore  FinalInfluence `json:"influence_before"`
	InfluenceAfter   FinalInfluence `json:"influence_after"`
	ReductionRatio   float64        `json:"reduction_ratio"`
	CutOffPaths      []Edge         `json:"cut_off_paths"`
	Message          string         `json:"message"`
}

// NodeState is a single node's state in a final-result or animation
// frame.
type NodeState struct {
	ID          int     `json:"id"`
	State       string  `json:"state"`
	Probability float64 `json:"probability"`
}

// FinalInfluenceStateResult is the response body for the
// final-influence query.
type FinalInfluenceStateResult struct {
	ResultID       string      `json:"result_id"`
	FinalStates    []NodeState `json:"final_states"`
	TotalInfluence float64     `json:"total_influence"`
}

// SimulationStep is one frame of a probability or blocking animation.
type SimulationStep struct {
	Step                int         `json:"step"`
	NewlyActivatedNodes []int       `json:"newly_activated_nodes"`
	NewlyRecoveredNodes []int       `json:"newly_recovered_nodes"`
	NodeStates          []NodeState `json:"node_states"`
}

// SimulationResult is the response body for probability-animation and
// blocking-animation queries.
type SimulationResult struct {
	ResultID        string           `json:"result_id"`
	TotalSteps      int              `json:"total_steps"`
	SimulationSteps []SimulationStep `json:"simulation_steps"`
}

// Community is the core data of a cohesive-subgraph extraction.
type Community struct {
	NodeIDs              []int   `json:"node_ids"`
	AverageInfluenceProb float64 `json:"average_influence_prob"`
	NodeCount            int     `json:"node_count"`
}

// CommunityResult is the response body for the community query.
type CommunityResult struct {
	ResultID    string      `json:"result_id"`
	Community   Community   `json:"community"`
	Message     string      `json:"message"`
	FinalStates []NodeState `json:"final_states"`
	SeedNodes   []int       `json:"seed_nodes"`
}

// CriticalPath is one extracted path and its score.
type CriticalPath struct {
	Nodes []int   `json:"nodes"`
	Score float64 `json:"score"`
	Type  string  `json:"type"`
}

// CriticalPathResult is the response body for the critical-paths query.
type CriticalPathResult struct {
	ResultID      string         `json:"result_id"`
	CriticalPaths []CriticalPath `json:"critical_paths"`
	Message       string         `json:"message"`
}

// ResultIDs returns every result id a result payload carries, so that
// internal/service's result cache can index it without a type-specific
// switch per operation. Most operations mint one id; minimize mints two.
func (r *MaximizeResult) ResultIDs() []string { return []string{r.ResultID} }

// ResultIDs implements the same accessor for MinimizeResult's pair of ids.
func (r *MinimizeResult) ResultIDs() []string {
	return []string{r.OriginalResultID, r.BlockedResultID}
}

// ResultIDs implements the same accessor for FinalInfluenceStateResult.
func (r *FinalInfluenceStateResult) ResultIDs() []string { return []string{r.ResultID} }

// ResultIDs implements the same accessor for SimulationResult.
func (r *SimulationResult) ResultIDs() []string { return []string{r.ResultID} }

// ResultIDs implements the same accessor for CommunityResult.
func (r *CommunityResult) ResultIDs() []string { return []string{r.ResultID} }

// ResultIDs implements the same accessor for CriticalPathResult.
func (r *CriticalPathResult) ResultIDs() []string { return []string{r.ResultID} }
