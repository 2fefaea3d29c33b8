package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/nodewave/influenceengine/internal/apperr"
	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/query"
	"github.com/nodewave/influenceengine/internal/rngpool"
	"github.com/nodewave/influenceengine/internal/service"
)

// Handlers implements the seven query endpoints of spec.md §6 plus
// dataset management, over a DatasetService and a QueryService.
type Handlers struct {
	datasets *service.DatasetService
	queries  *service.QueryService

	rngSeed        int64
	rngDetermined  bool
	requestCounter int64
}

// NewHandlers builds the HTTP handler set.
func NewHandlers(datasets *service.DatasetService, queries *service.QueryService, rngSeed int64, deterministic bool) *Handlers {
	return &Handlers{datasets: datasets, queries: queries, rngSeed: rngSeed, rngDetermined: deterministic}
}

// rng returns the PRNG for one incoming request: the fixed seed verbatim
// when the process is configured deterministic (spec.md §5 "default seed
// fixed for reproducibility"), otherwise a distinct substream per request
// so concurrent queries never share PRNG state.
func (h *Handlers) rng() *rand.Rand {
	if h.rngDetermined {
		return rngpool.New(h.rngSeed)
	}
	n := atomic.AddInt64(&h.requestCounter, 1)
	return rngpool.Substream(h.rngSeed, int(n))
}

// HealthCheck reports the service is up.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, "ok", map[string]string{"status": "healthy"})
}

// ListDatasets returns metadata for every registered dataset.
func (h *Handlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := h.datasets.List()
	infos := make([]models.DatasetInfo, len(datasets))
	for i, ds := range datasets {
		infos[i] = ds.Info()
	}
	writeSuccess(w, "datasets listed", infos)
}

// UploadDataset registers a new dataset from a raw whitespace-separated
// edge-list request body (spec.md §6 "Graph input").
func (h *Handlers) UploadDataset(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "unnamed-dataset"
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 256<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	ds, err := h.datasets.UploadEdgeList(name, body)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("dataset registration failed")
		writeError(w, http.StatusBadRequest, "dataset registration failed", err)
		return
	}

	writeSuccess(w, "dataset registered", ds.Info())
}

// GetDataset returns one dataset's metadata.
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["datasetId"]
	ds, ok := h.datasets.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "dataset not found", nil)
		return
	}
	writeSuccess(w, "dataset retrieved", ds.Info())
}

// DeleteDataset removes a dataset from the registry.
func (h *Handlers) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["datasetId"]
	if !h.datasets.Delete(id) {
		writeError(w, http.StatusNotFound, "dataset not found", nil)
		return
	}
	writeSuccess(w, "dataset deleted", nil)
}

// GetResult fetches a previously computed query result by its id.
func (h *Handlers) GetResult(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["resultId"]
	result, ok := h.queries.Result(id)
	if !ok {
		writeError(w, http.StatusNotFound, "result not found or expired", nil)
		return
	}
	writeSuccess(w, "result retrieved", result)
}

// orchestratorFor resolves the dataset in the request path to an
// Orchestrator, writing a 404 and returning ok=false on failure.
func (h *Handlers) orchestratorFor(w http.ResponseWriter, r *http.Request) (*query.Orchestrator, bool) {
	id := mux.Vars(r)["datasetId"]
	orc, err := h.datasets.Orchestrator(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "dataset not found", err)
		return nil, false
	}
	return orc, true
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// runQuery executes fn under the QueryService's concurrency/timeout
// bound and writes its result or a status-appropriate error response.
func runQuery(w http.ResponseWriter, queries *service.QueryService, fn func() (interface{}, error)) {
	result, err := queries.Run(fn)
	if err == nil {
		writeSuccess(w, "query completed", result)
		return
	}

	var timeoutErr *service.ErrTimeout
	if errors.As(err, &timeoutErr) {
		writeError(w, http.StatusGatewayTimeout, "query timed out", err)
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s", appErr.Kind), appErr)
		return
	}

	writeError(w, http.StatusInternalServerError, "query failed", err)
}

// Maximize handles the influence-maximization query.
func (h *Handlers) Maximize(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation string  `json:"propagation"`
		Probability string  `json:"probability"`
		K           int     `json:"k"`
		Epsilon     float64 `json:"epsilon"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.Maximize(query.MaximizeParams{
			Propagation: req.Propagation,
			Probability: req.Probability,
			K:           req.K,
			Epsilon:     req.Epsilon,
			Rng:         h.rng(),
		})
	})
}

// Minimize handles the influence-minimization query.
func (h *Handlers) Minimize(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation      string  `json:"propagation"`
		Probability      string  `json:"probability"`
		Budget           int     `json:"budget"`
		NegativeSeedMode string  `json:"negative_seed_mode"`
		NegativeSeedK    int     `json:"negative_seed_k"`
		ManualNegSeeds   []int   `json:"manual_negative_seeds"`
		Epsilon          float64 `json:"epsilon"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.Minimize(query.MinimizeParams{
			Propagation:      req.Propagation,
			Probability:      req.Probability,
			Budget:           req.Budget,
			NegativeSeedMode: query.SeedMode(req.NegativeSeedMode),
			NegativeSeedK:    req.NegativeSeedK,
			ManualNegSeeds:   req.ManualNegSeeds,
			Epsilon:          req.Epsilon,
			Rng:              h.rng(),
		})
	})
}

// FinalInfluence handles the final-influence query.
func (h *Handlers) FinalInfluence(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation string `json:"propagation"`
		Probability string `json:"probability"`
		Seeds       []int  `json:"seeds"`
		Blockers    []int  `json:"blockers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.FinalInfluence(query.FinalInfluenceParams{
			Propagation: req.Propagation,
			Probability: req.Probability,
			Seeds:       req.Seeds,
			Blockers:    req.Blockers,
			Rng:         h.rng(),
		})
	})
}

// ProbabilityAnimation handles the probability-animation query.
func (h *Handlers) ProbabilityAnimation(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation string  `json:"propagation"`
		Probability string  `json:"probability"`
		Seeds       []int   `json:"seeds"`
		Blockers    []int   `json:"blockers"`
		Delta       float64 `json:"delta"`
		MaxSteps    int     `json:"max_steps"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.ProbabilityAnimation(query.ProbabilityAnimationParams{
			Propagation: req.Propagation,
			Probability: req.Probability,
			Seeds:       req.Seeds,
			Blockers:    req.Blockers,
			Delta:       req.Delta,
			MaxSteps:    req.MaxSteps,
		})
	})
}

// BlockingAnimation handles the blocking-animation query.
func (h *Handlers) BlockingAnimation(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation     string `json:"propagation"`
		Probability     string `json:"probability"`
		Seeds           []int  `json:"seeds"`
		OrderedBlockers []int  `json:"ordered_blockers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.BlockingAnimation(query.BlockingAnimationParams{
			Propagation:     req.Propagation,
			Probability:     req.Probability,
			Seeds:           req.Seeds,
			OrderedBlockers: req.OrderedBlockers,
			Rng:             h.rng(),
		})
	})
}

// communityMethodFromString maps the request-body method name onto
// query.CommunityMethod, returning an error for anything unrecognized,
// which the Community handler answers with a 400.
func communityMethodFromString(s string) (query.CommunityMethod, error) {
	switch s {
	case "kl", "kl-core", "directed":
		return query.CommunityKL, nil
	case "k", "k-core", "undirected":
		return query.CommunityK, nil
	case "truss", "k-truss":
		return query.CommunityTruss, nil
	default:
		return 0, fmt.Errorf("unknown community method %q", s)
	}
}

// Community handles the cohesive-subgraph extraction query.
func (h *Handlers) Community(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation string  `json:"propagation"`
		Probability string  `json:"probability"`
		Method      string  `json:"method"`
		K           int     `json:"k"`
		L           int     `json:"l"`
		SeedMode    string  `json:"seed_mode"`
		SeedK       int     `json:"seed_k"`
		ManualSeed  []int   `json:"manual_seed"`
		Epsilon     float64 `json:"epsilon"`
		QueryNodes  []int   `json:"query_nodes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	method, err := communityMethodFromString(req.Method)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid community method", err)
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.Community(query.CommunityParams{
			Propagation: req.Propagation,
			Probability: req.Probability,
			Method:      method,
			K:           req.K,
			L:           req.L,
			SeedMode:    query.SeedMode(req.SeedMode),
			SeedK:       req.SeedK,
			ManualSeed:  req.ManualSeed,
			Epsilon:     req.Epsilon,
			QueryNodes:  req.QueryNodes,
			Rng:         h.rng(),
		})
	})
}

// CriticalPaths handles the deepest-propagation-path query.
func (h *Handlers) CriticalPaths(w http.ResponseWriter, r *http.Request) {
	orc, ok := h.orchestratorFor(w, r)
	if !ok {
		return
	}
	var req struct {
		Propagation string `json:"propagation"`
		Probability string `json:"probability"`
		Seeds       []int  `json:"seeds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	runQuery(w, h.queries, func() (interface{}, error) {
		return orc.CriticalPaths(query.CriticalPathsParams{
			Propagation: req.Propagation,
			Probability: req.Probability,
			Seeds:       req.Seeds,
			Rng:         h.rng(),
		})
	})
}
