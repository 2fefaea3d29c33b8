package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewave/influenceengine/internal/models"
	"github.com/nodewave/influenceengine/internal/service"
)

func setupTestRouter(t *testing.T) (*mux.Router, *service.DatasetService) {
	t.Helper()
	datasets := service.NewDatasetService(t.TempDir(), 1, zerolog.Nop())
	queries := service.NewQueryService(4, 5*time.Second, time.Minute, zerolog.Nop())
	handlers := NewHandlers(datasets, queries, 1234, true)

	router := mux.NewRouter()
	SetupRoutes(router, handlers)
	return router, datasets
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)
}

func TestUploadThenListDatasets(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets?name=chain", bytes.NewBufferString("0 1\n1 2\n2 3\n"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
	listW := httptest.NewRecorder()
	router.ServeHTTP(listW, listReq)

	resp := decodeEnvelope(t, listW)
	require.True(t, resp.Success)
	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestMaximizeOnUploadedDataset(t *testing.T) {
	router, datasets := setupTestRouter(t)
	ds, err := datasets.UploadEdgeList("chain", []byte("0 1\n1 2\n2 3\n"))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{
		"propagation": "IC",
		"probability": "WC",
		"k":           1,
		"epsilon":     0.5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/maximize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
}

func TestMaximizeUnknownDataset(t *testing.T) {
	router, _ := setupTestRouter(t)

	body, _ := json.Marshal(map[string]interface{}{"propagation": "IC", "probability": "WC", "k": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/does-not-exist/maximize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaximizeInvalidModelReturnsBadRequest(t *testing.T) {
	router, datasets := setupTestRouter(t)
	ds, err := datasets.UploadEdgeList("chain", []byte("0 1\n1 2\n"))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{"propagation": "IC", "probability": "NOPE", "k": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/maximize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
}

func TestResultLookupRoundTrips(t *testing.T) {
	router, datasets := setupTestRouter(t)
	ds, err := datasets.UploadEdgeList("chain", []byte("0 1\n1 2\n2 3\n"))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]interface{}{"propagation": "IC", "probability": "WC", "k": 1, "epsilon": 0.5})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/"+ds.ID+"/maximize", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	resultID, ok := data["result_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, resultID)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/results/"+resultID, nil)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)

	assert.Equal(t, http.StatusOK, getW.Code)
	assert.True(t, decodeEnvelope(t, getW).Success)
}

func TestDeleteDataset(t *testing.T) {
	router, datasets := setupTestRouter(t)
	ds, err := datasets.UploadEdgeList("chain", []byte("0 1\n"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/datasets/"+ds.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	_, ok := datasets.Get(ds.ID)
	assert.False(t, ok)
}
