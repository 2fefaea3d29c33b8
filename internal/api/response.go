package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nodewave/influenceengine/internal/models"
)

// writeSuccess writes a 200 JSON envelope carrying data.
func writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: message, Data: data})
}

// writeError writes a JSON envelope carrying the given status and error.
func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := models.APIResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
	}
}
