package api

import "github.com/gorilla/mux"

// SetupRoutes wires the seven query endpoints of spec.md §6 plus dataset
// management and result lookup onto router.
func SetupRoutes(router *mux.Router, h *Handlers) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", h.HealthCheck).Methods("GET")

	datasets := api.PathPrefix("/datasets").Subrouter()
	datasets.HandleFunc("", h.ListDatasets).Methods("GET")
	datasets.HandleFunc("", h.UploadDataset).Methods("POST")
	datasets.HandleFunc("/{datasetId}", h.GetDataset).Methods("GET")
	datasets.HandleFunc("/{datasetId}", h.DeleteDataset).Methods("DELETE")

	datasets.HandleFunc("/{datasetId}/maximize", h.Maximize).Methods("POST")
	datasets.HandleFunc("/{datasetId}/minimize", h.Minimize).Methods("POST")
	datasets.HandleFunc("/{datasetId}/final-influence", h.FinalInfluence).Methods("POST")
	datasets.HandleFunc("/{datasetId}/probability-animation", h.ProbabilityAnimation).Methods("POST")
	datasets.HandleFunc("/{datasetId}/blocking-animation", h.BlockingAnimation).Methods("POST")
	datasets.HandleFunc("/{datasetId}/community", h.Community).Methods("POST")
	datasets.HandleFunc("/{datasetId}/critical-paths", h.CriticalPaths).Methods("POST")

	api.HandleFunc("/results/{resultId}", h.GetResult).Methods("GET")
}
