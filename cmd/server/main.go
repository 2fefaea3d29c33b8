// Command server runs the influence-analysis engine behind an HTTP API:
// dataset registration plus the seven query endpoints of spec.md §6.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nodewave/influenceengine/internal/api"
	"github.com/nodewave/influenceengine/internal/config"
	"github.com/nodewave/influenceengine/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("starting influence analysis engine")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Info().
		Str("address", cfg.Server.Address).
		Str("dataset_dir", cfg.Engine.DatasetDir).
		Int("max_concurrent_queries", cfg.Engine.MaxConcurrentQueries).
		Dur("query_timeout", cfg.Engine.QueryTimeout).
		Int64("rng_seed", cfg.RNG.Seed).
		Bool("rng_deterministic", cfg.RNG.Deterministic).
		Msg("configuration loaded")

	datasetService := service.NewDatasetService(cfg.Engine.DatasetDir, cfg.RNG.Seed, log.Logger)
	if err := datasetService.Scan(); err != nil {
		log.Fatal().Err(err).Msg("failed to scan dataset directory")
	}

	queryService := service.NewQueryService(cfg.Engine.MaxConcurrentQueries, cfg.Engine.QueryTimeout, cfg.Engine.ResultTTL, log.Logger)

	handlers := api.NewHandlers(datasetService, queryService, cfg.RNG.Seed, cfg.RNG.Deterministic)

	router := mux.NewRouter()
	api.SetupRoutes(router, handlers)
	router.Use(api.LoggingMiddleware)
	router.Use(api.RecoveryMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}).Handler(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("http server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server shutdown complete")
}
