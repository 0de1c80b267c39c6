package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/opsmind/phonesystem/backend/internal/aggregator"
	"github.com/opsmind/phonesystem/backend/internal/api"
	"github.com/opsmind/phonesystem/backend/internal/cache"
	"github.com/opsmind/phonesystem/backend/internal/config"
	"github.com/opsmind/phonesystem/backend/internal/event"
	"github.com/opsmind/phonesystem/backend/internal/insights"
	"github.com/opsmind/phonesystem/backend/internal/metrics"
	"github.com/opsmind/phonesystem/backend/internal/platform"
	"github.com/opsmind/phonesystem/backend/internal/prompts"
	"github.com/opsmind/phonesystem/backend/internal/session"
	"github.com/opsmind/phonesystem/backend/internal/storage"
	"github.com/opsmind/phonesystem/backend/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Str("platform", cfg.PlatformBaseURL).
		Str("display_timezone", cfg.DisplayLocation.String()).
		Msg("starting OpsMind backend server")

	if cfg.PlatformAPIToken == "" {
		log.Warn().Msg("PLATFORM_API_TOKEN is empty, platform requests will be rejected")
	}

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ownership store
	storeCfg := storage.LoadConfig()
	store, err := storage.NewStore(ctx, storeCfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("mode", string(storeCfg.Mode)).Msg("failed to open ownership store")
	}
	defer store.Close()

	catalog, err := prompts.Load(cfg.PromptCatalog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load prompt catalog")
	}

	platformClient := platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformAPIToken, cfg.PlatformTimeout, log.Logger)

	// Call list cache, swept in the background
	callCache := cache.NewCallCache(cfg.CallCacheTTL)
	go callCache.StartSweeper(ctx, cfg.CacheSweepInterval, log.Logger.With().Str("component", "call_cache").Logger())

	aggregatorService := aggregator.NewAggregator(log.Logger)
	insightsService := insights.NewService(platformClient, callCache, aggregatorService, cfg.DisplayLocation, log.Logger)

	webhookReceiver := event.NewReceiver(insightsService, log.Logger)

	callsHandler := api.NewCallsHandler(insightsService, log.Logger)
	directoryHandler := api.NewDirectoryHandler(platformClient, store, log.Logger)
	assistantHandler := api.NewAssistantHandler(platformClient, store, insightsService, catalog, cfg.TestPhoneNumberID, log.Logger)
	promptHandler := api.NewPromptHandler(catalog, log.Logger)
	adminHandler := api.NewAdminHandler(store, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Internal routes, called by the voice platform
	r.Route("/internal", func(r chi.Router) {
		r.Post("/webhook", webhookReceiver.HandleWebhook)
		r.Get("/webhook/stats", webhookReceiver.GetStats)

		r.Route("/admin", func(r chi.Router) {
			r.Use(api.RequireAdmin(cfg.AdminToken))
			r.Delete("/ownership", adminHandler.WipeOwnership)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(session.Middleware)

		r.Get("/calls", callsHandler.ListCalls)
		r.Get("/calls/series", callsHandler.GetSeries)
		r.Get("/call", callsHandler.GetCall)

		r.Get("/agents", directoryHandler.ListAgents)
		r.Get("/phones", directoryHandler.ListPhones)
		r.Post("/phones", directoryHandler.LinkPhone)

		r.Post("/create-agent", assistantHandler.CreateAgent)
		r.Post("/test-call", assistantHandler.TestCall)
		r.Delete("/delete-assistant", assistantHandler.DeleteAssistant)

		r.Get("/system_prompt", promptHandler.SystemPrompt)
		r.Get("/first_message", promptHandler.FirstMessage)
	})

	// Create HTTP server; uploads and platform round trips need a longer write timeout
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.PlatformTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the cache sweeper
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"opsmind-backend"}`)
}
