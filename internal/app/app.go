// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// the two operational modes:
//
//   - API mode: the advisory REST server
//   - Worker mode: background trend refresh and research cache cleanup
//
// Both modes share the health server on its own port.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/api"
	"github.com/boardofone/advisory-backend/internal/core/embeddings"
	"github.com/boardofone/advisory-backend/internal/core/llm"
	"github.com/boardofone/advisory-backend/internal/discovery"
	"github.com/boardofone/advisory-backend/internal/enrich"
	"github.com/boardofone/advisory-backend/internal/platform/config"
	"github.com/boardofone/advisory-backend/internal/platform/observability"
	"github.com/boardofone/advisory-backend/internal/platform/worker"
	"github.com/boardofone/advisory-backend/internal/research"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const (
	apiShutdownTimeout   = 10 * time.Second
	apiReadHeaderTimeout = 10 * time.Second
)

// App holds the application dependencies and runs the service modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates the application container.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer serves /healthz, /readyz, and /metrics until ctx ends.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database, a.cfg.HealthPort, a.logger).Start(ctx)
}

// buildRegistry wires every configured search provider and reports their
// availability to metrics.
func (a *App) buildRegistry() *discovery.ProviderRegistry {
	registry := discovery.NewProviderRegistry()

	tavily := discovery.NewTavilyProvider(discovery.TavilyConfig{
		APIKey:         a.cfg.TavilyAPIKey,
		RequestsPerMin: a.cfg.TavilyRPM,
		Timeout:        a.cfg.SearchTimeout,
	})
	registry.Register(tavily)
	observability.SetProviderAvailable(string(tavily.Name()), tavily.IsAvailable())

	brave := discovery.NewBraveProvider(discovery.BraveConfig{
		APIKey:         a.cfg.BraveAPIKey,
		RequestsPerMin: a.cfg.BraveRPM,
		Timeout:        a.cfg.SearchTimeout,
	})
	registry.Register(brave)
	observability.SetProviderAvailable(string(brave.Name()), brave.IsAvailable())

	return registry
}

func (a *App) buildServices() (api.Deps, *discovery.FeedFetcher) {
	llmClient := llm.New(a.cfg, a.logger)

	embedder := embeddings.NewClient(embeddings.Config{
		APIKey:     a.cfg.OpenAIAPIKey,
		Model:      a.cfg.EmbeddingModel,
		Dimensions: a.cfg.EmbeddingDimensions,
		RateLimit:  a.cfg.LLMRateLimitRPS,
	}, a.logger)

	fetcher := enrich.NewFetcher(enrich.FetcherConfig{
		Timeout:          a.cfg.WebFetchTimeout,
		RequestsPerSec:   a.cfg.WebFetchRPS,
		MaxContentLength: a.cfg.MaxContentLength,
	}, a.logger)

	registry := a.buildRegistry()

	deps := api.Deps{
		DB:       a.database,
		LLM:      llmClient,
		Detector: discovery.NewDetector(registry, a.logger),
		Fetcher:  fetcher,
		Research: research.NewService(a.database, embedder, llmClient, a.cfg.CacheSimilarityThreshold, a.logger),
	}

	feeds := discovery.NewFeedFetcher(a.cfg.TrendFeedURLs, a.logger)

	return deps, feeds
}

// RunAPI serves the advisory REST API until ctx is cancelled.
func (a *App) RunAPI(ctx context.Context) error {
	deps, _ := a.buildServices()
	handler := api.NewHandler(a.cfg, deps, a.logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.APIPort),
		Handler:           handler,
		ReadHeaderTimeout: apiReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info().Int("port", a.cfg.APIPort).Msg("API server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}

	return context.Cause(ctx)
}

// RunWorker runs the background loops: periodic trend refresh from the
// configured feeds and research cache cleanup.
func (a *App) RunWorker(ctx context.Context) error {
	deps, feeds := a.buildServices()
	refresher := newTrendRefresher(a.database, deps.LLM, feeds, a.logger)
	cleanup := research.NewCleanup(a.database, a.logger)

	return worker.TickerLoop(ctx, worker.TickerConfig{
		Name: "advisory-worker",
		Tasks: []worker.TickerTask{
			{
				Name:     "trend-refresh",
				Interval: a.cfg.TrendRefreshInterval,
				Run:      refresher.refresh,
			},
			{
				Name:     "cache-cleanup",
				Interval: a.cfg.CleanupInterval,
				Run: func(taskCtx context.Context) {
					_, err := cleanup.Run(taskCtx, research.CleanupOptions{
						MaxAge:      a.cfg.CacheMaxAge,
						AccessGrace: a.cfg.CacheAccessGrace,
					})
					if err != nil {
						a.logger.Error().Err(err).Msg("scheduled cache cleanup failed")
					}
				},
			},
		},
		Logger: a.logger,
	})
}
