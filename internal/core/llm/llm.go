// Package llm maps business context onto LLM-derived insights: competitor
// analysis, trend analysis and rollups, metric suggestions, and research
// answers.
//
// Providers are tried in priority order (Anthropic first, OpenAI as
// fallback), each behind a circuit breaker and rate limiter. Responses are
// decoded with a strict-then-extracted JSON fallback chain because models
// routinely wrap JSON in prose.
package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	"github.com/boardofone/advisory-backend/internal/platform/config"
)

// Client is the advisory-facing LLM surface.
type Client interface {
	// AnalyzeCompetitor produces a structured insight for one competitor,
	// optionally grounded on fetched source text.
	AnalyzeCompetitor(ctx context.Context, bc *domain.BusinessContext, name, sourceText string) (*domain.CompetitorInsight, error)

	// AnalyzeTrend produces a structured insight for one trend article.
	AnalyzeTrend(ctx context.Context, bc *domain.BusinessContext, sourceURL, title, content string) (*domain.TrendInsight, error)

	// SummarizeTrends rolls cached trend insights into the singleton summary.
	SummarizeTrends(ctx context.Context, bc *domain.BusinessContext, insights []domain.TrendInsight) (*domain.TrendSummary, error)

	// SuggestMetrics proposes structured metrics worth tracking, with a
	// skeptical second read of the business context.
	SuggestMetrics(ctx context.Context, bc *domain.BusinessContext) ([]domain.MetricSuggestion, error)

	// Research answers a free-form business question.
	Research(ctx context.Context, bc *domain.BusinessContext, question string) (string, error)
}

// ErrNoProvidersAvailable is returned when no configured provider can serve.
var ErrNoProvidersAvailable = errors.New("no LLM providers available")

// New creates the production client, or the mock when no key is configured.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	providers := make([]Provider, 0, 2)

	if cfg.AnthropicAPIKey != "" && cfg.AnthropicAPIKey != mockAPIKey {
		providers = append(providers, NewAnthropicProvider(cfg, logger))
	}

	if cfg.OpenAIAPIKey != "" && cfg.OpenAIAPIKey != mockAPIKey {
		providers = append(providers, NewOpenAIProvider(cfg, logger))
	}

	if len(providers) == 0 {
		return NewMockClient()
	}

	return newClient(providers, logger)
}
