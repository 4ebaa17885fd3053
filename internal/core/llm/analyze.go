package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

const maxMetricSuggestions = 5

func (c *client) AnalyzeCompetitor(ctx context.Context, bc *domain.BusinessContext, name, sourceText string) (*domain.CompetitorInsight, error) {
	raw, provider, err := c.completeWith(ctx, buildCompetitorPrompt(bc, name, sourceText), maxTokensAnalysis)
	if err != nil {
		return nil, fmt.Errorf("analyze competitor: %w", err)
	}

	var parsed struct {
		Strengths   []string `json:"strengths"`
		Weaknesses  []string `json:"weaknesses"`
		Positioning string   `json:"positioning"`
		ThreatLevel string   `json:"threat_level"`
		Summary     string   `json:"summary"`
	}

	if err := decodeResponse(raw, &parsed); err != nil {
		return nil, fmt.Errorf("analyze competitor: %w", err)
	}

	return &domain.CompetitorInsight{
		CompetitorName: name,
		Strengths:      parsed.Strengths,
		Weaknesses:     parsed.Weaknesses,
		Positioning:    parsed.Positioning,
		ThreatLevel:    normalizeLevel(parsed.ThreatLevel),
		Summary:        parsed.Summary,
		Model:          provider,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (c *client) AnalyzeTrend(ctx context.Context, bc *domain.BusinessContext, sourceURL, title, content string) (*domain.TrendInsight, error) {
	raw, provider, err := c.completeWith(ctx, buildTrendPrompt(bc, sourceURL, title, content), maxTokensAnalysis)
	if err != nil {
		return nil, fmt.Errorf("analyze trend: %w", err)
	}

	var parsed struct {
		Summary   string `json:"summary"`
		Impact    string `json:"impact"`
		Direction string `json:"direction"`
	}

	if err := decodeResponse(raw, &parsed); err != nil {
		return nil, fmt.Errorf("analyze trend: %w", err)
	}

	return &domain.TrendInsight{
		SourceURL: sourceURL,
		Title:     title,
		Summary:   parsed.Summary,
		Impact:    normalizeLevel(parsed.Impact),
		Direction: strings.ToLower(strings.TrimSpace(parsed.Direction)),
		Model:     provider,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (c *client) SummarizeTrends(ctx context.Context, bc *domain.BusinessContext, insights []domain.TrendInsight) (*domain.TrendSummary, error) {
	raw, provider, err := c.completeWith(ctx, buildTrendSummaryPrompt(bc, insights), maxTokensSummary)
	if err != nil {
		return nil, fmt.Errorf("summarize trends: %w", err)
	}

	var parsed struct {
		Headline      string   `json:"headline"`
		KeyTrends     []string `json:"key_trends"`
		Opportunities []string `json:"opportunities"`
		Risks         []string `json:"risks"`
	}

	if err := decodeResponse(raw, &parsed); err != nil {
		return nil, fmt.Errorf("summarize trends: %w", err)
	}

	return &domain.TrendSummary{
		Headline:      parsed.Headline,
		KeyTrends:     parsed.KeyTrends,
		Opportunities: parsed.Opportunities,
		Risks:         parsed.Risks,
		Model:         provider,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

func (c *client) SuggestMetrics(ctx context.Context, bc *domain.BusinessContext) ([]domain.MetricSuggestion, error) {
	raw, _, err := c.completeWith(ctx, buildMetricsPrompt(bc), maxTokensAnalysis)
	if err != nil {
		return nil, fmt.Errorf("suggest metrics: %w", err)
	}

	var suggestions []domain.MetricSuggestion
	if err := decodeResponse(raw, &suggestions); err != nil {
		return nil, fmt.Errorf("suggest metrics: %w", err)
	}

	// Keep only suggestions pointing at fields we actually track.
	valid := suggestions[:0]

	for _, s := range suggestions {
		if _, ok := domain.MetricFields[s.Field]; ok {
			valid = append(valid, s)
		}
	}

	if len(valid) > maxMetricSuggestions {
		valid = valid[:maxMetricSuggestions]
	}

	return valid, nil
}

func (c *client) Research(ctx context.Context, bc *domain.BusinessContext, question string) (string, error) {
	raw, _, err := c.completeWith(ctx, buildResearchPrompt(bc, question), maxTokensResearch)
	if err != nil {
		return "", fmt.Errorf("research: %w", err)
	}

	return strings.TrimSpace(raw), nil
}

// completeWith runs the fallback chain and reports which provider served.
func (c *client) completeWith(ctx context.Context, prompt string, maxTokens int) (string, string, error) {
	var lastErr error

	for _, p := range c.providers {
		if c.circuitOpen(p.Name()) {
			continue
		}

		out, err := p.Complete(ctx, prompt, maxTokens)
		if err != nil {
			c.recordFailure(p.Name())
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("LLM completion failed, trying next provider")
			lastErr = err

			continue
		}

		c.recordSuccess(p.Name())

		return out, p.Name(), nil
	}

	if lastErr != nil {
		return "", "", fmt.Errorf("all LLM providers failed: %w", lastErr)
	}

	return "", "", ErrNoProvidersAvailable
}

func normalizeLevel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return "low"
	case "high":
		return "high"
	default:
		return "medium"
	}
}
