package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

const mockModelName = "mock"

// mockClient returns deterministic insights for local development and tests.
type mockClient struct{}

// NewMockClient creates the keyless development client.
func NewMockClient() Client {
	return &mockClient{}
}

func (m *mockClient) AnalyzeCompetitor(_ context.Context, _ *domain.BusinessContext, name, _ string) (*domain.CompetitorInsight, error) {
	return &domain.CompetitorInsight{
		CompetitorName: name,
		Strengths:      []string{"established brand", "larger team"},
		Weaknesses:     []string{"slower release cycle"},
		Positioning:    fmt.Sprintf("%s positions itself as the incumbent option.", name),
		ThreatLevel:    "medium",
		Summary:        fmt.Sprintf("Mock analysis of %s.", name),
		Model:          mockModelName,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func (m *mockClient) AnalyzeTrend(_ context.Context, _ *domain.BusinessContext, sourceURL, title, _ string) (*domain.TrendInsight, error) {
	return &domain.TrendInsight{
		SourceURL: sourceURL,
		Title:     title,
		Summary:   "Mock trend summary.",
		Impact:    "medium",
		Direction: "neutral",
		Model:     mockModelName,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (m *mockClient) SummarizeTrends(_ context.Context, _ *domain.BusinessContext, insights []domain.TrendInsight) (*domain.TrendSummary, error) {
	return &domain.TrendSummary{
		Headline:    fmt.Sprintf("Mock rollup of %d trend insights.", len(insights)),
		KeyTrends:   []string{"mock trend"},
		Model:       mockModelName,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (m *mockClient) SuggestMetrics(_ context.Context, _ *domain.BusinessContext) ([]domain.MetricSuggestion, error) {
	return []domain.MetricSuggestion{
		{
			Field:      "churn_rate",
			Name:       "Monthly churn rate",
			Rationale:  "Mock suggestion.",
			Target:     "under 5%",
			Priority:   1,
			Confidence: 0.9,
		},
	}, nil
}

func (m *mockClient) Research(_ context.Context, _ *domain.BusinessContext, question string) (string, error) {
	return fmt.Sprintf("Mock research answer for: %s", question), nil
}
