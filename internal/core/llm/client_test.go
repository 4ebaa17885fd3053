package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

type stubProvider struct {
	name     string
	priority int
	response string
	err      error
	calls    int
}

func (s *stubProvider) Name() string  { return s.name }
func (s *stubProvider) Priority() int { return s.priority }

func (s *stubProvider) Complete(_ context.Context, _ string, _ int) (string, error) {
	s.calls++

	return s.response, s.err
}

func TestCompleteFallsBackInPriorityOrder(t *testing.T) {
	logger := zerolog.Nop()
	primary := &stubProvider{name: "primary", priority: 0, err: errors.New("boom")}
	fallback := &stubProvider{name: "fallback", priority: 1, response: `{"summary":"s","impact":"high","direction":"tailwind"}`}

	// Registered out of order on purpose.
	c := newClient([]Provider{fallback, primary}, &logger)

	insight, err := c.AnalyzeTrend(context.Background(), nil, "https://example.com/a", "Title", "body")
	if err != nil {
		t.Fatalf("AnalyzeTrend: %v", err)
	}

	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected both providers tried once, got primary=%d fallback=%d", primary.calls, fallback.calls)
	}

	if insight.Model != "fallback" {
		t.Fatalf("expected serving provider recorded, got %q", insight.Model)
	}

	if insight.Impact != "high" || insight.Direction != "tailwind" {
		t.Fatalf("unexpected insight: %+v", insight)
	}
}

func TestCompleteAllProvidersFail(t *testing.T) {
	logger := zerolog.Nop()
	c := newClient([]Provider{&stubProvider{name: "p", err: errors.New("down")}}, &logger)

	if _, err := c.Research(context.Background(), nil, "q"); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestCircuitOpensAfterThreshold(t *testing.T) {
	logger := zerolog.Nop()
	failing := &stubProvider{name: "p", err: errors.New("down")}
	c := newClient([]Provider{failing}, &logger)

	for i := 0; i < circuitThreshold; i++ {
		_, _, _ = c.completeWith(context.Background(), "x", maxTokensAnalysis)
	}

	before := failing.calls

	if _, _, err := c.completeWith(context.Background(), "x", maxTokensAnalysis); !errors.Is(err, ErrNoProvidersAvailable) {
		t.Fatalf("expected ErrNoProvidersAvailable with open circuit, got %v", err)
	}

	if failing.calls != before {
		t.Fatal("provider was called while its circuit was open")
	}
}

func TestSuggestMetricsFiltersUnknownFields(t *testing.T) {
	logger := zerolog.Nop()
	p := &stubProvider{name: "p", response: `[
		{"field":"churn_rate","name":"Churn","priority":1},
		{"field":"made_up_metric","name":"Nope","priority":2},
		{"field":"monthly_burn","name":"Burn","priority":3}
	]`}
	c := newClient([]Provider{p}, &logger)

	got, err := c.SuggestMetrics(context.Background(), &domain.BusinessContext{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("SuggestMetrics: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 valid suggestions, got %d", len(got))
	}

	if got[0].Field != "churn_rate" || got[1].Field != "monthly_burn" {
		t.Fatalf("unexpected suggestions: %+v", got)
	}
}
