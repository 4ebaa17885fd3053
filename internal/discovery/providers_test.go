package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTavilySearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"url":"https://acme.example.com/about","title":"Acme - CRM for plumbers","content":"Acme builds CRM software","score":0.91}
		]}`))
	}))
	defer server.Close()

	p := NewTavilyProvider(TavilyConfig{APIKey: "k", RequestsPerMin: 600})
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "crm competitors", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Domain != "acme.example.com" || results[0].Score != 0.91 {
		t.Fatalf("unexpected result: %+v", results[0])
	}
}

func TestTavilyBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewTavilyProvider(TavilyConfig{APIKey: "k", RequestsPerMin: 600})
	p.baseURL = server.URL

	if _, err := p.Search(context.Background(), "q", 5); !errors.Is(err, errTavilyBadStatus) {
		t.Fatalf("expected errTavilyBadStatus, got %v", err)
	}
}

func TestBraveSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(braveAuthHeader); got != "secret" {
			t.Errorf("missing subscription token, got %q", got)
		}

		if got := r.URL.Query().Get("q"); got != "crm competitors" {
			t.Errorf("unexpected query %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"url":"https://rival.example.com","title":"Rival CRM","description":"CRM for trades","page_age":"2026-08-01T00:00:00Z"}
		]}}`))
	}))
	defer server.Close()

	p := NewBraveProvider(BraveConfig{APIKey: "secret", RequestsPerMin: 600})
	p.baseURL = server.URL

	results, err := p.Search(context.Background(), "crm competitors", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].PublishedAt.IsZero() {
		t.Fatal("expected page_age parsed into PublishedAt")
	}
}

func TestProviderAvailability(t *testing.T) {
	if NewTavilyProvider(TavilyConfig{}).IsAvailable() {
		t.Fatal("keyless tavily should be unavailable")
	}

	if !NewBraveProvider(BraveConfig{APIKey: "k"}).IsAvailable() {
		t.Fatal("keyed brave should be available")
	}
}

type fakeProvider struct {
	name      ProviderName
	available bool
	results   []SearchResult
	err       error
	calls     int
}

func (f *fakeProvider) Name() ProviderName { return f.name }
func (f *fakeProvider) IsAvailable() bool  { return f.available }

func (f *fakeProvider) Search(_ context.Context, _ string, _ int) ([]SearchResult, error) {
	f.calls++

	return f.results, f.err
}

func TestSearchWithFallbackSkipsFailingProvider(t *testing.T) {
	broken := &fakeProvider{name: "broken", available: true, err: errors.New("down")}
	healthy := &fakeProvider{name: "healthy", available: true, results: []SearchResult{{URL: "https://x.example.com"}}}

	registry := NewProviderRegistry()
	registry.Register(broken)
	registry.Register(healthy)

	results, served, err := registry.SearchWithFallback(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("SearchWithFallback: %v", err)
	}

	if served != "healthy" || len(results) != 1 {
		t.Fatalf("expected fallback to healthy provider, got %q with %d results", served, len(results))
	}
}

func TestCircuitOpensAndSkips(t *testing.T) {
	broken := &fakeProvider{name: "broken", available: true, err: errors.New("down")}

	registry := NewProviderRegistry()
	registry.Register(broken)

	for i := 0; i < circuitBreakerThreshold; i++ {
		_, _, _ = registry.SearchWithFallback(context.Background(), "q", 5)
	}

	before := broken.calls

	if _, _, err := registry.SearchWithFallback(context.Background(), "q", 5); !errors.Is(err, ErrNoProvidersAvailable) {
		t.Fatalf("expected ErrNoProvidersAvailable, got %v", err)
	}

	if broken.calls != before {
		t.Fatal("provider was called while circuit was open")
	}

	if got := registry.AvailableProviders(); len(got) != 0 {
		t.Fatalf("expected no available providers, got %v", got)
	}
}
