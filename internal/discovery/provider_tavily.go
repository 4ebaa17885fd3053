package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	tavilyBaseURL        = "https://api.tavily.com/search"
	tavilyDefaultTimeout = 30 * time.Second
	tavilyDefaultRPM     = 10

	secondsPerMinute = 60.0
)

var (
	errTavilyBadStatus   = errors.New("tavily unexpected status")
	errTavilyRateLimited = errors.New("tavily rate limited")
)

// TavilyProvider implements Provider for the Tavily search API.
type TavilyProvider struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// TavilyConfig holds configuration for the Tavily provider.
type TavilyConfig struct {
	APIKey         string
	RequestsPerMin int
	Timeout        time.Duration
}

// NewTavilyProvider creates a Tavily provider instance.
func NewTavilyProvider(cfg TavilyConfig) *TavilyProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = tavilyDefaultTimeout
	}

	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = tavilyDefaultRPM
	}

	return &TavilyProvider{
		baseURL: tavilyBaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/secondsPerMinute), 1),
	}
}

func (p *TavilyProvider) Name() ProviderName {
	return ProviderTavily
}

func (p *TavilyProvider) IsAvailable() bool {
	return p.apiKey != ""
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type tavilyResponse struct {
	Results []struct {
		URL     string  `json:"url"`
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search queries Tavily. The API key travels in the JSON body, not a header.
func (p *TavilyProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tavily rate limit: %w", err)
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      p.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create tavily request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errTavilyRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errTavilyBadStatus, resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.Results))

	for _, r := range parsed.Results {
		results = append(results, SearchResult{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Content,
			Domain:      hostOf(r.URL),
			Score:       r.Score,
		})
	}

	return results, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return u.Hostname()
}
