package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	braveBaseURL        = "https://api.search.brave.com/res/v1/web/search"
	braveDefaultTimeout = 30 * time.Second
	braveDefaultRPM     = 10
	braveAuthHeader     = "X-Subscription-Token"
)

var (
	errBraveBadStatus   = errors.New("brave unexpected status")
	errBraveRateLimited = errors.New("brave rate limited")
)

// BraveProvider implements Provider for the Brave Search API.
type BraveProvider struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// BraveConfig holds configuration for the Brave provider.
type BraveConfig struct {
	APIKey         string
	RequestsPerMin int
	Timeout        time.Duration
}

// NewBraveProvider creates a Brave provider instance.
func NewBraveProvider(cfg BraveConfig) *BraveProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = braveDefaultTimeout
	}

	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = braveDefaultRPM
	}

	return &BraveProvider{
		baseURL: braveBaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/secondsPerMinute), 1),
	}
}

func (p *BraveProvider) Name() ProviderName {
	return ProviderBrave
}

func (p *BraveProvider) IsAvailable() bool {
	return p.apiKey != ""
}

type braveResponse struct {
	Web struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
			PageAge     string `json:"page_age"`
		} `json:"results"`
	} `json:"web"`
}

func (p *BraveProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("brave rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create brave request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(braveAuthHeader, p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errBraveRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errBraveBadStatus, resp.StatusCode)
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.Web.Results))

	for _, r := range parsed.Web.Results {
		sr := SearchResult{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
			Domain:      hostOf(r.URL),
		}

		if r.PageAge != "" {
			if ts, parseErr := time.Parse(time.RFC3339, r.PageAge); parseErr == nil {
				sr.PublishedAt = ts
			}
		}

		results = append(results, sr)
	}

	return results, nil
}
