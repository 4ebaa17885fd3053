// Package enrich fetches and cleans web content used to ground competitor
// and trend analysis.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultFetchTimeout = 30 * time.Second
	fetcherBurst        = 2
	maxBodyBytes        = 2 << 20 // 2 MiB is plenty for an article page
	fetchUserAgent      = "advisory-backend/1.0 (+https://boardofone.example)"
)

var (
	// ErrNotHTML indicates the URL served something other than a web page.
	ErrNotHTML = errors.New("fetched content is not HTML")

	errFetchBadStatus = errors.New("fetch unexpected status")
)

// Article is the readable core of a fetched page.
type Article struct {
	URL         string
	Title       string
	Byline      string
	Excerpt     string
	TextContent string
	SiteName    string
}

// FetcherConfig holds fetcher tuning.
type FetcherConfig struct {
	Timeout          time.Duration
	RequestsPerSec   float64
	MaxContentLength int
}

// Fetcher downloads pages and reduces them to readable text via the Firefox
// Reader Mode algorithm.
type Fetcher struct {
	httpClient       *http.Client
	rateLimiter      *rate.Limiter
	maxContentLength int
	logger           *zerolog.Logger
}

func NewFetcher(cfg FetcherConfig, logger *zerolog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter:      rate.NewLimiter(rate.Limit(rps), fetcherBurst),
		maxContentLength: cfg.MaxContentLength,
		logger:           logger,
	}
}

// Fetch downloads rawURL and extracts its readable article text. When
// readability cannot find an article it falls back to stripped page text so
// callers always get something to analyze.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}

	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d for %s", errFetchBadStatus, resp.StatusCode, rawURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") && !strings.Contains(contentType, "xml") {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(body)), u)
	if err != nil {
		f.logger.Debug().Err(err).Str("url", rawURL).Msg("readability failed, falling back to stripped text")

		return &Article{
			URL:         rawURL,
			TextContent: f.clip(StripHTML(string(body))),
		}, nil
	}

	return &Article{
		URL:         rawURL,
		Title:       article.Title,
		Byline:      article.Byline,
		Excerpt:     article.Excerpt,
		TextContent: f.clip(NormalizeWhitespace(article.TextContent)),
		SiteName:    article.SiteName,
	}, nil
}

func (f *Fetcher) clip(s string) string {
	if f.maxContentLength <= 0 || len(s) <= f.maxContentLength {
		return s
	}

	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := f.maxContentLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
