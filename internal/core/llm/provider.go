package llm

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const mockAPIKey = "mock"

// Token budgets per task. Summaries and research get more room than the
// single-item analyses.
const (
	maxTokensAnalysis = 1024
	maxTokensSummary  = 2048
	maxTokensResearch = 2048
)

const (
	circuitThreshold  = 5
	circuitResetAfter = time.Minute
)

// Provider is one model backend able to complete a prompt.
type Provider interface {
	Name() string
	// Priority orders fallback; lower is tried first.
	Priority() int
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// client fans a completion out over providers in priority order, skipping
// those whose circuit is open.
type client struct {
	providers []Provider
	logger    *zerolog.Logger

	mu       sync.Mutex
	failures map[string]int
	openedAt map[string]time.Time
}

func newClient(providers []Provider, logger *zerolog.Logger) *client {
	sorted := make([]Provider, len(providers))
	copy(sorted, providers)

	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Priority() < sorted[j-1].Priority(); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	return &client{
		providers: sorted,
		logger:    logger,
		failures:  make(map[string]int),
		openedAt:  make(map[string]time.Time),
	}
}

func (c *client) circuitOpen(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures[name] < circuitThreshold {
		return false
	}

	if time.Since(c.openedAt[name]) > circuitResetAfter {
		c.failures[name] = 0

		return false
	}

	return true
}

func (c *client) recordFailure(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures[name]++
	if c.failures[name] == circuitThreshold {
		c.openedAt[name] = time.Now()
		c.logger.Warn().Str("provider", name).Msg("LLM provider circuit opened")
	}
}

func (c *client) recordSuccess(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures[name] = 0
}
