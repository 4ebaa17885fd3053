// Package embeddings provides question-embedding generation for the
// research cache.
//
// OpenAI is the only production provider; a deterministic mock backs tests
// and keyless local development. A circuit breaker guards the provider so a
// flapping API degrades cache lookups to misses instead of failing requests.
package embeddings

import (
	"context"

	"github.com/rs/zerolog"
)

// Client defines the interface for embedding operations.
type Client interface {
	// GetEmbedding generates an embedding for the given text.
	// Returns a vector with consistent dimensions (1536 by default).
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Default dimensions for embeddings (matches the DB schema).
const DefaultDimensions = 1536

// API key constants.
const mockAPIKey = "mock"

// Config holds configuration for creating an embedding client.
type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	RateLimit  int
}

// NewClient creates an embedding client. Without an API key the
// deterministic mock is returned.
func NewClient(cfg Config, logger *zerolog.Logger) Client {
	if cfg.APIKey == "" || cfg.APIKey == mockAPIKey {
		return NewMockProvider(cfg.Dimensions)
	}

	return NewOpenAIProvider(cfg, logger)
}
