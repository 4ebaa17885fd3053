package embeddings

import (
	"context"
	"hash/fnv"
)

// MockProvider generates deterministic embeddings from the input text hash,
// so similar-question lookups behave consistently in tests.
type MockProvider struct {
	dimensions int
}

// NewMockProvider creates a mock embedding provider.
func NewMockProvider(dimensions int) *MockProvider {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	return &MockProvider{dimensions: dimensions}
}

// GetEmbedding returns a deterministic pseudo-random unit-scale vector.
func (p *MockProvider) GetEmbedding(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))

	state := h.Sum64()
	vec := make([]float32, p.dimensions)

	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32(state>>40)/float32(1<<24) - 0.5
	}

	return vec, nil
}
