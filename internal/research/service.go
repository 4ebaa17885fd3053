// Package research answers free-form business questions through a
// semantic cache: questions are embedded, near-duplicate questions reuse the
// cached answer, and only genuinely new questions reach the LLM.
package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	"github.com/boardofone/advisory-backend/internal/core/embeddings"
	"github.com/boardofone/advisory-backend/internal/core/llm"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

// cacheStore is the storage surface the service needs.
type cacheStore interface {
	FindSimilarResearch(ctx context.Context, embedding []float32, similarity float32) (*db.ResearchEntry, error)
	InsertResearchAnswer(ctx context.Context, question string, embedding []float32, answer, model string) (string, error)
}

// Answer is one research response, cached or fresh.
type Answer struct {
	Answer       string    `json:"answer"`
	Model        string    `json:"model,omitempty"`
	Cached       bool      `json:"cached"`
	Similarity   float32   `json:"similarity,omitempty"`
	ResearchDate time.Time `json:"research_date"`
}

// Service wires embeddings, the cache, and the LLM together.
type Service struct {
	store     cacheStore
	embedder  embeddings.Client
	llm       llm.Client
	threshold float32
	logger    *zerolog.Logger
}

func NewService(store cacheStore, embedder embeddings.Client, llmClient llm.Client, threshold float32, logger *zerolog.Logger) *Service {
	return &Service{
		store:     store,
		embedder:  embedder,
		llm:       llmClient,
		threshold: threshold,
		logger:    logger,
	}
}

// Ask answers a question, serving from the cache when a semantically close
// question was answered before. A failure to store the fresh answer is
// counted and logged but never fails the request.
func (s *Service) Ask(ctx context.Context, bc *domain.BusinessContext, question string) (*Answer, error) {
	embedding, err := s.embedder.GetEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	entry, err := s.store.FindSimilarResearch(ctx, embedding, s.threshold)

	switch {
	case err == nil:
		cacheLookupsTotal.WithLabelValues(outcomeHit).Inc()
		s.logger.Debug().
			Float32("similarity", entry.Similarity).
			Int("access_count", entry.AccessCount).
			Msg("research cache hit")

		return &Answer{
			Answer:       entry.Answer,
			Model:        entry.Model,
			Cached:       true,
			Similarity:   entry.Similarity,
			ResearchDate: entry.ResearchDate,
		}, nil
	case errors.Is(err, db.ErrResearchCacheMiss):
		cacheLookupsTotal.WithLabelValues(outcomeMiss).Inc()
	default:
		return nil, fmt.Errorf("cache lookup: %w", err)
	}

	answer, err := s.llm.Research(ctx, bc, question)
	if err != nil {
		return nil, fmt.Errorf("research question: %w", err)
	}

	now := time.Now().UTC()

	if _, storeErr := s.store.InsertResearchAnswer(ctx, question, embedding, answer, ""); storeErr != nil {
		cacheStoreFailuresTotal.Inc()
		s.logger.Warn().Err(storeErr).Msg("failed to cache research answer")
	}

	return &Answer{
		Answer:       answer,
		Cached:       false,
		ResearchDate: now,
	}, nil
}
