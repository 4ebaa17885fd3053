package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/llm"
	"github.com/boardofone/advisory-backend/internal/discovery"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const (
	feedItemsPerFeed    = 10
	analysesPerUserTick = 3
)

// trendRefresher walks the user base each tick, analyzing fresh feed
// articles against each user's business context.
type trendRefresher struct {
	database *db.DB
	llm      llm.Client
	feeds    *discovery.FeedFetcher
	logger   *zerolog.Logger
}

func newTrendRefresher(database *db.DB, llmClient llm.Client, feeds *discovery.FeedFetcher, logger *zerolog.Logger) *trendRefresher {
	return &trendRefresher{
		database: database,
		llm:      llmClient,
		feeds:    feeds,
		logger:   logger,
	}
}

func (t *trendRefresher) refresh(ctx context.Context) {
	candidates, err := t.feeds.FetchTrendCandidates(ctx, feedItemsPerFeed)
	if err != nil {
		t.logger.Error().Err(err).Msg("trend feed fetch failed")

		return
	}

	if len(candidates) == 0 {
		return
	}

	userIDs, err := t.database.ListUserIDs(ctx)
	if err != nil {
		t.logger.Error().Err(err).Msg("list users for trend refresh failed")

		return
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return
		}

		t.refreshUser(ctx, userID, candidates)
	}
}

// refreshUser analyzes up to analysesPerUserTick articles this user has not
// seen yet. Budgeting per tick keeps one refresh cycle from monopolizing
// the LLM rate limit.
func (t *trendRefresher) refreshUser(ctx context.Context, userID string, candidates []discovery.SearchResult) {
	bc, err := t.database.GetBusinessContext(ctx, userID)
	if err != nil {
		t.logger.Warn().Err(err).Str("user_id", userID).Msg("load context for trend refresh failed")

		return
	}

	analyzed := 0

	for _, candidate := range candidates {
		if analyzed >= analysesPerUserTick {
			break
		}

		if candidate.URL == "" {
			continue
		}

		_, err := t.database.GetTrendInsight(ctx, userID, candidate.URL)
		if err == nil {
			continue
		}

		if !errors.Is(err, db.ErrTrendInsightNotFound) {
			t.logger.Warn().Err(err).Str("user_id", userID).Msg("trend insight lookup failed")

			continue
		}

		insight, err := t.llm.AnalyzeTrend(ctx, bc, candidate.URL, candidate.Title, candidate.Description)
		if err != nil {
			t.logger.Warn().Err(err).Str("url", candidate.URL).Msg("trend analysis failed")

			continue
		}

		if err := t.database.UpsertTrendInsight(ctx, userID, insight); err != nil {
			t.logger.Warn().Err(err).Str("url", candidate.URL).Msg("store trend insight failed")

			continue
		}

		analyzed++
	}

	if analyzed > 0 {
		t.logger.Debug().Str("user_id", userID).Int("analyzed", analyzed).Msg("trend refresh for user completed")
	}
}
