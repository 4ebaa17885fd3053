package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

// Sentinel errors for trend queries.
var (
	ErrTrendInsightNotFound = errors.New("trend insight not found")
	ErrTrendSummaryNotFound = errors.New("trend summary not found")
)

// UpsertTrendInsight caches an LLM analysis keyed by source URL.
func (db *DB) UpsertTrendInsight(ctx context.Context, userID string, insight *domain.TrendInsight) error {
	raw, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("encode trend insight: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO trend_insights (user_id, source_url, insight, model)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, source_url) DO UPDATE SET
			insight = EXCLUDED.insight,
			model = EXCLUDED.model,
			created_at = now()
	`, toUUID(userID), insight.SourceURL, raw, toText(insight.Model))
	if err != nil {
		return fmt.Errorf("upsert trend insight: %w", err)
	}

	return nil
}

// GetTrendInsight loads a cached analysis by source URL.
func (db *DB) GetTrendInsight(ctx context.Context, userID, sourceURL string) (*domain.TrendInsight, error) {
	var (
		raw     []byte
		created pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT insight, created_at
		FROM trend_insights
		WHERE user_id = $1 AND source_url = $2
	`, toUUID(userID), sourceURL).Scan(&raw, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrendInsightNotFound
		}

		return nil, fmt.Errorf("get trend insight: %w", err)
	}

	insight := &domain.TrendInsight{}
	if err := json.Unmarshal(raw, insight); err != nil {
		return nil, fmt.Errorf("decode trend insight: %w", err)
	}

	insight.CreatedAt = fromTimestamptz(created)

	return insight, nil
}

// ListTrendInsights returns cached analyses, newest first.
func (db *DB) ListTrendInsights(ctx context.Context, userID string, limit int) ([]domain.TrendInsight, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT insight, created_at
		FROM trend_insights
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, toUUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list trend insights: %w", err)
	}
	defer rows.Close()

	var result []domain.TrendInsight

	for rows.Next() {
		var (
			raw     []byte
			created pgtype.Timestamptz
		)

		if err := rows.Scan(&raw, &created); err != nil {
			return nil, fmt.Errorf("scan trend insight: %w", err)
		}

		var insight domain.TrendInsight
		if err := json.Unmarshal(raw, &insight); err != nil {
			return nil, fmt.Errorf("decode trend insight: %w", err)
		}

		insight.CreatedAt = fromTimestamptz(created)

		result = append(result, insight)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend insights: %w", err)
	}

	return result, nil
}

// UpsertTrendSummary stores the singleton cross-source rollup for a user.
func (db *DB) UpsertTrendSummary(ctx context.Context, userID string, summary *domain.TrendSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode trend summary: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO trend_summaries (user_id, summary, model, generated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			model = EXCLUDED.model,
			generated_at = now()
	`, toUUID(userID), raw, toText(summary.Model))
	if err != nil {
		return fmt.Errorf("upsert trend summary: %w", err)
	}

	return nil
}

// GetTrendSummary loads the user's trend rollup.
func (db *DB) GetTrendSummary(ctx context.Context, userID string) (*domain.TrendSummary, error) {
	var (
		raw       []byte
		generated pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT summary, generated_at
		FROM trend_summaries
		WHERE user_id = $1
	`, toUUID(userID)).Scan(&raw, &generated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrendSummaryNotFound
		}

		return nil, fmt.Errorf("get trend summary: %w", err)
	}

	summary := &domain.TrendSummary{}
	if err := json.Unmarshal(raw, summary); err != nil {
		return nil, fmt.Errorf("decode trend summary: %w", err)
	}

	summary.GeneratedAt = fromTimestamptz(generated)

	return summary, nil
}
