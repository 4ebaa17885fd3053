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

// Sentinel errors for competitor queries.
var (
	ErrCompetitorNotFound        = errors.New("competitor not found")
	ErrCompetitorInsightNotFound = errors.New("competitor insight not found")
)

// UpsertManagedCompetitor saves a managed competitor, keyed by normalized name.
func (db *DB) UpsertManagedCompetitor(ctx context.Context, userID string, c *domain.ManagedCompetitor, normalizedName string) (string, error) {
	var enrichment []byte

	if len(c.Enrichment) > 0 {
		raw, err := json.Marshal(c.Enrichment)
		if err != nil {
			return "", fmt.Errorf("encode enrichment: %w", err)
		}

		enrichment = raw
	}

	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO managed_competitors (
			user_id,
			name,
			normalized_name,
			website,
			description,
			enrichment
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, normalized_name) DO UPDATE SET
			name = EXCLUDED.name,
			website = COALESCE(EXCLUDED.website, managed_competitors.website),
			description = COALESCE(EXCLUDED.description, managed_competitors.description),
			enrichment = COALESCE(EXCLUDED.enrichment, managed_competitors.enrichment),
			updated_at = now()
		RETURNING id
	`, toUUID(userID), SanitizeUTF8(c.Name), normalizedName, toText(c.Website), toText(c.Description), enrichment).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert managed competitor: %w", err)
	}

	return fromUUID(id), nil
}

// ListManagedCompetitors returns the user's saved competitors.
func (db *DB) ListManagedCompetitors(ctx context.Context, userID string) ([]domain.ManagedCompetitor, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, website, description, enrichment, created_at, updated_at
		FROM managed_competitors
		WHERE user_id = $1
		ORDER BY name
	`, toUUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list managed competitors: %w", err)
	}
	defer rows.Close()

	var result []domain.ManagedCompetitor

	for rows.Next() {
		var (
			c          domain.ManagedCompetitor
			id         pgtype.UUID
			website    pgtype.Text
			desc       pgtype.Text
			enrichment []byte
			created    pgtype.Timestamptz
			updated    pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &c.Name, &website, &desc, &enrichment, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan managed competitor: %w", err)
		}

		c.ID = fromUUID(id)
		c.Website = fromText(website)
		c.Description = fromText(desc)
		c.CreatedAt = fromTimestamptz(created)
		c.UpdatedAt = fromTimestamptz(updated)

		if len(enrichment) > 0 {
			if err := json.Unmarshal(enrichment, &c.Enrichment); err != nil {
				return nil, fmt.Errorf("decode enrichment: %w", err)
			}
		}

		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managed competitors: %w", err)
	}

	return result, nil
}

// DeleteManagedCompetitor removes a saved competitor by ID.
func (db *DB) DeleteManagedCompetitor(ctx context.Context, userID, competitorID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM managed_competitors
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(competitorID))
	if err != nil {
		return fmt.Errorf("delete managed competitor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrCompetitorNotFound
	}

	return nil
}

// UpsertDetectedCompetitor records a search hit. Repeated detection of the
// same competitor keeps the best relevance score seen.
func (db *DB) UpsertDetectedCompetitor(ctx context.Context, userID string, c *domain.DetectedCompetitor, normalizedName string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO detected_competitors (
			user_id,
			name,
			normalized_name,
			website,
			snippet,
			provider,
			relevance_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, normalized_name) DO UPDATE SET
			website = COALESCE(EXCLUDED.website, detected_competitors.website),
			snippet = EXCLUDED.snippet,
			provider = EXCLUDED.provider,
			relevance_score = GREATEST(EXCLUDED.relevance_score, detected_competitors.relevance_score),
			detected_at = now()
	`, toUUID(userID), SanitizeUTF8(c.Name), normalizedName, toText(c.Website),
		toText(c.Snippet), c.Provider, toFloat4(c.RelevanceScore))
	if err != nil {
		return fmt.Errorf("upsert detected competitor: %w", err)
	}

	return nil
}

// ListDetectedCompetitors returns detection results ordered by relevance.
func (db *DB) ListDetectedCompetitors(ctx context.Context, userID string, limit int) ([]domain.DetectedCompetitor, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, website, snippet, provider, relevance_score, detected_at
		FROM detected_competitors
		WHERE user_id = $1
		ORDER BY relevance_score DESC, detected_at DESC
		LIMIT $2
	`, toUUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list detected competitors: %w", err)
	}
	defer rows.Close()

	var result []domain.DetectedCompetitor

	for rows.Next() {
		var (
			c        domain.DetectedCompetitor
			id       pgtype.UUID
			website  pgtype.Text
			snippet  pgtype.Text
			score    pgtype.Float4
			detected pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &c.Name, &website, &snippet, &c.Provider, &score, &detected); err != nil {
			return nil, fmt.Errorf("scan detected competitor: %w", err)
		}

		c.ID = fromUUID(id)
		c.Website = fromText(website)
		c.Snippet = fromText(snippet)
		c.RelevanceScore = fromFloat4(score)
		c.DetectedAt = fromTimestamptz(detected)

		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detected competitors: %w", err)
	}

	return result, nil
}

// UpsertCompetitorInsight caches an LLM analysis keyed by competitor name.
func (db *DB) UpsertCompetitorInsight(ctx context.Context, userID string, insight *domain.CompetitorInsight) error {
	raw, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("encode competitor insight: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO competitor_insights (user_id, competitor_name, insight, model)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, competitor_name) DO UPDATE SET
			insight = EXCLUDED.insight,
			model = EXCLUDED.model,
			created_at = now()
	`, toUUID(userID), SanitizeUTF8(insight.CompetitorName), raw, toText(insight.Model))
	if err != nil {
		return fmt.Errorf("upsert competitor insight: %w", err)
	}

	return nil
}

// GetCompetitorInsight loads a cached analysis by competitor name.
func (db *DB) GetCompetitorInsight(ctx context.Context, userID, competitorName string) (*domain.CompetitorInsight, error) {
	var (
		raw     []byte
		created pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT insight, created_at
		FROM competitor_insights
		WHERE user_id = $1 AND competitor_name = $2
	`, toUUID(userID), competitorName).Scan(&raw, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompetitorInsightNotFound
		}

		return nil, fmt.Errorf("get competitor insight: %w", err)
	}

	insight := &domain.CompetitorInsight{}
	if err := json.Unmarshal(raw, insight); err != nil {
		return nil, fmt.Errorf("decode competitor insight: %w", err)
	}

	insight.CreatedAt = fromTimestamptz(created)

	return insight, nil
}
