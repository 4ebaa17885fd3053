package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

// ErrClarificationNotFound is returned when a clarification key does not exist.
var ErrClarificationNotFound = errors.New("clarification not found")

// UpsertClarification stores a Q&A pair keyed by question text.
func (db *DB) UpsertClarification(ctx context.Context, userID string, c *domain.Clarification) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO clarifications (
			user_id,
			question,
			answer,
			category,
			confidence,
			metric_field,
			metric_value,
			answered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id, question) DO UPDATE SET
			answer = EXCLUDED.answer,
			category = EXCLUDED.category,
			confidence = EXCLUDED.confidence,
			metric_field = EXCLUDED.metric_field,
			metric_value = EXCLUDED.metric_value,
			answered_at = now()
	`, toUUID(userID), SanitizeUTF8(c.Question), SanitizeUTF8(c.Answer),
		toText(c.Category), toFloat4(c.Confidence), toText(c.MetricField), toFloat8Ptr(c.MetricValue))
	if err != nil {
		return fmt.Errorf("upsert clarification: %w", err)
	}

	return nil
}

// ListClarifications returns all clarifications for a user, newest first.
func (db *DB) ListClarifications(ctx context.Context, userID string) ([]domain.Clarification, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT question, answer, category, confidence, metric_field, metric_value, answered_at
		FROM clarifications
		WHERE user_id = $1
		ORDER BY answered_at DESC
	`, toUUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list clarifications: %w", err)
	}
	defer rows.Close()

	var result []domain.Clarification

	for rows.Next() {
		var (
			c          domain.Clarification
			category   pgtype.Text
			confidence pgtype.Float4
			field      pgtype.Text
			value      pgtype.Float8
			answered   pgtype.Timestamptz
		)

		if err := rows.Scan(&c.Question, &c.Answer, &category, &confidence, &field, &value, &answered); err != nil {
			return nil, fmt.Errorf("scan clarification: %w", err)
		}

		c.Category = fromText(category)
		c.Confidence = fromFloat4(confidence)
		c.MetricField = fromText(field)
		c.MetricValue = fromFloat8Ptr(value)
		c.AnsweredAt = fromTimestamptz(answered)

		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clarifications: %w", err)
	}

	return result, nil
}

// DeleteClarification hard-deletes a clarification by its question key.
func (db *DB) DeleteClarification(ctx context.Context, userID, question string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM clarifications
		WHERE user_id = $1 AND question = $2
	`, toUUID(userID), question)
	if err != nil {
		return fmt.Errorf("delete clarification: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrClarificationNotFound
	}

	return nil
}
