package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// BenchmarkEvent is one change to a metric-bearing context field.
type BenchmarkEvent struct {
	MetricField string    `json:"metric_field"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// RecordBenchmark updates the per-field last-write timestamp and appends an
// audit row, in one transaction.
func (db *DB) RecordBenchmark(ctx context.Context, userID, field, oldValue, newValue string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin benchmark tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `
		INSERT INTO benchmark_timestamps (user_id, metric_field, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, metric_field) DO UPDATE SET updated_at = now()
	`, toUUID(userID), field); err != nil {
		return fmt.Errorf("touch benchmark timestamp: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO benchmark_history (user_id, metric_field, old_value, new_value)
		VALUES ($1, $2, $3, $4)
	`, toUUID(userID), field, toText(oldValue), toText(newValue)); err != nil {
		return fmt.Errorf("append benchmark history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit benchmark tx: %w", err)
	}

	return nil
}

// GetBenchmarkTimestamps returns the last-write time per metric field,
// used for staleness display.
func (db *DB) GetBenchmarkTimestamps(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT metric_field, updated_at
		FROM benchmark_timestamps
		WHERE user_id = $1
	`, toUUID(userID))
	if err != nil {
		return nil, fmt.Errorf("get benchmark timestamps: %w", err)
	}
	defer rows.Close()

	result := make(map[string]time.Time)

	for rows.Next() {
		var (
			field   string
			updated pgtype.Timestamptz
		)

		if err := rows.Scan(&field, &updated); err != nil {
			return nil, fmt.Errorf("scan benchmark timestamp: %w", err)
		}

		result[field] = fromTimestamptz(updated)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate benchmark timestamps: %w", err)
	}

	return result, nil
}

// ListBenchmarkHistory returns the audit trail for one metric field,
// newest first.
func (db *DB) ListBenchmarkHistory(ctx context.Context, userID, field string, limit int) ([]BenchmarkEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT metric_field, old_value, new_value, recorded_at
		FROM benchmark_history
		WHERE user_id = $1 AND metric_field = $2
		ORDER BY recorded_at DESC
		LIMIT $3
	`, toUUID(userID), field, limit)
	if err != nil {
		return nil, fmt.Errorf("list benchmark history: %w", err)
	}
	defer rows.Close()

	var result []BenchmarkEvent

	for rows.Next() {
		var (
			ev       BenchmarkEvent
			oldVal   pgtype.Text
			newVal   pgtype.Text
			recorded pgtype.Timestamptz
		)

		if err := rows.Scan(&ev.MetricField, &oldVal, &newVal, &recorded); err != nil {
			return nil, fmt.Errorf("scan benchmark event: %w", err)
		}

		ev.OldValue = fromText(oldVal)
		ev.NewValue = fromText(newVal)
		ev.RecordedAt = fromTimestamptz(recorded)

		result = append(result, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate benchmark history: %w", err)
	}

	return result, nil
}
