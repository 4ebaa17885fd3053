package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

// ErrGoalNotFound is returned when a goal does not exist for the user.
var ErrGoalNotFound = errors.New("goal not found")

// CreateGoal inserts a new goal and returns its ID.
func (db *DB) CreateGoal(ctx context.Context, userID string, g *domain.Goal) (string, error) {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO goals (user_id, title, metric_field, target_value, current_value, target_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, toUUID(userID), SanitizeUTF8(g.Title), toText(g.MetricField),
		toFloat8Ptr(g.TargetValue), toFloat8Ptr(g.CurrentValue), toTimestamptzPtr(g.TargetDate), g.Status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create goal: %w", err)
	}

	return fromUUID(id), nil
}

// GetGoal loads one goal scoped to its owner.
func (db *DB) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, title, metric_field, target_value, current_value, target_date, status, created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(goalID))

	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}

		return nil, fmt.Errorf("get goal: %w", err)
	}

	return g, nil
}

// ListGoals returns the user's goals, active first, newest first within status.
func (db *DB) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, title, metric_field, target_value, current_value, target_date, status, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY (status = 'active') DESC, created_at DESC
	`, toUUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var result []domain.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}

		result = append(result, *g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	return result, nil
}

// UpdateGoal updates progress and status for a goal.
func (db *DB) UpdateGoal(ctx context.Context, userID string, g *domain.Goal) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE goals
		SET title = $3,
		    metric_field = $4,
		    target_value = $5,
		    current_value = $6,
		    target_date = $7,
		    status = $8,
		    updated_at = now()
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(g.ID), SanitizeUTF8(g.Title), toText(g.MetricField),
		toFloat8Ptr(g.TargetValue), toFloat8Ptr(g.CurrentValue), toTimestamptzPtr(g.TargetDate), g.Status)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// DeleteGoal removes a goal.
func (db *DB) DeleteGoal(ctx context.Context, userID, goalID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM goals
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(goalID))
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var (
		g          domain.Goal
		id         pgtype.UUID
		field      pgtype.Text
		target     pgtype.Float8
		current    pgtype.Float8
		targetDate pgtype.Timestamptz
		created    pgtype.Timestamptz
		updated    pgtype.Timestamptz
	)

	if err := row.Scan(&id, &g.Title, &field, &target, &current, &targetDate, &g.Status, &created, &updated); err != nil {
		return nil, err
	}

	g.ID = fromUUID(id)
	g.MetricField = fromText(field)
	g.TargetValue = fromFloat8Ptr(target)
	g.CurrentValue = fromFloat8Ptr(current)
	g.TargetDate = fromTimestamptzPtr(targetDate)
	g.CreatedAt = fromTimestamptz(created)
	g.UpdatedAt = fromTimestamptz(updated)

	return &g, nil
}
