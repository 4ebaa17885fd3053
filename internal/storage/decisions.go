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

// Sentinel errors for deliberation artifacts.
var (
	ErrDecisionNotFound       = errors.New("decision not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

// CreateDecision inserts a deliberation-session decision and returns its ID.
func (db *DB) CreateDecision(ctx context.Context, userID string, d *domain.PublishedDecision) (string, error) {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO published_decisions (user_id, title, body, status, published_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, toUUID(userID), SanitizeUTF8(d.Title), SanitizeUTF8(d.Body), d.Status, toTimestamptzPtr(d.PublishedAt)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create decision: %w", err)
	}

	return fromUUID(id), nil
}

// GetDecision loads one decision scoped to its owner.
func (db *DB) GetDecision(ctx context.Context, userID, decisionID string) (*domain.PublishedDecision, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, title, body, status, published_at, created_at, updated_at
		FROM published_decisions
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(decisionID))

	d, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDecisionNotFound
		}

		return nil, fmt.Errorf("get decision: %w", err)
	}

	return d, nil
}

// ListDecisions returns the user's decisions, newest first.
func (db *DB) ListDecisions(ctx context.Context, userID string, limit int) ([]domain.PublishedDecision, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, title, body, status, published_at, created_at, updated_at
		FROM published_decisions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, toUUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var result []domain.PublishedDecision

	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}

		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}

	return result, nil
}

// PublishDecision flips a draft to published and stamps the time.
func (db *DB) PublishDecision(ctx context.Context, userID, decisionID string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE published_decisions
		SET status = $3, published_at = now(), updated_at = now()
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(decisionID), domain.DecisionStatusPublished)
	if err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrDecisionNotFound
	}

	return nil
}

// DeleteDecision removes a decision and, via cascade, its contributions.
func (db *DB) DeleteDecision(ctx context.Context, userID, decisionID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM published_decisions
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(decisionID))
	if err != nil {
		return fmt.Errorf("delete decision: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrDecisionNotFound
	}

	return nil
}

// AddContribution appends an advisor contribution to a decision.
func (db *DB) AddContribution(ctx context.Context, userID string, c *domain.Contribution) (string, error) {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO contributions (user_id, decision_id, advisor_role, content)
		SELECT $1, id, $3, $4
		FROM published_decisions
		WHERE user_id = $1 AND id = $2
		RETURNING id
	`, toUUID(userID), toUUID(c.DecisionID), c.AdvisorRole, SanitizeUTF8(c.Content)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrDecisionNotFound
		}

		return "", fmt.Errorf("add contribution: %w", err)
	}

	return fromUUID(id), nil
}

// ListContributions returns a decision's contributions in insertion order.
func (db *DB) ListContributions(ctx context.Context, userID, decisionID string) ([]domain.Contribution, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, decision_id, advisor_role, content, created_at
		FROM contributions
		WHERE user_id = $1 AND decision_id = $2
		ORDER BY created_at
	`, toUUID(userID), toUUID(decisionID))
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var result []domain.Contribution

	for rows.Next() {
		var (
			c          domain.Contribution
			id         pgtype.UUID
			decisionID pgtype.UUID
			created    pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &decisionID, &c.AdvisorRole, &c.Content, &created); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}

		c.ID = fromUUID(id)
		c.DecisionID = fromUUID(decisionID)
		c.CreatedAt = fromTimestamptz(created)

		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributions: %w", err)
	}

	return result, nil
}

// CreateRecommendation inserts an actionable follow-up. When it references a
// decision, the insert goes through the owning decision row so a
// recommendation cannot point at another user's decision.
func (db *DB) CreateRecommendation(ctx context.Context, userID string, r *domain.Recommendation) (string, error) {
	raw, err := json.Marshal(r.Content)
	if err != nil {
		return "", fmt.Errorf("encode recommendation: %w", err)
	}

	var id pgtype.UUID

	if r.DecisionID == "" {
		err = db.Pool.QueryRow(ctx, `
			INSERT INTO recommendations (user_id, content, status)
			VALUES ($1, $2, $3)
			RETURNING id
		`, toUUID(userID), raw, r.Status).Scan(&id)
	} else {
		err = db.Pool.QueryRow(ctx, `
			INSERT INTO recommendations (user_id, decision_id, content, status)
			SELECT $1, id, $3, $4
			FROM published_decisions
			WHERE user_id = $1 AND id = $2
			RETURNING id
		`, toUUID(userID), toUUID(r.DecisionID), raw, r.Status).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrDecisionNotFound
		}
	}

	if err != nil {
		return "", fmt.Errorf("create recommendation: %w", err)
	}

	return fromUUID(id), nil
}

// ListRecommendations returns the user's recommendations, newest first.
func (db *DB) ListRecommendations(ctx context.Context, userID string, limit int) ([]domain.Recommendation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, decision_id, content, status, created_at, updated_at
		FROM recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, toUUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var result []domain.Recommendation

	for rows.Next() {
		var (
			r          domain.Recommendation
			id         pgtype.UUID
			decisionID pgtype.UUID
			raw        []byte
			created    pgtype.Timestamptz
			updated    pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &decisionID, &raw, &r.Status, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}

		r.ID = fromUUID(id)
		r.DecisionID = fromUUID(decisionID)
		r.CreatedAt = fromTimestamptz(created)
		r.UpdatedAt = fromTimestamptz(updated)

		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &r.Content); err != nil {
				return nil, fmt.Errorf("decode recommendation: %w", err)
			}
		}

		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}

	return result, nil
}

// UpdateRecommendationStatus moves a recommendation through its lifecycle.
func (db *DB) UpdateRecommendationStatus(ctx context.Context, userID, recommendationID, status string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE recommendations
		SET status = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
	`, toUUID(userID), toUUID(recommendationID), status)
	if err != nil {
		return fmt.Errorf("update recommendation status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrRecommendationNotFound
	}

	return nil
}

func scanDecision(row pgx.Row) (*domain.PublishedDecision, error) {
	var (
		d         domain.PublishedDecision
		id        pgtype.UUID
		published pgtype.Timestamptz
		created   pgtype.Timestamptz
		updated   pgtype.Timestamptz
	)

	if err := row.Scan(&id, &d.Title, &d.Body, &d.Status, &published, &created, &updated); err != nil {
		return nil, err
	}

	d.ID = fromUUID(id)
	d.PublishedAt = fromTimestamptzPtr(published)
	d.CreatedAt = fromTimestamptz(created)
	d.UpdatedAt = fromTimestamptz(updated)

	return &d, nil
}
