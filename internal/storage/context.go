package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

// Sentinel errors for user and context queries.
var (
	ErrUserNotFound = errors.New("user not found")
)

// User is a registered account row.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUser inserts a new user with an empty business context.
func (db *DB) CreateUser(ctx context.Context, email string) (*User, error) {
	var (
		id      pgtype.UUID
		created pgtype.Timestamptz
		updated pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (email)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`, SanitizeUTF8(email)).Scan(&id, &created, &updated)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &User{
		ID:        fromUUID(id),
		Email:     email,
		CreatedAt: fromTimestamptz(created),
		UpdatedAt: fromTimestamptz(updated),
	}, nil
}

// GetUser loads a user row by ID.
func (db *DB) GetUser(ctx context.Context, userID string) (*User, error) {
	var (
		id      pgtype.UUID
		email   string
		created pgtype.Timestamptz
		updated pgtype.Timestamptz
	)

	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`, toUUID(userID)).Scan(&id, &email, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("get user: %w", err)
	}

	return &User{
		ID:        fromUUID(id),
		Email:     email,
		CreatedAt: fromTimestamptz(created),
		UpdatedAt: fromTimestamptz(updated),
	}, nil
}

// ListUserIDs returns every user ID, for background jobs that walk the
// whole user base.
func (db *DB) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}

		ids = append(ids, fromUUID(id))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}

	return ids, nil
}

// GetBusinessContext loads the business context blob for a user.
func (db *DB) GetBusinessContext(ctx context.Context, userID string) (*domain.BusinessContext, error) {
	var raw []byte

	err := db.Pool.QueryRow(ctx, `
		SELECT context
		FROM users
		WHERE id = $1
	`, toUUID(userID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("get business context: %w", err)
	}

	bc := &domain.BusinessContext{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, bc); err != nil {
			return nil, fmt.Errorf("decode business context: %w", err)
		}
	}

	return bc, nil
}

// PutBusinessContext replaces the business context blob for a user.
func (db *DB) PutBusinessContext(ctx context.Context, userID string, bc *domain.BusinessContext) error {
	raw, err := json.Marshal(bc)
	if err != nil {
		return fmt.Errorf("encode business context: %w", err)
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET context = $2, updated_at = now()
		WHERE id = $1
	`, toUUID(userID), raw)
	if err != nil {
		return fmt.Errorf("put business context: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
