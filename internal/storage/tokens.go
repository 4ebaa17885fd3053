package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrTokenNotFound is returned for unknown or revoked API tokens.
var ErrTokenNotFound = errors.New("api token not found")

// LookupToken resolves a hashed bearer token to its owning user and bumps
// last_used_at. Revoked tokens do not resolve.
func (db *DB) LookupToken(ctx context.Context, tokenHash string) (string, error) {
	var userID pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		UPDATE api_tokens
		SET last_used_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL
		RETURNING user_id
	`, tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTokenNotFound
		}

		return "", fmt.Errorf("lookup token: %w", err)
	}

	return fromUUID(userID), nil
}

// CreateToken stores a hashed bearer token for a user.
func (db *DB) CreateToken(ctx context.Context, userID, tokenHash, label string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO api_tokens (token_hash, user_id, label)
		VALUES ($1, $2, $3)
	`, tokenHash, toUUID(userID), toText(label))
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}

	return nil
}

// RevokeToken marks a token as revoked.
func (db *DB) RevokeToken(ctx context.Context, userID, tokenHash string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE api_tokens
		SET revoked_at = now()
		WHERE token_hash = $1 AND user_id = $2 AND revoked_at IS NULL
	`, tokenHash, toUUID(userID))
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	return nil
}
