package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PageView is one tracked page load.
type PageView struct {
	Path     string
	Referrer string
	ViewedAt time.Time
}

// Feedback is one user-submitted feedback record.
type Feedback struct {
	Category  string
	Message   string
	Rating    *int
	CreatedAt time.Time
}

// InsertPageView records a page view. UserID may be empty for anonymous views.
func (db *DB) InsertPageView(ctx context.Context, userID, path, referrer string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO page_views (user_id, path, referrer)
		VALUES ($1, $2, $3)
	`, toUUID(userID), SanitizeUTF8(path), toText(referrer))
	if err != nil {
		return fmt.Errorf("insert page view: %w", err)
	}

	return nil
}

// InsertFeedback records a feedback submission.
func (db *DB) InsertFeedback(ctx context.Context, userID string, f *Feedback) error {
	var rating pgtype.Int4
	if f.Rating != nil {
		rating = toInt4(*f.Rating)
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO feedback (user_id, category, message, rating)
		VALUES ($1, $2, $3, $4)
	`, toUUID(userID), f.Category, SanitizeUTF8(f.Message), rating)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	return nil
}

// CountPageViews returns view counts per path for a user since the cutoff.
func (db *DB) CountPageViews(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT path, count(*)
		FROM page_views
		WHERE user_id = $1 AND viewed_at >= $2
		GROUP BY path
	`, toUUID(userID), toTimestamptz(since))
	if err != nil {
		return nil, fmt.Errorf("count page views: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)

	for rows.Next() {
		var (
			path  string
			count int
		)

		if err := rows.Scan(&path, &count); err != nil {
			return nil, fmt.Errorf("scan page view count: %w", err)
		}

		result[path] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page view counts: %w", err)
	}

	return result, nil
}
