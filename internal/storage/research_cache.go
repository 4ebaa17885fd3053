package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

// ErrResearchCacheMiss is returned when no cached answer is similar enough.
var ErrResearchCacheMiss = errors.New("research cache miss")

// ResearchEntry is a cached LLM research answer keyed by the semantic
// embedding of its question.
type ResearchEntry struct {
	ID             string
	Question       string
	Answer         string
	Model          string
	ResearchDate   time.Time
	LastAccessedAt time.Time
	AccessCount    int
	Similarity     float32
}

// InsertResearchAnswer stores a fresh research answer with its question embedding.
func (db *DB) InsertResearchAnswer(ctx context.Context, question string, embedding []float32, answer, model string) (string, error) {
	var id pgtype.UUID

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO research_cache (question, question_embedding, answer, model)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, SanitizeUTF8(question), pgvector.NewVector(embedding), SanitizeUTF8(answer), toText(model)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert research answer: %w", err)
	}

	return fromUUID(id), nil
}

// FindSimilarResearch looks up the closest cached answer by cosine distance.
// The similarity parameter is 0-1 where 1 is identical; it is converted to a
// distance threshold. A hit bumps last_accessed_at and access_count.
func (db *DB) FindSimilarResearch(ctx context.Context, embedding []float32, similarity float32) (*ResearchEntry, error) {
	if len(embedding) == 0 {
		return nil, ErrResearchCacheMiss
	}

	distanceThreshold := 1 - similarity

	var (
		entry    ResearchEntry
		id       pgtype.UUID
		model    pgtype.Text
		date     pgtype.Timestamptz
		accessed pgtype.Timestamptz
		distance float64
	)

	// pgvector uses <=> for cosine distance
	err := db.Pool.QueryRow(ctx, `
		UPDATE research_cache
		SET last_accessed_at = now(), access_count = access_count + 1
		WHERE id = (
			SELECT id
			FROM research_cache
			WHERE question_embedding IS NOT NULL
			  AND question_embedding <=> $1::vector < $2
			ORDER BY question_embedding <=> $1::vector
			LIMIT 1
		)
		RETURNING id, question, answer, model, research_date, last_accessed_at, access_count,
		          question_embedding <=> $1::vector
	`, pgvector.NewVector(embedding), distanceThreshold).Scan(
		&id, &entry.Question, &entry.Answer, &model, &date, &accessed, &entry.AccessCount, &distance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResearchCacheMiss
		}

		return nil, fmt.Errorf("find similar research: %w", err)
	}

	entry.ID = fromUUID(id)
	entry.Model = fromText(model)
	entry.ResearchDate = fromTimestamptz(date)
	entry.LastAccessedAt = fromTimestamptz(accessed)
	entry.Similarity = 1 - float32(distance)

	return &entry, nil
}

// DeleteStaleResearch deletes one batch of entries older than ageCutoff whose
// last access is older than accessCutoff. Returns the number of rows deleted;
// callers loop until it returns 0, capped at CleanupMaxBatches.
func (db *DB) DeleteStaleResearch(ctx context.Context, ageCutoff, accessCutoff time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = CleanupBatchSize
	}

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM research_cache
		WHERE id IN (
			SELECT id
			FROM research_cache
			WHERE research_date < $1 AND last_accessed_at < $2
			LIMIT $3
		)
	`, toTimestamptz(ageCutoff), toTimestamptz(accessCutoff), batchSize)
	if err != nil {
		return 0, fmt.Errorf("delete stale research: %w", err)
	}

	return tag.RowsAffected(), nil
}

// CountStaleResearch counts entries the cleanup would delete, for dry runs.
func (db *DB) CountStaleResearch(ctx context.Context, ageCutoff, accessCutoff time.Time) (int64, error) {
	var count int64

	err := db.Pool.QueryRow(ctx, `
		SELECT count(*)
		FROM research_cache
		WHERE research_date < $1 AND last_accessed_at < $2
	`, toTimestamptz(ageCutoff), toTimestamptz(accessCutoff)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stale research: %w", err)
	}

	return count, nil
}
