package research

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	db "github.com/boardofone/advisory-backend/internal/storage"
)

// cleanupStore is the storage surface the cleanup needs.
type cleanupStore interface {
	DeleteStaleResearch(ctx context.Context, ageCutoff, accessCutoff time.Time, batchSize int) (int64, error)
	CountStaleResearch(ctx context.Context, ageCutoff, accessCutoff time.Time) (int64, error)
}

// CleanupOptions tunes one cleanup run.
type CleanupOptions struct {
	// MaxAge evicts entries researched longer ago than this.
	MaxAge time.Duration
	// AccessGrace keeps entries that were read recently even when old.
	AccessGrace time.Duration
	BatchSize   int
	DryRun      bool
}

// CleanupResult reports what one run did, or would do for a dry run.
type CleanupResult struct {
	RowsDeleted int64
	Batches     int
	DryRun      bool
}

// Cleanup evicts stale research cache entries in batches.
type Cleanup struct {
	store  cleanupStore
	logger *zerolog.Logger
}

func NewCleanup(store cleanupStore, logger *zerolog.Logger) *Cleanup {
	return &Cleanup{store: store, logger: logger}
}

// Run deletes stale entries batch by batch until nothing is left, capped at
// CleanupMaxBatches so a huge backlog cannot hold a connection forever. With
// DryRun set it only counts.
func (c *Cleanup) Run(ctx context.Context, opts CleanupOptions) (*CleanupResult, error) {
	now := time.Now().UTC()
	ageCutoff := now.Add(-opts.MaxAge)
	accessCutoff := now.Add(-opts.AccessGrace)

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = db.CleanupBatchSize
	}

	if opts.DryRun {
		count, err := c.store.CountStaleResearch(ctx, ageCutoff, accessCutoff)
		if err != nil {
			return nil, fmt.Errorf("cleanup dry run: %w", err)
		}

		c.logger.Info().Int64("stale_rows", count).Msg("research cache cleanup dry run")

		return &CleanupResult{RowsDeleted: count, DryRun: true}, nil
	}

	result := &CleanupResult{}

	for result.Batches < db.CleanupMaxBatches {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("cleanup interrupted: %w", err)
		}

		deleted, err := c.store.DeleteStaleResearch(ctx, ageCutoff, accessCutoff, batchSize)
		if err != nil {
			return result, fmt.Errorf("cleanup batch %d: %w", result.Batches+1, err)
		}

		if deleted == 0 {
			break
		}

		result.Batches++
		result.RowsDeleted += deleted

		cleanupBatchesTotal.Inc()
		cleanupRowsDeletedTotal.Add(float64(deleted))
	}

	cleanupLastRunTimestamp.SetToCurrentTime()

	c.logger.Info().
		Int64("rows_deleted", result.RowsDeleted).
		Int("batches", result.Batches).
		Msg("research cache cleanup completed")

	return result, nil
}
