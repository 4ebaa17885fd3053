package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/research"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const (
	defaultMaxAgeDays      = 30
	defaultAccessGraceDays = 7
	hoursPerDay            = 24
)

func main() {
	maxAgeDays := flag.Int("max-age-days", defaultMaxAgeDays, "Evict entries researched more than this many days ago")
	accessGraceDays := flag.Int("access-grace-days", defaultAccessGraceDays, "Keep entries accessed within this many days regardless of age")
	batchSize := flag.Int("batch-size", db.CleanupBatchSize, "Rows deleted per batch")
	dryRun := flag.Bool("dry-run", false, "Count stale entries without deleting")
	dsn := flag.String("dsn", os.Getenv("POSTGRES_DSN"), "Postgres DSN")

	flag.Parse()

	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "POSTGRES_DSN is required (or provide -dsn).")
		os.Exit(1)
	}

	if *maxAgeDays <= 0 || *accessGraceDays < 0 {
		fmt.Fprintln(os.Stderr, "max-age-days must be positive and access-grace-days non-negative")
		os.Exit(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	ctx := context.Background()

	database, err := db.New(ctx, *dsn, &logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cleanup := research.NewCleanup(database, &logger)

	result, err := cleanup.Run(ctx, research.CleanupOptions{
		MaxAge:      time.Duration(*maxAgeDays) * hoursPerDay * time.Hour,
		AccessGrace: time.Duration(*accessGraceDays) * hoursPerDay * time.Hour,
		BatchSize:   *batchSize,
		DryRun:      *dryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cleanup failed: %v\n", err)
		os.Exit(1)
	}

	if result.DryRun {
		fmt.Printf("dry run: %d stale entries would be deleted\n", result.RowsDeleted)
		return
	}

	fmt.Printf("deleted %d stale entries in %d batches\n", result.RowsDeleted, result.Batches)
}
