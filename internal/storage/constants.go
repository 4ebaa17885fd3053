package db

import "time"

// Database connection constants
const (
	// connectionRetrySleep is the sleep duration between connection retries
	connectionRetrySleep = 2 * time.Second
	// maxConnectionRetries is the number of retries for initial connection
	maxConnectionRetries = 10
)

// Default pool configuration
const (
	defaultMaxConns          = 10
	defaultMinConns          = 2
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultMaxConnLifetime   = 30 * time.Minute
	defaultHealthCheckPeriod = time.Minute
)

// Query limits
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Research cache cleanup defaults
const (
	// CleanupBatchSize is the number of rows deleted per batch.
	CleanupBatchSize = 1000
	// CleanupMaxBatches caps the delete loop so a cron run always terminates.
	CleanupMaxBatches = 100
)
