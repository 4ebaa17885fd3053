package research

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "research_cache_lookups_total",
		Help: "Research cache lookups by outcome",
	}, []string{"outcome"})

	cacheStoreFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "research_cache_store_failures_total",
		Help: "Failed attempts to store a fresh research answer",
	})

	cleanupRowsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "research_cache_cleanup_rows_deleted_total",
		Help: "Rows deleted by research cache cleanup",
	})

	cleanupBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "research_cache_cleanup_batches_total",
		Help: "Delete batches executed by research cache cleanup",
	})

	cleanupLastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "research_cache_cleanup_last_run_timestamp_seconds",
		Help: "Unix time of the last completed cleanup run",
	})
)

const (
	outcomeHit  = "hit"
	outcomeMiss = "miss"
)
