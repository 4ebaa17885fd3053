package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisory_api_requests_total",
		Help: "Total API requests by route and status code",
	}, []string{"route", "status"})

	apiLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisory_api_latency_seconds",
		Help:    "API request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	autoSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisory_competitor_autosaves_total",
		Help: "Background saves of detected competitors by status",
	}, []string{"status"})

	providerAvailability = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "advisory_search_provider_available",
		Help: "Whether a search provider is currently usable (1) or not (0)",
	}, []string{"provider"})
)

// RecordAPIRequest counts one finished request and observes its latency.
func RecordAPIRequest(route, status string, seconds float64) {
	apiRequestsTotal.WithLabelValues(route, status).Inc()
	apiLatencySeconds.WithLabelValues(route).Observe(seconds)
}

// RecordAutoSave counts one background competitor save outcome.
func RecordAutoSave(status string) {
	autoSavesTotal.WithLabelValues(status).Inc()
}

// SetProviderAvailable reports a search provider's current usability.
func SetProviderAvailable(provider string, available bool) {
	v := 0.0
	if available {
		v = 1.0
	}

	providerAvailability.WithLabelValues(provider).Set(v)
}
