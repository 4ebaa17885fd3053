// Package api serves the advisory REST surface: business context and
// clarifications, competitor detection and insights, trends, goals,
// cognition profiles, deliberation artifacts, analytics, and research.
//
// Routing follows prefix dispatch under /v1/ with one handler method
// per route family; every handler authenticates the bearer token and scopes
// storage access to that user.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/llm"
	"github.com/boardofone/advisory-backend/internal/discovery"
	"github.com/boardofone/advisory-backend/internal/enrich"
	"github.com/boardofone/advisory-backend/internal/platform/config"
	"github.com/boardofone/advisory-backend/internal/platform/observability"
	"github.com/boardofone/advisory-backend/internal/research"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const apiPrefix = "/v1/"

// Route path constants.
const (
	routeContext         = "context"
	routeClarifications  = "clarifications"
	routeCompetitors     = "competitors"
	routeTrends          = "trends"
	routeMetrics         = "metrics/"
	routeGoals           = "goals"
	routeCognition       = "cognition"
	routeDecisions       = "decisions"
	routeRecommendations = "recommendations"
	routeAnalytics       = "analytics/"
	routeResearch        = "research/"
)

// Handler serves the advisory API.
type Handler struct {
	cfg         *config.Config
	db          *db.DB
	llm         llm.Client
	detector    *discovery.Detector
	fetcher     *enrich.Fetcher
	research    *research.Service
	detectLimit *ipLimiter
	logger      *zerolog.Logger
}

// Deps carries the services the handler drives.
type Deps struct {
	DB       *db.DB
	LLM      llm.Client
	Detector *discovery.Detector
	Fetcher  *enrich.Fetcher
	Research *research.Service
}

func NewHandler(cfg *config.Config, deps Deps, logger *zerolog.Logger) *Handler {
	return &Handler{
		cfg:         cfg,
		db:          deps.DB,
		llm:         deps.LLM,
		detector:    deps.Detector,
		fetcher:     deps.Fetcher,
		research:    deps.Research,
		detectLimit: newIPLimiter(cfg.DetectionRPS, cfg.DetectionBurst),
		logger:      logger,
	}
}

// ServeHTTP routes requests and records per-route metrics.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	route, status := h.dispatch(w, r)

	observability.RecordAPIRequest(route, strconv.Itoa(status), time.Since(start).Seconds())
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) (route string, status int) {
	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if path == r.URL.Path {
		return "not_found", writeError(w, h.logger, codeNotFound, "Unknown endpoint.")
	}

	switch {
	case strings.HasPrefix(path, routeContext):
		return h.dispatchContext(w, r, path)
	case strings.HasPrefix(path, routeClarifications):
		return "clarifications", h.handleClarifications(w, r)
	case strings.HasPrefix(path, routeCompetitors):
		return h.dispatchCompetitors(w, r, path)
	case strings.HasPrefix(path, routeTrends):
		return h.dispatchTrends(w, r, path)
	case strings.HasPrefix(path, routeMetrics):
		return "metrics_suggest", h.handleMetricSuggestions(w, r)
	case strings.HasPrefix(path, routeGoals):
		return "goals", h.handleGoals(w, r, strings.TrimPrefix(path, routeGoals))
	case strings.HasPrefix(path, routeCognition):
		return "cognition", h.handleCognition(w, r)
	case strings.HasPrefix(path, routeDecisions):
		return "decisions", h.handleDecisions(w, r, strings.TrimPrefix(path, routeDecisions))
	case strings.HasPrefix(path, routeRecommendations):
		return "recommendations", h.handleRecommendations(w, r, strings.TrimPrefix(path, routeRecommendations))
	case strings.HasPrefix(path, routeAnalytics):
		return "analytics", h.handleAnalytics(w, r, strings.TrimPrefix(path, routeAnalytics))
	case strings.HasPrefix(path, routeResearch):
		return "research", h.handleResearch(w, r)
	default:
		return "not_found", writeError(w, h.logger, codeNotFound, "Unknown endpoint.")
	}
}
