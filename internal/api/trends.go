package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	db "github.com/boardofone/advisory-backend/internal/storage"
)

const trendListLimit = 50

func (h *Handler) dispatchTrends(w http.ResponseWriter, r *http.Request, path string) (string, int) {
	rest := strings.TrimPrefix(path, routeTrends)

	switch {
	case rest == "" || rest == "/":
		return "trends", h.handleTrendInsights(w, r)
	case rest == "/analyze":
		return "trends_analyze", h.handleTrendAnalyze(w, r)
	case rest == "/summary":
		return "trends_summary", h.handleTrendSummary(w, r)
	default:
		return "not_found", writeError(w, h.logger, codeNotFound, "Unknown trends endpoint.")
	}
}

func (h *Handler) handleTrendInsights(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodGet {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET.")
	}

	list, err := h.db.ListTrendInsights(r.Context(), userID, trendListLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list trend insights failed")

		return writeError(w, h.logger, codeInternal, "Failed to load trend insights.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"insights": list})
}

type trendAnalyzeRequest struct {
	URL string `json:"url"`
}

// handleTrendAnalyze fetches an article, analyzes it against the business
// context, and caches the result keyed by source URL. Re-analyzing the same
// URL replaces the cached insight.
func (h *Handler) handleTrendAnalyze(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodPost {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use POST.")
	}

	if !h.detectLimit.Allow(r) {
		return writeError(w, h.logger, codeRateLimited, "Trend analysis is rate limited; try again shortly.")
	}

	var req trendAnalyzeRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return writeError(w, h.logger, codeBadRequest, "url must be a valid http(s) URL.")
	}

	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context for trend analysis failed")

		return writeError(w, h.logger, codeInternal, "Failed to analyze trend.")
	}

	article, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", req.URL).Msg("trend article fetch failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Could not fetch the article.")
	}

	insight, err := h.llm.AnalyzeTrend(r.Context(), bc, req.URL, article.Title, article.TextContent)
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("trend analysis failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Analysis failed.")
	}

	if err := h.db.UpsertTrendInsight(r.Context(), userID, insight); err != nil {
		h.logger.Warn().Err(err).Msg("cache trend insight failed")
	}

	return writeJSON(w, h.logger, http.StatusOK, insight)
}

// handleTrendSummary serves the cached rollup on GET and regenerates it on
// POST from the stored insights.
func (h *Handler) handleTrendSummary(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	switch r.Method {
	case http.MethodGet:
		summary, err := h.db.GetTrendSummary(r.Context(), userID)
		if err != nil {
			if errors.Is(err, db.ErrTrendSummaryNotFound) {
				return writeError(w, h.logger, codeNotFound, "No trend summary yet; POST to generate one.")
			}

			h.logger.Error().Err(err).Msg("get trend summary failed")

			return writeError(w, h.logger, codeInternal, "Failed to load trend summary.")
		}

		return writeJSON(w, h.logger, http.StatusOK, summary)
	case http.MethodPost:
		return h.regenerateTrendSummary(w, r, userID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
	}
}

func (h *Handler) regenerateTrendSummary(w http.ResponseWriter, r *http.Request, userID string) int {
	insights, err := h.db.ListTrendInsights(r.Context(), userID, trendListLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list insights for summary failed")

		return writeError(w, h.logger, codeInternal, "Failed to generate summary.")
	}

	if len(insights) == 0 {
		return writeError(w, h.logger, codeBadRequest, "No trend insights to summarize yet.")
	}

	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context for summary failed")

		return writeError(w, h.logger, codeInternal, "Failed to generate summary.")
	}

	summary, err := h.llm.SummarizeTrends(r.Context(), bc, insights)
	if err != nil {
		h.logger.Error().Err(err).Msg("trend summary generation failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Summary generation failed.")
	}

	if err := h.db.UpsertTrendSummary(r.Context(), userID, summary); err != nil {
		h.logger.Warn().Err(err).Msg("cache trend summary failed")
	}

	return writeJSON(w, h.logger, http.StatusOK, summary)
}
