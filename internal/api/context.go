package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	"github.com/boardofone/advisory-backend/internal/insights"
)

const benchmarkHistoryLimit = 50

func (h *Handler) dispatchContext(w http.ResponseWriter, r *http.Request, path string) (string, int) {
	rest := strings.TrimPrefix(path, routeContext)

	switch {
	case rest == "" || rest == "/":
		return "context", h.handleContext(w, r)
	case strings.HasPrefix(rest, "/benchmarks"):
		return "context_benchmarks", h.handleBenchmarks(w, r, strings.TrimPrefix(rest, "/benchmarks"))
	default:
		return "not_found", writeError(w, h.logger, codeNotFound, "Unknown context endpoint.")
	}
}

func (h *Handler) handleContext(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	switch r.Method {
	case http.MethodGet:
		return h.getContext(w, r, userID)
	case http.MethodPut:
		return h.putContext(w, r, userID)
	case http.MethodPatch:
		return h.patchContext(w, r, userID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET, PUT, or PATCH.")
	}
}

func (h *Handler) getContext(w http.ResponseWriter, r *http.Request, userID string) int {
	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("get business context failed")

		return writeError(w, h.logger, codeInternal, "Failed to load business context.")
	}

	return writeJSON(w, h.logger, http.StatusOK, bc)
}

// putContext replaces the whole context. Metric fields that changed get a
// benchmark event.
func (h *Handler) putContext(w http.ResponseWriter, r *http.Request, userID string) int {
	var next domain.BusinessContext
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &next); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	prev, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context before replace failed")

		return writeError(w, h.logger, codeInternal, "Failed to update business context.")
	}

	if err := h.db.PutBusinessContext(r.Context(), userID, &next); err != nil {
		h.logger.Error().Err(err).Msg("put business context failed")

		return writeError(w, h.logger, codeInternal, "Failed to update business context.")
	}

	h.recordMetricChanges(r.Context(), userID, prev, &next)

	return writeJSON(w, h.logger, http.StatusOK, &next)
}

// patchContext merges a partial update; nil fields keep their stored value.
func (h *Handler) patchContext(w http.ResponseWriter, r *http.Request, userID string) int {
	var patch domain.ContextPatch
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &patch); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	prev, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context before patch failed")

		return writeError(w, h.logger, codeInternal, "Failed to update business context.")
	}

	next := *prev
	patch.Apply(&next)

	if err := h.db.PutBusinessContext(r.Context(), userID, &next); err != nil {
		h.logger.Error().Err(err).Msg("patch business context failed")

		return writeError(w, h.logger, codeInternal, "Failed to update business context.")
	}

	h.recordMetricChanges(r.Context(), userID, prev, &next)

	return writeJSON(w, h.logger, http.StatusOK, &next)
}

// recordMetricChanges writes a benchmark event for every metric field whose
// value changed. Recording failures are logged, never surfaced: benchmark
// history is best-effort bookkeeping around the real write.
func (h *Handler) recordMetricChanges(ctx context.Context, userID string, prev, next *domain.BusinessContext) {
	for field, get := range domain.MetricFields {
		oldValue, newValue := get(prev), get(next)
		if oldValue == newValue || newValue == "" {
			continue
		}

		if err := h.db.RecordBenchmark(ctx, userID, field, oldValue, newValue); err != nil {
			h.logger.Warn().Err(err).Str("field", field).Msg("failed to record benchmark")
		}
	}
}

type benchmarkStatus struct {
	Field       string  `json:"field"`
	UpdatedAt   string  `json:"updated_at"`
	Current     string  `json:"current_value,omitempty"`
	Change      *change `json:"change,omitempty"`
	LowerBetter bool    `json:"lower_is_better"`
}

type change struct {
	PercentChange float64 `json:"percent_change"`
	Direction     string  `json:"direction"`
}

func (h *Handler) handleBenchmarks(w http.ResponseWriter, r *http.Request, rest string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodGet {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET.")
	}

	// /benchmarks/{field}/history returns the raw event list.
	if strings.HasPrefix(rest, "/") {
		parts := strings.Split(strings.TrimPrefix(rest, "/"), "/")
		if len(parts) == 2 && parts[1] == "history" {
			return h.benchmarkHistory(w, r, userID, parts[0])
		}

		return writeError(w, h.logger, codeNotFound, "Unknown benchmarks endpoint.")
	}

	return h.benchmarkOverview(w, r, userID)
}

func (h *Handler) benchmarkOverview(w http.ResponseWriter, r *http.Request, userID string) int {
	timestamps, err := h.db.GetBenchmarkTimestamps(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("get benchmark timestamps failed")

		return writeError(w, h.logger, codeInternal, "Failed to load benchmarks.")
	}

	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("get context for benchmarks failed")

		return writeError(w, h.logger, codeInternal, "Failed to load benchmarks.")
	}

	out := make([]benchmarkStatus, 0, len(timestamps))

	for field, ts := range timestamps {
		status := benchmarkStatus{
			Field:       field,
			UpdatedAt:   ts.UTC().Format("2006-01-02T15:04:05Z"),
			LowerBetter: insights.LowerIsBetter(field),
		}

		if get, known := domain.MetricFields[field]; known {
			status.Current = get(bc)
		}

		if ch := h.latestChange(r.Context(), userID, field); ch != nil {
			status.Change = ch
		}

		out = append(out, status)
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"benchmarks": out})
}

// latestChange classifies the most recent recorded transition for a field.
func (h *Handler) latestChange(ctx context.Context, userID, field string) *change {
	events, err := h.db.ListBenchmarkHistory(ctx, userID, field, 1)
	if err != nil || len(events) == 0 {
		return nil
	}

	oldValue, oldOK := insights.ExtractNumericValue(events[0].OldValue)
	newValue, newOK := insights.ExtractNumericValue(events[0].NewValue)

	if !oldOK || !newOK {
		return nil
	}

	return &change{
		PercentChange: insights.PercentChange(oldValue, newValue),
		Direction:     string(insights.ClassifyChange(oldValue, newValue, insights.LowerIsBetter(field))),
	}
}

func (h *Handler) benchmarkHistory(w http.ResponseWriter, r *http.Request, userID, field string) int {
	if _, known := domain.MetricFields[field]; !known {
		return writeError(w, h.logger, codeBadRequest, "Unknown metric field.")
	}

	events, err := h.db.ListBenchmarkHistory(r.Context(), userID, field, benchmarkHistoryLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list benchmark history failed")

		return writeError(w, h.logger, codeInternal, "Failed to load benchmark history.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"field": field, "events": events})
}
