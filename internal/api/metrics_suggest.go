package api

import "net/http"

// handleMetricSuggestions runs the skeptical metrics pass against the
// stored business context.
func (h *Handler) handleMetricSuggestions(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodPost {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use POST.")
	}

	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context for metric suggestions failed")

		return writeError(w, h.logger, codeInternal, "Failed to suggest metrics.")
	}

	suggestions, err := h.llm.SuggestMetrics(r.Context(), bc)
	if err != nil {
		h.logger.Error().Err(err).Msg("metric suggestion failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Suggestion failed.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"suggestions": suggestions})
}
