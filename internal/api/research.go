package api

import (
	"net/http"
	"strings"
)

const maxQuestionLength = 2000

type researchRequest struct {
	Question string `json:"question"`
}

// handleResearch answers a business question through the semantic cache.
func (h *Handler) handleResearch(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodPost {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use POST.")
	}

	if !h.detectLimit.Allow(r) {
		return writeError(w, h.logger, codeRateLimited, "Research is rate limited; try again shortly.")
	}

	var req researchRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return writeError(w, h.logger, codeBadRequest, "question is required.")
	}

	if len(req.Question) > maxQuestionLength {
		return writeError(w, h.logger, codeBadRequest, "question is too long.")
	}

	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context for research failed")

		return writeError(w, h.logger, codeInternal, "Failed to answer question.")
	}

	answer, err := h.research.Ask(r.Context(), bc, req.Question)
	if err != nil {
		h.logger.Error().Err(err).Msg("research ask failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Failed to answer question.")
	}

	return writeJSON(w, h.logger, http.StatusOK, answer)
}
