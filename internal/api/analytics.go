package api

import (
	"net/http"
	"strings"
	"time"

	db "github.com/boardofone/advisory-backend/internal/storage"
)

const pageViewWindow = 30 * 24 * time.Hour

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request, rest string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	switch {
	case strings.HasPrefix(rest, "pageviews"):
		return h.handlePageViews(w, r, userID)
	case strings.HasPrefix(rest, "feedback"):
		return h.handleFeedback(w, r, userID)
	default:
		return writeError(w, h.logger, codeNotFound, "Unknown analytics endpoint.")
	}
}

type pageViewRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer,omitempty"`
}

func (h *Handler) handlePageViews(w http.ResponseWriter, r *http.Request, userID string) int {
	switch r.Method {
	case http.MethodPost:
		var req pageViewRequest
		if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
			return writeError(w, h.logger, codeBadRequest, err.Error())
		}

		if req.Path == "" {
			return writeError(w, h.logger, codeBadRequest, "path is required.")
		}

		if err := h.db.InsertPageView(r.Context(), userID, req.Path, req.Referrer); err != nil {
			h.logger.Error().Err(err).Msg("insert page view failed")

			return writeError(w, h.logger, codeInternal, "Failed to record page view.")
		}

		return writeJSON(w, h.logger, http.StatusAccepted, map[string]bool{"recorded": true})
	case http.MethodGet:
		counts, err := h.db.CountPageViews(r.Context(), userID, time.Now().UTC().Add(-pageViewWindow))
		if err != nil {
			h.logger.Error().Err(err).Msg("count page views failed")

			return writeError(w, h.logger, codeInternal, "Failed to load page views.")
		}

		return writeJSON(w, h.logger, http.StatusOK, map[string]any{"pageviews": counts})
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
	}
}

type feedbackRequest struct {
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Rating   *int   `json:"rating,omitempty"`
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request, userID string) int {
	if r.Method != http.MethodPost {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use POST.")
	}

	var req feedbackRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	if strings.TrimSpace(req.Message) == "" {
		return writeError(w, h.logger, codeBadRequest, "message is required.")
	}

	f := db.Feedback{
		Category: req.Category,
		Message:  req.Message,
		Rating:   req.Rating,
	}

	if err := h.db.InsertFeedback(r.Context(), userID, &f); err != nil {
		h.logger.Error().Err(err).Msg("insert feedback failed")

		return writeError(w, h.logger, codeInternal, "Failed to record feedback.")
	}

	return writeJSON(w, h.logger, http.StatusAccepted, map[string]bool{"recorded": true})
}
