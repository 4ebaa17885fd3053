package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const decisionListLimit = 50

func (h *Handler) handleDecisions(w http.ResponseWriter, r *http.Request, rest string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if rest == "" || rest == "/" {
		switch r.Method {
		case http.MethodGet:
			return h.listDecisions(w, r, userID)
		case http.MethodPost:
			return h.createDecision(w, r, userID)
		default:
			return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
		}
	}

	parts := strings.Split(strings.TrimPrefix(rest, "/"), "/")
	decisionID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			return h.getDecision(w, r, userID, decisionID)
		case http.MethodDelete:
			return h.deleteDecision(w, r, userID, decisionID)
		default:
			return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or DELETE.")
		}
	}

	switch parts[1] {
	case "publish":
		return h.publishDecision(w, r, userID, decisionID)
	case "contributions":
		return h.handleContributions(w, r, userID, decisionID)
	default:
		return writeError(w, h.logger, codeNotFound, "Unknown decisions endpoint.")
	}
}

type decisionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) listDecisions(w http.ResponseWriter, r *http.Request, userID string) int {
	list, err := h.db.ListDecisions(r.Context(), userID, decisionListLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list decisions failed")

		return writeError(w, h.logger, codeInternal, "Failed to load decisions.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"decisions": list})
}

func (h *Handler) createDecision(w http.ResponseWriter, r *http.Request, userID string) int {
	var req decisionRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return writeError(w, h.logger, codeBadRequest, "title is required.")
	}

	d := domain.PublishedDecision{
		Title:  req.Title,
		Body:   req.Body,
		Status: domain.DecisionStatusDraft,
	}

	id, err := h.db.CreateDecision(r.Context(), userID, &d)
	if err != nil {
		h.logger.Error().Err(err).Msg("create decision failed")

		return writeError(w, h.logger, codeInternal, "Failed to create decision.")
	}

	d.ID = id

	return writeJSON(w, h.logger, http.StatusCreated, &d)
}

func (h *Handler) getDecision(w http.ResponseWriter, r *http.Request, userID, decisionID string) int {
	d, err := h.db.GetDecision(r.Context(), userID, decisionID)
	if err != nil {
		if errors.Is(err, db.ErrDecisionNotFound) {
			return writeError(w, h.logger, codeNotFound, "No decision with that ID.")
		}

		h.logger.Error().Err(err).Msg("get decision failed")

		return writeError(w, h.logger, codeInternal, "Failed to load decision.")
	}

	return writeJSON(w, h.logger, http.StatusOK, d)
}

func (h *Handler) deleteDecision(w http.ResponseWriter, r *http.Request, userID, decisionID string) int {
	err := h.db.DeleteDecision(r.Context(), userID, decisionID)
	if err != nil {
		if errors.Is(err, db.ErrDecisionNotFound) {
			return writeError(w, h.logger, codeNotFound, "No decision with that ID.")
		}

		h.logger.Error().Err(err).Msg("delete decision failed")

		return writeError(w, h.logger, codeInternal, "Failed to delete decision.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) publishDecision(w http.ResponseWriter, r *http.Request, userID, decisionID string) int {
	if r.Method != http.MethodPost {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use POST.")
	}

	err := h.db.PublishDecision(r.Context(), userID, decisionID)
	if err != nil {
		if errors.Is(err, db.ErrDecisionNotFound) {
			return writeError(w, h.logger, codeNotFound, "No decision with that ID.")
		}

		h.logger.Error().Err(err).Msg("publish decision failed")

		return writeError(w, h.logger, codeInternal, "Failed to publish decision.")
	}

	return h.getDecision(w, r, userID, decisionID)
}

type contributionRequest struct {
	AdvisorRole string `json:"advisor_role"`
	Content     string `json:"content"`
}

func (h *Handler) handleContributions(w http.ResponseWriter, r *http.Request, userID, decisionID string) int {
	switch r.Method {
	case http.MethodGet:
		list, err := h.db.ListContributions(r.Context(), userID, decisionID)
		if err != nil {
			h.logger.Error().Err(err).Msg("list contributions failed")

			return writeError(w, h.logger, codeInternal, "Failed to load contributions.")
		}

		return writeJSON(w, h.logger, http.StatusOK, map[string]any{"contributions": list})
	case http.MethodPost:
		return h.addContribution(w, r, userID, decisionID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
	}
}

func (h *Handler) addContribution(w http.ResponseWriter, r *http.Request, userID, decisionID string) int {
	var req contributionRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	if strings.TrimSpace(req.AdvisorRole) == "" || strings.TrimSpace(req.Content) == "" {
		return writeError(w, h.logger, codeBadRequest, "advisor_role and content are required.")
	}

	c := domain.Contribution{
		DecisionID:  decisionID,
		AdvisorRole: req.AdvisorRole,
		Content:     req.Content,
	}

	id, err := h.db.AddContribution(r.Context(), userID, &c)
	if err != nil {
		if errors.Is(err, db.ErrDecisionNotFound) {
			return writeError(w, h.logger, codeNotFound, "No decision with that ID.")
		}

		h.logger.Error().Err(err).Msg("add contribution failed")

		return writeError(w, h.logger, codeInternal, "Failed to add contribution.")
	}

	c.ID = id

	return writeJSON(w, h.logger, http.StatusCreated, &c)
}

type recommendationRequest struct {
	DecisionID string         `json:"decision_id,omitempty"`
	Content    map[string]any `json:"content"`
}

type recommendationStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request, rest string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if rest == "" || rest == "/" {
		switch r.Method {
		case http.MethodGet:
			list, err := h.db.ListRecommendations(r.Context(), userID, decisionListLimit)
			if err != nil {
				h.logger.Error().Err(err).Msg("list recommendations failed")

				return writeError(w, h.logger, codeInternal, "Failed to load recommendations.")
			}

			return writeJSON(w, h.logger, http.StatusOK, map[string]any{"recommendations": list})
		case http.MethodPost:
			return h.createRecommendation(w, r, userID)
		default:
			return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
		}
	}

	parts := strings.Split(strings.TrimPrefix(rest, "/"), "/")
	if len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPut {
		return h.updateRecommendationStatus(w, r, userID, parts[0])
	}

	return writeError(w, h.logger, codeNotFound, "Unknown recommendations endpoint.")
}

// recommendationFromRequest builds a new recommendation from a create
// request. Fresh recommendations always start their lifecycle open.
func recommendationFromRequest(req *recommendationRequest) (*domain.Recommendation, error) {
	if len(req.Content) == 0 {
		return nil, errors.New("content is required")
	}

	return &domain.Recommendation{
		DecisionID: req.DecisionID,
		Content:    req.Content,
		Status:     domain.RecommendationStatusOpen,
	}, nil
}

func validRecommendationStatus(status string) bool {
	switch status {
	case domain.RecommendationStatusOpen,
		domain.RecommendationStatusCompleted,
		domain.RecommendationStatusDismissed:
		return true
	default:
		return false
	}
}

func (h *Handler) createRecommendation(w http.ResponseWriter, r *http.Request, userID string) int {
	var req recommendationRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	rec, err := recommendationFromRequest(&req)
	if err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error()+".")
	}

	id, err := h.db.CreateRecommendation(r.Context(), userID, rec)
	if err != nil {
		if errors.Is(err, db.ErrDecisionNotFound) {
			return writeError(w, h.logger, codeNotFound, "No decision with that ID.")
		}

		h.logger.Error().Err(err).Msg("create recommendation failed")

		return writeError(w, h.logger, codeInternal, "Failed to create recommendation.")
	}

	rec.ID = id

	return writeJSON(w, h.logger, http.StatusCreated, rec)
}

func (h *Handler) updateRecommendationStatus(w http.ResponseWriter, r *http.Request, userID, recommendationID string) int {
	var req recommendationStatusRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	if !validRecommendationStatus(req.Status) {
		return writeError(w, h.logger, codeBadRequest, "status must be one of open, completed, dismissed.")
	}

	err := h.db.UpdateRecommendationStatus(r.Context(), userID, recommendationID, req.Status)
	if err != nil {
		if errors.Is(err, db.ErrRecommendationNotFound) {
			return writeError(w, h.logger, codeNotFound, "No recommendation with that ID.")
		}

		h.logger.Error().Err(err).Msg("update recommendation status failed")

		return writeError(w, h.logger, codeInternal, "Failed to update recommendation.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": req.Status})
}
