package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

type goalRequest struct {
	Title        string   `json:"title"`
	MetricField  string   `json:"metric_field,omitempty"`
	TargetValue  *float64 `json:"target_value,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty"`
	// TargetDate accepts any common date phrasing ("2026-12-31",
	// "Dec 31 2026", "31/12/2026").
	TargetDate string `json:"target_date,omitempty"`
	Status     string `json:"status,omitempty"`
}

func (h *Handler) handleGoals(w http.ResponseWriter, r *http.Request, rest string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if rest == "" || rest == "/" {
		switch r.Method {
		case http.MethodGet:
			return h.listGoals(w, r, userID)
		case http.MethodPost:
			return h.createGoal(w, r, userID)
		default:
			return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
		}
	}

	goalID := strings.TrimPrefix(rest, "/")

	switch r.Method {
	case http.MethodGet:
		return h.getGoal(w, r, userID, goalID)
	case http.MethodPut:
		return h.updateGoal(w, r, userID, goalID)
	case http.MethodDelete:
		return h.deleteGoal(w, r, userID, goalID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET, PUT, or DELETE.")
	}
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request, userID string) int {
	goals, err := h.db.ListGoals(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list goals failed")

		return writeError(w, h.logger, codeInternal, "Failed to load goals.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"goals": goals})
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request, userID string) int {
	goal, errMsg := h.goalFromRequest(w, r)
	if errMsg != "" {
		return writeError(w, h.logger, codeBadRequest, errMsg)
	}

	id, err := h.db.CreateGoal(r.Context(), userID, goal)
	if err != nil {
		h.logger.Error().Err(err).Msg("create goal failed")

		return writeError(w, h.logger, codeInternal, "Failed to create goal.")
	}

	goal.ID = id

	return writeJSON(w, h.logger, http.StatusCreated, goal)
}

func (h *Handler) getGoal(w http.ResponseWriter, r *http.Request, userID, goalID string) int {
	goal, err := h.db.GetGoal(r.Context(), userID, goalID)
	if err != nil {
		if errors.Is(err, db.ErrGoalNotFound) {
			return writeError(w, h.logger, codeNotFound, "No goal with that ID.")
		}

		h.logger.Error().Err(err).Msg("get goal failed")

		return writeError(w, h.logger, codeInternal, "Failed to load goal.")
	}

	return writeJSON(w, h.logger, http.StatusOK, goal)
}

func (h *Handler) updateGoal(w http.ResponseWriter, r *http.Request, userID, goalID string) int {
	goal, errMsg := h.goalFromRequest(w, r)
	if errMsg != "" {
		return writeError(w, h.logger, codeBadRequest, errMsg)
	}

	goal.ID = goalID

	err := h.db.UpdateGoal(r.Context(), userID, goal)
	if err != nil {
		if errors.Is(err, db.ErrGoalNotFound) {
			return writeError(w, h.logger, codeNotFound, "No goal with that ID.")
		}

		h.logger.Error().Err(err).Msg("update goal failed")

		return writeError(w, h.logger, codeInternal, "Failed to update goal.")
	}

	return writeJSON(w, h.logger, http.StatusOK, goal)
}

func (h *Handler) deleteGoal(w http.ResponseWriter, r *http.Request, userID, goalID string) int {
	err := h.db.DeleteGoal(r.Context(), userID, goalID)
	if err != nil {
		if errors.Is(err, db.ErrGoalNotFound) {
			return writeError(w, h.logger, codeNotFound, "No goal with that ID.")
		}

		h.logger.Error().Err(err).Msg("delete goal failed")

		return writeError(w, h.logger, codeInternal, "Failed to delete goal.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]bool{"deleted": true})
}

// goalFromRequest decodes and validates a goal payload. The returned string
// is a user-facing validation message, empty on success.
func (h *Handler) goalFromRequest(w http.ResponseWriter, r *http.Request) (*domain.Goal, string) {
	var req goalRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return nil, err.Error()
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, "title is required."
	}

	if req.MetricField != "" {
		if _, known := domain.MetricFields[req.MetricField]; !known {
			return nil, "metric_field is not a known metric."
		}
	}

	status := req.Status
	if status == "" {
		status = domain.GoalStatusActive
	}

	switch status {
	case domain.GoalStatusActive, domain.GoalStatusAchieved, domain.GoalStatusAbandoned:
	default:
		return nil, "status must be active, achieved, or abandoned."
	}

	goal := &domain.Goal{
		Title:        req.Title,
		MetricField:  req.MetricField,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Status:       status,
	}

	if req.TargetDate != "" {
		ts, err := dateparse.ParseAny(req.TargetDate)
		if err != nil {
			return nil, "target_date could not be parsed as a date."
		}

		utc := ts.UTC()
		goal.TargetDate = &utc
	}

	return goal, ""
}
