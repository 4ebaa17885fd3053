package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	"github.com/boardofone/advisory-backend/internal/insights"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

type clarificationRequest struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   string  `json:"category,omitempty"`
	Confidence float32 `json:"confidence,omitempty"`
}

func (h *Handler) handleClarifications(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	switch r.Method {
	case http.MethodGet:
		return h.listClarifications(w, r, userID)
	case http.MethodPost:
		return h.saveClarification(w, r, userID)
	case http.MethodDelete:
		return h.deleteClarification(w, r, userID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET, POST, or DELETE.")
	}
}

func (h *Handler) listClarifications(w http.ResponseWriter, r *http.Request, userID string) int {
	list, err := h.db.ListClarifications(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list clarifications failed")

		return writeError(w, h.logger, codeInternal, "Failed to load clarifications.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"clarifications": list})
}

// saveClarification upserts a Q&A pair keyed by question. When the answer
// parses into a known metric, the value also lands in the business context
// and its benchmark history.
func (h *Handler) saveClarification(w http.ResponseWriter, r *http.Request, userID string) int {
	var req clarificationRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)

	if req.Question == "" || req.Answer == "" {
		return writeError(w, h.logger, codeBadRequest, "question and answer are required.")
	}

	c := domain.Clarification{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category,
		Confidence: req.Confidence,
		AnsweredAt: time.Now().UTC(),
	}

	if metric, parsed := insights.ParseMetric(req.Question, req.Answer); parsed {
		c.MetricField = metric.Field
		c.MetricValue = &metric.Value

		h.applyMetricToContext(r, userID, metric.Field, req.Answer)
	}

	if err := h.db.UpsertClarification(r.Context(), userID, &c); err != nil {
		h.logger.Error().Err(err).Msg("upsert clarification failed")

		return writeError(w, h.logger, codeInternal, "Failed to save clarification.")
	}

	return writeJSON(w, h.logger, http.StatusOK, &c)
}

// applyMetricToContext mirrors a parsed metric into the stored business
// context. Failures are logged only; the clarification itself still saves.
func (h *Handler) applyMetricToContext(r *http.Request, userID, field, rawValue string) {
	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Warn().Err(err).Msg("load context for metric mirror failed")

		return
	}

	next := *bc
	if !setMetricField(&next, field, rawValue) {
		return
	}

	if err := h.db.PutBusinessContext(r.Context(), userID, &next); err != nil {
		h.logger.Warn().Err(err).Msg("mirror metric into context failed")

		return
	}

	h.recordMetricChanges(r.Context(), userID, bc, &next)
}

// setMetricField writes rawValue into the context field named by a metric
// key. Returns false for fields the context does not carry.
func setMetricField(bc *domain.BusinessContext, field, rawValue string) bool {
	switch field {
	case insights.FieldMonthlyRevenue:
		bc.MonthlyRevenue = rawValue
	case insights.FieldAnnualRevenue:
		bc.AnnualRevenue = rawValue
	case insights.FieldGrowthRate:
		bc.RevenueGrowthRate = rawValue
	case insights.FieldAverageDealSize:
		bc.AverageDealSize = rawValue
	case insights.FieldChurnRate:
		bc.ChurnRate = rawValue
	case insights.FieldCAC:
		bc.CustomerAcquisition = rawValue
	case insights.FieldLTV:
		bc.CustomerLifetime = rawValue
	case insights.FieldTeamSize:
		bc.TeamSize = rawValue
	case insights.FieldTotalFunding:
		bc.TotalFunding = rawValue
	case insights.FieldMonthlyBurn:
		bc.MonthlyBurn = rawValue
	case insights.FieldRunwayMonths:
		bc.RunwayMonths = rawValue
	default:
		return false
	}

	return true
}

func (h *Handler) deleteClarification(w http.ResponseWriter, r *http.Request, userID string) int {
	question := strings.TrimSpace(r.URL.Query().Get("question"))
	if question == "" {
		return writeError(w, h.logger, codeBadRequest, "question query parameter is required.")
	}

	err := h.db.DeleteClarification(r.Context(), userID, question)
	if err != nil {
		if errors.Is(err, db.ErrClarificationNotFound) {
			return writeError(w, h.logger, codeNotFound, "No clarification with that question.")
		}

		h.logger.Error().Err(err).Msg("delete clarification failed")

		return writeError(w, h.logger, codeInternal, "Failed to delete clarification.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]bool{"deleted": true})
}
