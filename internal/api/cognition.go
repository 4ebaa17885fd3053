package api

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/boardofone/advisory-backend/internal/insights"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

type cognitionRequest struct {
	RunwayMonths        *string `json:"runway_months,omitempty"`
	MonthlyBurn         *string `json:"monthly_burn,omitempty"`
	RevenueGrowthPct    *string `json:"revenue_growth_pct,omitempty"`
	ChurnRatePct        *string `json:"churn_rate_pct,omitempty"`
	GrossMarginPct      *string `json:"gross_margin_pct,omitempty"`
	CACPaybackMonths    *string `json:"cac_payback_months,omitempty"`
	FounderHoursPerWeek *string `json:"founder_hours_per_week,omitempty"`
	Headcount           *string `json:"headcount,omitempty"`
}

type cognitionResponse struct {
	Profile *db.CognitionProfile `json:"profile"`
	// Signals holds every rule key with its fired state; absent profile
	// fields evaluate to false, never to an error.
	Signals map[string]bool `json:"signals"`
}

func (h *Handler) handleCognition(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	switch r.Method {
	case http.MethodGet:
		return h.getCognition(w, r, userID)
	case http.MethodPut:
		return h.putCognition(w, r, userID)
	case http.MethodDelete:
		return h.deleteCognition(w, r, userID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET, PUT, or DELETE.")
	}
}

func (h *Handler) getCognition(w http.ResponseWriter, r *http.Request, userID string) int {
	profile, err := h.db.GetCognitionProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrCognitionProfileNotFound) {
			return writeError(w, h.logger, codeNotFound, "No cognition profile yet; PUT to create one.")
		}

		h.logger.Error().Err(err).Msg("get cognition profile failed")

		return writeError(w, h.logger, codeInternal, "Failed to load cognition profile.")
	}

	return writeJSON(w, h.logger, http.StatusOK, cognitionResponse{
		Profile: profile,
		Signals: insights.EvaluateCognition(profile),
	})
}

func (h *Handler) putCognition(w http.ResponseWriter, r *http.Request, userID string) int {
	var req cognitionRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	profile := &db.CognitionProfile{}

	fields := []struct {
		name string
		raw  *string
		dst  **decimal.Decimal
	}{
		{"runway_months", req.RunwayMonths, &profile.RunwayMonths},
		{"monthly_burn", req.MonthlyBurn, &profile.MonthlyBurn},
		{"revenue_growth_pct", req.RevenueGrowthPct, &profile.RevenueGrowthPct},
		{"churn_rate_pct", req.ChurnRatePct, &profile.ChurnRatePct},
		{"gross_margin_pct", req.GrossMarginPct, &profile.GrossMarginPct},
		{"cac_payback_months", req.CACPaybackMonths, &profile.CACPaybackMonths},
		{"founder_hours_per_week", req.FounderHoursPerWeek, &profile.FounderHoursPerWeek},
		{"headcount", req.Headcount, &profile.Headcount},
	}

	for _, f := range fields {
		if f.raw == nil || *f.raw == "" {
			continue
		}

		d, err := decimal.NewFromString(*f.raw)
		if err != nil {
			return writeError(w, h.logger, codeBadRequest, f.name+" must be a number.")
		}

		*f.dst = &d
	}

	if err := h.db.UpsertCognitionProfile(r.Context(), userID, profile); err != nil {
		h.logger.Error().Err(err).Msg("upsert cognition profile failed")

		return writeError(w, h.logger, codeInternal, "Failed to save cognition profile.")
	}

	return writeJSON(w, h.logger, http.StatusOK, cognitionResponse{
		Profile: profile,
		Signals: insights.EvaluateCognition(profile),
	})
}

func (h *Handler) deleteCognition(w http.ResponseWriter, r *http.Request, userID string) int {
	err := h.db.DeleteCognitionProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrCognitionProfileNotFound) {
			return writeError(w, h.logger, codeNotFound, "No cognition profile to delete.")
		}

		h.logger.Error().Err(err).Msg("delete cognition profile failed")

		return writeError(w, h.logger, codeInternal, "Failed to delete cognition profile.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]bool{"deleted": true})
}
