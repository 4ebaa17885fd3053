package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	"github.com/boardofone/advisory-backend/internal/discovery"
	"github.com/boardofone/advisory-backend/internal/platform/observability"
	db "github.com/boardofone/advisory-backend/internal/storage"
)

const (
	detectedListLimit   = 20
	autoSaveTimeout     = 10 * time.Second
	autoSaveStatusOK    = "ok"
	autoSaveStatusError = "error"
)

func (h *Handler) dispatchCompetitors(w http.ResponseWriter, r *http.Request, path string) (string, int) {
	rest := strings.TrimPrefix(path, routeCompetitors)

	switch {
	case rest == "" || rest == "/":
		return "competitors", h.handleManagedCompetitors(w, r)
	case rest == "/detect":
		return "competitors_detect", h.handleDetect(w, r)
	case rest == "/detected":
		return "competitors_detected", h.handleDetected(w, r)
	case strings.HasPrefix(rest, "/insights/"):
		return "competitor_insights", h.handleCompetitorInsight(w, r, strings.TrimPrefix(rest, "/insights/"))
	case strings.HasPrefix(rest, "/"):
		return "competitors", h.handleManagedCompetitorByID(w, r, strings.TrimPrefix(rest, "/"))
	default:
		return "not_found", writeError(w, h.logger, codeNotFound, "Unknown competitors endpoint.")
	}
}

type managedCompetitorRequest struct {
	Name        string            `json:"name"`
	Website     string            `json:"website,omitempty"`
	Description string            `json:"description,omitempty"`
	Enrichment  map[string]string `json:"enrichment,omitempty"`
}

func (h *Handler) handleManagedCompetitors(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.db.ListManagedCompetitors(r.Context(), userID)
		if err != nil {
			h.logger.Error().Err(err).Msg("list managed competitors failed")

			return writeError(w, h.logger, codeInternal, "Failed to load competitors.")
		}

		return writeJSON(w, h.logger, http.StatusOK, map[string]any{"competitors": list})
	case http.MethodPost:
		return h.saveManagedCompetitor(w, r, userID)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
	}
}

func (h *Handler) saveManagedCompetitor(w http.ResponseWriter, r *http.Request, userID string) int {
	var req managedCompetitorRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBody, &req); err != nil {
		return writeError(w, h.logger, codeBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return writeError(w, h.logger, codeBadRequest, "name is required.")
	}

	normalized := discovery.NormalizeName(req.Name)
	if normalized == "" {
		return writeError(w, h.logger, codeBadRequest, "name has no usable characters.")
	}

	c := domain.ManagedCompetitor{
		Name:        req.Name,
		Website:     req.Website,
		Description: req.Description,
		Enrichment:  req.Enrichment,
	}

	id, err := h.db.UpsertManagedCompetitor(r.Context(), userID, &c, normalized)
	if err != nil {
		h.logger.Error().Err(err).Msg("upsert managed competitor failed")

		return writeError(w, h.logger, codeInternal, "Failed to save competitor.")
	}

	c.ID = id

	return writeJSON(w, h.logger, http.StatusOK, &c)
}

func (h *Handler) handleManagedCompetitorByID(w http.ResponseWriter, r *http.Request, competitorID string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodDelete {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use DELETE.")
	}

	err := h.db.DeleteManagedCompetitor(r.Context(), userID, competitorID)
	if err != nil {
		if errors.Is(err, db.ErrCompetitorNotFound) {
			return writeError(w, h.logger, codeNotFound, "No competitor with that ID.")
		}

		h.logger.Error().Err(err).Msg("delete managed competitor failed")

		return writeError(w, h.logger, codeInternal, "Failed to delete competitor.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]bool{"deleted": true})
}

// handleDetect runs provider search shaped by the stored business context.
// Detected candidates are returned immediately and persisted in the
// background; a failed save never fails the request.
func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodPost {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use POST.")
	}

	if !h.detectLimit.Allow(r) {
		return writeError(w, h.logger, codeRateLimited, "Detection is rate limited; try again shortly.")
	}

	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context for detection failed")

		return writeError(w, h.logger, codeInternal, "Failed to run detection.")
	}

	managed, err := h.db.ListManagedCompetitors(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list managed for detection failed")

		return writeError(w, h.logger, codeInternal, "Failed to run detection.")
	}

	exclude := make(map[string]bool, len(managed))
	for _, m := range managed {
		exclude[discovery.NormalizeName(m.Name)] = true
	}

	detected, err := h.detector.Detect(r.Context(), bc, exclude)
	if err != nil {
		if errors.Is(err, discovery.ErrNoProvidersAvailable) {
			return writeError(w, h.logger, codeUpstreamFailed, "No search provider is available right now.")
		}

		h.logger.Error().Err(err).Msg("competitor detection failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Detection failed.")
	}

	go h.autoSaveDetected(userID, detected)

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"detected": detected})
}

// autoSaveDetected persists detection results outside the request lifecycle.
func (h *Handler) autoSaveDetected(userID string, detected []domain.DetectedCompetitor) {
	ctx, cancel := context.WithTimeout(context.Background(), autoSaveTimeout)
	defer cancel()

	for i := range detected {
		normalized := discovery.NormalizeName(detected[i].Name)

		if err := h.db.UpsertDetectedCompetitor(ctx, userID, &detected[i], normalized); err != nil {
			observability.RecordAutoSave(autoSaveStatusError)
			h.logger.Warn().Err(err).Str("competitor", detected[i].Name).Msg("auto-save of detected competitor failed")

			continue
		}

		observability.RecordAutoSave(autoSaveStatusOK)
	}
}

func (h *Handler) handleDetected(w http.ResponseWriter, r *http.Request) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	if r.Method != http.MethodGet {
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET.")
	}

	list, err := h.db.ListDetectedCompetitors(r.Context(), userID, detectedListLimit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list detected competitors failed")

		return writeError(w, h.logger, codeInternal, "Failed to load detected competitors.")
	}

	return writeJSON(w, h.logger, http.StatusOK, map[string]any{"detected": list})
}

// handleCompetitorInsight serves cached analyses on GET and generates a
// fresh one on POST, grounded on the competitor's website when it can be
// fetched.
func (h *Handler) handleCompetitorInsight(w http.ResponseWriter, r *http.Request, name string) int {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return http.StatusUnauthorized
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return writeError(w, h.logger, codeBadRequest, "competitor name is required.")
	}

	switch r.Method {
	case http.MethodGet:
		insight, err := h.db.GetCompetitorInsight(r.Context(), userID, name)
		if err != nil {
			if errors.Is(err, db.ErrCompetitorInsightNotFound) {
				return writeError(w, h.logger, codeNotFound, "No insight for that competitor yet.")
			}

			h.logger.Error().Err(err).Msg("get competitor insight failed")

			return writeError(w, h.logger, codeInternal, "Failed to load insight.")
		}

		return writeJSON(w, h.logger, http.StatusOK, insight)
	case http.MethodPost:
		return h.generateCompetitorInsight(w, r, userID, name)
	default:
		return writeError(w, h.logger, codeMethodNotAllowed, "Use GET or POST.")
	}
}

func (h *Handler) generateCompetitorInsight(w http.ResponseWriter, r *http.Request, userID, name string) int {
	bc, err := h.db.GetBusinessContext(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load context for insight failed")

		return writeError(w, h.logger, codeInternal, "Failed to generate insight.")
	}

	sourceText := h.competitorSourceText(r.Context(), userID, name)

	insight, err := h.llm.AnalyzeCompetitor(r.Context(), bc, name, sourceText)
	if err != nil {
		h.logger.Error().Err(err).Str("competitor", name).Msg("competitor analysis failed")

		return writeError(w, h.logger, codeUpstreamFailed, "Analysis failed.")
	}

	if err := h.db.UpsertCompetitorInsight(r.Context(), userID, insight); err != nil {
		h.logger.Warn().Err(err).Msg("cache competitor insight failed")
	}

	return writeJSON(w, h.logger, http.StatusOK, insight)
}

// competitorSourceText fetches the competitor's website text when we know
// it. An empty string just means the analysis runs without grounding.
func (h *Handler) competitorSourceText(ctx context.Context, userID, name string) string {
	managed, err := h.db.ListManagedCompetitors(ctx, userID)
	if err != nil {
		return ""
	}

	normalized := discovery.NormalizeName(name)

	for _, m := range managed {
		if discovery.NormalizeName(m.Name) != normalized || m.Website == "" {
			continue
		}

		article, fetchErr := h.fetcher.Fetch(ctx, m.Website)
		if fetchErr != nil {
			h.logger.Debug().Err(fetchErr).Str("website", m.Website).Msg("competitor site fetch failed")

			return ""
		}

		return article.TextContent
	}

	return ""
}
