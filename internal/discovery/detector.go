package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

const (
	detectionSearchResults = 20
	detectionMaxReturned   = 10
	minRelevanceScore      = 0.15

	// Provider score and context-overlap score are blended; overlap matters
	// more because provider scores are not comparable across backends.
	overlapWeight  = 0.7
	providerWeight = 0.3
)

// Detector searches for competitors relevant to a business context.
type Detector struct {
	registry *ProviderRegistry
	logger   *zerolog.Logger
}

func NewDetector(registry *ProviderRegistry, logger *zerolog.Logger) *Detector {
	return &Detector{registry: registry, logger: logger}
}

// Detect runs a provider search shaped by the business context and returns
// scored candidates, best first. The caller's own company and anything in
// exclude (already-managed competitors, keyed by normalized name) are
// filtered out.
func (d *Detector) Detect(ctx context.Context, bc *domain.BusinessContext, exclude map[string]bool) ([]domain.DetectedCompetitor, error) {
	query := buildDetectionQuery(bc)

	results, provider, err := d.registry.SearchWithFallback(ctx, query, detectionSearchResults)
	if err != nil {
		return nil, fmt.Errorf("competitor search: %w", err)
	}

	contextTokens := contextTokenSet(bc)
	selfName := NormalizeName(bc.CompanyName)
	now := time.Now().UTC()

	seen := make(map[string]bool)
	candidates := make([]domain.DetectedCompetitor, 0, len(results))

	for _, r := range results {
		name := candidateName(r.Title)
		if name == "" {
			continue
		}

		normalized := NormalizeName(name)
		if normalized == "" || normalized == selfName || exclude[normalized] || seen[normalized] {
			continue
		}

		score := relevanceScore(r, contextTokens)
		if score < minRelevanceScore {
			continue
		}

		seen[normalized] = true
		candidates = append(candidates, domain.DetectedCompetitor{
			Name:           name,
			Website:        r.URL,
			Snippet:        r.Description,
			Provider:       string(provider),
			RelevanceScore: float32(score),
			DetectedAt:     now,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})

	if len(candidates) > detectionMaxReturned {
		candidates = candidates[:detectionMaxReturned]
	}

	d.logger.Debug().
		Str("provider", string(provider)).
		Int("results", len(results)).
		Int("candidates", len(candidates)).
		Msg("competitor detection completed")

	return candidates, nil
}

// buildDetectionQuery shapes the search from whatever context fields exist.
func buildDetectionQuery(bc *domain.BusinessContext) string {
	parts := make([]string, 0, 4)

	if bc.Industry != "" {
		parts = append(parts, bc.Industry)
	}

	if bc.SubIndustry != "" {
		parts = append(parts, bc.SubIndustry)
	}

	if bc.TargetMarket != "" {
		parts = append(parts, "for "+bc.TargetMarket)
	}

	if len(parts) == 0 && bc.Description != "" {
		parts = append(parts, bc.Description)
	}

	parts = append(parts, "competitors alternatives")

	return strings.Join(parts, " ")
}

// candidateName extracts a company name from a result title, taking the
// segment before the usual title separators.
func candidateName(title string) string {
	name := title

	for _, sep := range []string{" - ", " | ", " – ", ": ", " — "} {
		if idx := strings.Index(name, sep); idx > 0 {
			name = name[:idx]
		}
	}

	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 80 {
		return ""
	}

	return name
}

func contextTokenSet(bc *domain.BusinessContext) map[string]bool {
	tokens := make(map[string]bool)

	add := func(s string) {
		for _, w := range strings.Fields(strings.ToLower(s)) {
			if len(w) > 3 {
				tokens[w] = true
			}
		}
	}

	add(bc.Industry)
	add(bc.SubIndustry)
	add(bc.TargetMarket)
	add(bc.ValueProposition)
	add(bc.Description)

	for _, seg := range bc.CustomerSegments {
		add(seg)
	}

	return tokens
}

// relevanceScore blends token overlap against the business context with the
// provider's own score when it reports one.
func relevanceScore(r SearchResult, contextTokens map[string]bool) float64 {
	if len(contextTokens) == 0 {
		return providerWeight * clamp01(r.Score)
	}

	matched := 0
	text := strings.ToLower(r.Title + " " + r.Description)

	for token := range contextTokens {
		if strings.Contains(text, token) {
			matched++
		}
	}

	// A result sharing nothing with the context is noise regardless of how
	// the provider scored it.
	if matched == 0 {
		return 0
	}

	overlap := float64(matched) / float64(len(contextTokens))

	return overlapWeight*clamp01(overlap*4) + providerWeight*clamp01(r.Score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
