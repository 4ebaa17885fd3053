package api

import (
	"testing"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

func TestRecommendationFromRequestDefaultsToOpen(t *testing.T) {
	rec, err := recommendationFromRequest(&recommendationRequest{
		Content: map[string]any{"action": "raise prices"},
	})
	if err != nil {
		t.Fatalf("recommendationFromRequest: %v", err)
	}

	if rec.Status != domain.RecommendationStatusOpen {
		t.Fatalf("new recommendation status = %q, want %q", rec.Status, domain.RecommendationStatusOpen)
	}
}

func TestRecommendationFromRequestRequiresContent(t *testing.T) {
	if _, err := recommendationFromRequest(&recommendationRequest{}); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestValidRecommendationStatus(t *testing.T) {
	for _, status := range []string{
		domain.RecommendationStatusOpen,
		domain.RecommendationStatusCompleted,
		domain.RecommendationStatusDismissed,
	} {
		if !validRecommendationStatus(status) {
			t.Fatalf("%q should be accepted", status)
		}
	}

	for _, status := range []string{"", "done", "OPEN", "archived"} {
		if validRecommendationStatus(status) {
			t.Fatalf("%q should be rejected", status)
		}
	}
}
