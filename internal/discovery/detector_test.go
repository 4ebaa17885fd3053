package discovery

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme Inc.", "acme"},
		{"ACME", "acme"},
		{"Café Società Ltd", "cafe societa"},
		{"Rival-CRM LLC", "rival crm"},
		{"plain name", "plain name"},
		{"Co", "co"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCandidateName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Rival CRM - the best CRM for plumbers", "Rival CRM"},
		{"Rival CRM | Pricing", "Rival CRM"},
		{"Plain Title", "Plain Title"},
		{"x", ""},
	}

	for _, tt := range tests {
		if got := candidateName(tt.title); got != tt.want {
			t.Errorf("candidateName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestDetectFiltersSelfAndManaged(t *testing.T) {
	provider := &fakeProvider{
		name:      "fake",
		available: true,
		results: []SearchResult{
			{URL: "https://self.example.com", Title: "Acme - CRM software for plumbing companies", Description: "plumbing CRM software", Score: 0.9},
			{URL: "https://managed.example.com", Title: "Managed Rival - plumbing CRM", Description: "plumbing CRM software", Score: 0.8},
			{URL: "https://new.example.com", Title: "FreshPipe - CRM software for plumbing teams", Description: "plumbing CRM software for plumbing companies", Score: 0.7},
			{URL: "https://offtopic.example.com", Title: "Cooking recipes weekly", Description: "unrelated food blog", Score: 0.9},
		},
	}

	registry := NewProviderRegistry()
	registry.Register(provider)

	logger := zerolog.Nop()
	d := NewDetector(registry, &logger)

	bc := &domain.BusinessContext{
		CompanyName: "Acme",
		Industry:    "plumbing software",
		Description: "CRM software for plumbing companies",
	}

	got, err := d.Detect(context.Background(), bc, map[string]bool{"managed rival": true})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}

	if got[0].Name != "FreshPipe" {
		t.Fatalf("expected FreshPipe, got %q", got[0].Name)
	}

	if got[0].Provider != "fake" || got[0].RelevanceScore <= 0 {
		t.Fatalf("unexpected candidate metadata: %+v", got[0])
	}
}
