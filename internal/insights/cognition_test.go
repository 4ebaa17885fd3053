package insights

import (
	"testing"

	"github.com/shopspring/decimal"

	db "github.com/boardofone/advisory-backend/internal/storage"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestEvaluateCognition_NilProfile(t *testing.T) {
	result := EvaluateCognition(nil)

	if len(result) != len(CognitionRules) {
		t.Fatalf("result length = %d, want %d", len(result), len(CognitionRules))
	}

	for key, fired := range result {
		if fired {
			t.Errorf("rule %q fired on nil profile", key)
		}
	}
}

func TestEvaluateCognition_EmptyProfile(t *testing.T) {
	result := EvaluateCognition(&db.CognitionProfile{})

	for key, fired := range result {
		if fired {
			t.Errorf("rule %q fired with all fields unknown", key)
		}
	}
}

func TestEvaluateCognition_RunwayCritical(t *testing.T) {
	p := &db.CognitionProfile{RunwayMonths: dec("4.5")}

	result := EvaluateCognition(p)

	if !result["runway_critical"] {
		t.Error("runway_critical = false, want true for 4.5 months")
	}

	if result["churn_elevated"] {
		t.Error("churn_elevated fired without churn data")
	}
}

func TestEvaluateCognition_FullProfile(t *testing.T) {
	p := &db.CognitionProfile{
		RunwayMonths:        dec("10"),
		MonthlyBurn:         dec("50000"),
		RevenueGrowthPct:    dec("3"),
		ChurnRatePct:        dec("15"),
		GrossMarginPct:      dec("35"),
		CACPaybackMonths:    dec("24"),
		FounderHoursPerWeek: dec("80"),
		Headcount:           dec("25"),
	}

	result := EvaluateCognition(p)

	want := map[string]bool{
		"runway_critical":       false,
		"burn_outpacing_runway": true,
		"growth_stalled":        true,
		"churn_elevated":        true,
		"margin_thin":           true,
		"cac_payback_long":      true,
		"founder_overloaded":    true,
		"team_scaling":          true,
	}

	for key, expected := range want {
		if result[key] != expected {
			t.Errorf("rule %q = %v, want %v", key, result[key], expected)
		}
	}
}

func TestCognitionRuleKeysStable(t *testing.T) {
	seen := make(map[string]bool)

	for _, rule := range CognitionRules {
		if rule.Key == "" {
			t.Error("rule with empty key")
		}

		if seen[rule.Key] {
			t.Errorf("duplicate rule key %q", rule.Key)
		}

		seen[rule.Key] = true
	}

	if len(CognitionRules) != 8 {
		t.Errorf("rule count = %d, want 8", len(CognitionRules))
	}
}
