package insights

import "testing"

func TestMatchMetricField(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"What is your monthly revenue?", FieldMonthlyRevenue},
		{"What's your ARR?", FieldAnnualRevenue},
		{"How fast are you growing?", FieldGrowthRate},
		{"What does churn look like?", FieldChurnRate},
		{"How much runway do you have left?", FieldRunwayMonths},
		{"What's your burn rate?", FieldMonthlyBurn},
		{"What is your current headcount?", FieldTeamSize},
		{"Favorite color?", ""},
	}

	for _, tc := range cases {
		if got := MatchMetricField(tc.input); got != tc.want {
			t.Errorf("MatchMetricField(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("What is your monthly revenue?", "around $40k")
	if !ok {
		t.Fatal("ParseMetric() ok = false, want true")
	}

	if m.Field != FieldMonthlyRevenue {
		t.Errorf("Field = %q, want %q", m.Field, FieldMonthlyRevenue)
	}

	if m.Value != 40000 {
		t.Errorf("Value = %v, want 40000", m.Value)
	}
}

func TestParseMetric_FieldFromAnswer(t *testing.T) {
	m, ok := ParseMetric("Anything else to share?", "our churn is about 12%")
	if !ok {
		t.Fatal("ParseMetric() ok = false, want true")
	}

	if m.Field != FieldChurnRate {
		t.Errorf("Field = %q, want %q", m.Field, FieldChurnRate)
	}

	if m.Value != 12 {
		t.Errorf("Value = %v, want 12", m.Value)
	}
}

func TestParseMetric_NoNumber(t *testing.T) {
	if _, ok := ParseMetric("What is your monthly revenue?", "it varies a lot"); ok {
		t.Error("ParseMetric() ok = true, want false for non-numeric answer")
	}
}

func TestLowerIsBetter(t *testing.T) {
	if !LowerIsBetter(FieldChurnRate) {
		t.Error("LowerIsBetter(churn_rate) = false, want true")
	}

	if LowerIsBetter(FieldMonthlyRevenue) {
		t.Error("LowerIsBetter(monthly_revenue) = true, want false")
	}
}
