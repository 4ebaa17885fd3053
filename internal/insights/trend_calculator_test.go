package insights

import "testing"

func TestExtractNumericValue(t *testing.T) {
	cases := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"$1.2M", 1200000, true},
		{"500k", 500000, true},
		{"€2b", 2000000000, true},
		{"15%", 15, true},
		{"1,200", 1200, true},
		{"10-20", 15, true},
		{"10 to 20", 15, true},
		{"solo", 1, true},
		{"2-10", 6, true},
		{"51-200", 125, true},
		{"500+", 750, true},
		{"-5%", -5, true},
		{"about 3.5", 3.5, true},
		{"no idea", 0, false},
		{"", 0, false},
		{"soon", 0, false},
	}

	for _, tc := range cases {
		got, ok := ExtractNumericValue(tc.input)
		if ok != tc.ok {
			t.Errorf("ExtractNumericValue(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}

		if ok && got != tc.want {
			t.Errorf("ExtractNumericValue(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(100, 110); got != 10 {
		t.Errorf("PercentChange(100, 110) = %v, want 10", got)
	}

	if got := PercentChange(100, 90); got != -10 {
		t.Errorf("PercentChange(100, 90) = %v, want -10", got)
	}

	if got := PercentChange(0, 50); got != 100 {
		t.Errorf("PercentChange(0, 50) = %v, want 100", got)
	}

	if got := PercentChange(0, 0); got != 0 {
		t.Errorf("PercentChange(0, 0) = %v, want 0", got)
	}
}

func TestClassifyChange(t *testing.T) {
	cases := []struct {
		name          string
		oldValue      float64
		newValue      float64
		lowerIsBetter bool
		want          ChangeDirection
	}{
		{"revenue up", 100, 120, false, ChangeImproving},
		{"revenue down", 100, 80, false, ChangeDeclining},
		{"revenue flat", 100, 103, false, ChangeStable},
		{"churn down", 10, 8, true, ChangeImproving},
		{"churn up", 10, 12, true, ChangeDeclining},
		{"churn flat", 10, 10.2, true, ChangeStable},
	}

	for _, tc := range cases {
		got := ClassifyChange(tc.oldValue, tc.newValue, tc.lowerIsBetter)
		if got != tc.want {
			t.Errorf("%s: ClassifyChange(%v, %v, %v) = %v, want %v",
				tc.name, tc.oldValue, tc.newValue, tc.lowerIsBetter, got, tc.want)
		}
	}
}
