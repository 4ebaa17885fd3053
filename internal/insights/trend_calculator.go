// Package insights holds the pure functions that turn free-text business
// answers and LLM output into structured metrics: numeric extraction,
// percent-change classification, metric mapping, and cognition rules.
package insights

import (
	"regexp"
	"strconv"
	"strings"
)

// ChangeDirection classifies a metric movement for display.
type ChangeDirection string

// Change direction constants.
const (
	ChangeImproving ChangeDirection = "improving"
	ChangeDeclining ChangeDirection = "declining"
	ChangeStable    ChangeDirection = "stable"
)

// stableThresholdPct is the band within which a change counts as stable.
const stableThresholdPct = 5.0

// Magnitude suffix multipliers for shorthand like "1.2m" or "500k".
var suffixMultipliers = map[string]float64{
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
}

// teamSizeBuckets maps the fixed team-size answers to representative counts.
var teamSizeBuckets = map[string]float64{
	"solo":         1,
	"just me":      1,
	"1":            1,
	"2-10":         6,
	"11-50":        30,
	"51-200":       125,
	"201-500":      350,
	"500+":         750,
	"1000+":        1500,
	"small team":   5,
	"growing team": 25,
}

var (
	numberPattern = regexp.MustCompile(`-?\d+(?:,\d{3})*(?:\.\d+)?`)
	rangePattern  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:-|to|–)\s*(-?\d+(?:\.\d+)?)`)
	suffixPattern = regexp.MustCompile(`(?i)(-?\d+(?:,\d{3})*(?:\.\d+)?)\s*([kmb])\b`)
)

// ExtractNumericValue pulls a float out of a free-text metric answer.
// It understands currency symbols, percent signs, magnitude suffixes
// ("$1.2M", "500k"), numeric ranges ("10-20" takes the midpoint), and the
// fixed team-size buckets. Returns false when nothing numeric is found;
// unparseable input is never an error.
func ExtractNumericValue(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return 0, false
	}

	if v, ok := teamSizeBuckets[strings.ToLower(cleaned)]; ok {
		return v, true
	}

	// Magnitude suffix first: "1.2m" must not parse as the bare number 1.2.
	if m := suffixPattern.FindStringSubmatch(cleaned); m != nil {
		base, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return base * suffixMultipliers[strings.ToLower(m[2])], true
		}
	}

	// Ranges take the midpoint.
	if m := rangePattern.FindStringSubmatch(cleaned); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)

		if errLo == nil && errHi == nil && hi >= lo {
			return (lo + hi) / 2, true
		}
	}

	if m := numberPattern.FindString(cleaned); m != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err == nil {
			return v, true
		}
	}

	return 0, false
}

// PercentChange returns the relative change from old to new in percent.
// A zero old value yields 0 for zero new and ±100 otherwise.
func PercentChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		switch {
		case newValue > 0:
			return 100
		case newValue < 0:
			return -100
		default:
			return 0
		}
	}

	return (newValue - oldValue) / abs(oldValue) * 100
}

// ClassifyChange buckets a metric movement. lowerIsBetter flips the
// direction-of-good for metrics like churn or burn.
func ClassifyChange(oldValue, newValue float64, lowerIsBetter bool) ChangeDirection {
	change := PercentChange(oldValue, newValue)

	if abs(change) < stableThresholdPct {
		return ChangeStable
	}

	improved := change > 0
	if lowerIsBetter {
		improved = !improved
	}

	if improved {
		return ChangeImproving
	}

	return ChangeDeclining
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
