package insights

import (
	"github.com/shopspring/decimal"

	db "github.com/boardofone/advisory-backend/internal/storage"
)

// CognitionRule is one boolean predicate over the decimal profile fields.
// Rules with missing inputs evaluate false, never panic.
type CognitionRule struct {
	Key         string
	Description string
	Predicate   func(*db.CognitionProfile) bool
}

// Threshold constants for the cognition rule table.
var (
	runwayCriticalMonths = decimal.NewFromInt(6)
	runwayWatchMonths    = decimal.NewFromInt(12)
	growthStalledPct     = decimal.NewFromInt(5)
	churnElevatedPct     = decimal.NewFromInt(10)
	marginThinPct        = decimal.NewFromInt(40)
	paybackLongMonths    = decimal.NewFromInt(18)
	founderOverloadHours = decimal.NewFromInt(70)
	scalingHeadcount     = decimal.NewFromInt(20)
)

// CognitionRules is the fixed rule table evaluated against a profile.
var CognitionRules = []CognitionRule{
	{
		Key:         "runway_critical",
		Description: "Runway under six months",
		Predicate: func(p *db.CognitionProfile) bool {
			return ltDec(p.RunwayMonths, runwayCriticalMonths)
		},
	},
	{
		Key:         "burn_outpacing_runway",
		Description: "Active burn with under a year of runway",
		Predicate: func(p *db.CognitionProfile) bool {
			return gtDec(p.MonthlyBurn, decimal.Zero) && ltDec(p.RunwayMonths, runwayWatchMonths)
		},
	},
	{
		Key:         "growth_stalled",
		Description: "Revenue growth under five percent",
		Predicate: func(p *db.CognitionProfile) bool {
			return ltDec(p.RevenueGrowthPct, growthStalledPct)
		},
	},
	{
		Key:         "churn_elevated",
		Description: "Churn above ten percent",
		Predicate: func(p *db.CognitionProfile) bool {
			return gtDec(p.ChurnRatePct, churnElevatedPct)
		},
	},
	{
		Key:         "margin_thin",
		Description: "Gross margin under forty percent",
		Predicate: func(p *db.CognitionProfile) bool {
			return ltDec(p.GrossMarginPct, marginThinPct)
		},
	},
	{
		Key:         "cac_payback_long",
		Description: "CAC payback over eighteen months",
		Predicate: func(p *db.CognitionProfile) bool {
			return gtDec(p.CACPaybackMonths, paybackLongMonths)
		},
	},
	{
		Key:         "founder_overloaded",
		Description: "Founder working over seventy hours a week",
		Predicate: func(p *db.CognitionProfile) bool {
			return gtDec(p.FounderHoursPerWeek, founderOverloadHours)
		},
	},
	{
		Key:         "team_scaling",
		Description: "Headcount past twenty, management structure needed",
		Predicate: func(p *db.CognitionProfile) bool {
			return gtDec(p.Headcount, scalingHeadcount)
		},
	},
}

// EvaluateCognition runs the full rule table against a profile.
func EvaluateCognition(p *db.CognitionProfile) map[string]bool {
	result := make(map[string]bool, len(CognitionRules))

	if p == nil {
		for _, rule := range CognitionRules {
			result[rule.Key] = false
		}

		return result
	}

	for _, rule := range CognitionRules {
		result[rule.Key] = rule.Predicate(p)
	}

	return result
}

func ltDec(v *decimal.Decimal, threshold decimal.Decimal) bool {
	return v != nil && v.LessThan(threshold)
}

func gtDec(v *decimal.Decimal, threshold decimal.Decimal) bool {
	return v != nil && v.GreaterThan(threshold)
}
