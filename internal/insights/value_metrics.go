package insights

import "strings"

// Known metric field keys, matching domain.MetricFields.
const (
	FieldMonthlyRevenue  = "monthly_revenue"
	FieldAnnualRevenue   = "annual_revenue"
	FieldGrowthRate      = "revenue_growth_rate"
	FieldAverageDealSize = "average_deal_size"
	FieldChurnRate       = "churn_rate"
	FieldCAC             = "customer_acquisition_cost"
	FieldLTV             = "customer_lifetime_value"
	FieldTeamSize        = "team_size"
	FieldTotalFunding    = "total_funding"
	FieldMonthlyBurn     = "monthly_burn"
	FieldRunwayMonths    = "runway_months"
)

// lowerIsBetter marks metrics whose direction-of-good points down.
var lowerIsBetter = map[string]bool{
	FieldChurnRate:   true,
	FieldCAC:         true,
	FieldMonthlyBurn: true,
}

// fieldKeywords maps question/insight phrasing to metric fields. Longer,
// more specific phrases are listed first within each field so that e.g.
// "annual revenue" wins over plain "revenue".
var fieldKeywords = []struct {
	field    string
	keywords []string
}{
	{FieldAnnualRevenue, []string{"annual revenue", "arr", "yearly revenue"}},
	{FieldMonthlyRevenue, []string{"monthly revenue", "mrr", "revenue per month"}},
	{FieldGrowthRate, []string{"growth rate", "growing", "growth"}},
	{FieldAverageDealSize, []string{"deal size", "average deal", "contract value", "acv"}},
	{FieldChurnRate, []string{"churn", "retention loss", "cancellation"}},
	{FieldCAC, []string{"acquisition cost", "cac", "cost to acquire"}},
	{FieldLTV, []string{"lifetime value", "ltv", "customer value"}},
	{FieldTeamSize, []string{"team size", "employees", "headcount", "people on the team"}},
	{FieldTotalFunding, []string{"funding", "raised", "investment"}},
	{FieldMonthlyBurn, []string{"burn rate", "burn", "monthly spend"}},
	{FieldRunwayMonths, []string{"runway"}},
	{FieldMonthlyRevenue, []string{"revenue"}}, // generic fallback
}

// MatchMetricField maps free text (a clarification question, an insight
// sentence) to a metric field key. Returns "" when nothing matches.
func MatchMetricField(text string) string {
	lowered := strings.ToLower(text)

	for _, entry := range fieldKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.field
			}
		}
	}

	return ""
}

// LowerIsBetter reports whether a smaller value is an improvement for the
// given metric field.
func LowerIsBetter(field string) bool {
	return lowerIsBetter[field]
}

// ParsedMetric is a structured metric extracted from a free-text answer.
type ParsedMetric struct {
	Field string
	Value float64
}

// ParseMetric combines field matching on the question with numeric
// extraction on the answer. Returns false when either half fails; a
// question that names no known metric or an answer with no number simply
// yields no metric.
func ParseMetric(question, answer string) (ParsedMetric, bool) {
	field := MatchMetricField(question)
	if field == "" {
		field = MatchMetricField(answer)
	}

	if field == "" {
		return ParsedMetric{}, false
	}

	value, ok := ExtractNumericValue(answer)
	if !ok {
		return ParsedMetric{}, false
	}

	return ParsedMetric{Field: field, Value: value}, true
}
