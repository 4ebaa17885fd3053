package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/boardofone/advisory-backend/internal/core/domain"
)

const maxSourceTextChars = 8000

const competitorPromptTemplate = `You are a competitive analyst advising a founder.

%s

Analyze the competitor %q.%s

Respond with ONLY a JSON object in this exact shape:
{
  "strengths": ["..."],
  "weaknesses": ["..."],
  "positioning": "one sentence on how they position themselves",
  "threat_level": "low|medium|high",
  "summary": "2-3 sentence takeaway for the founder"
}`

const trendPromptTemplate = `You are a market analyst advising a founder.

%s

Assess whether and how this article matters to the business above.

Title: %s
URL: %s

Article:
%s

Respond with ONLY a JSON object in this exact shape:
{
  "summary": "2-3 sentence summary focused on relevance to the business",
  "impact": "low|medium|high",
  "direction": "tailwind|headwind|neutral"
}`

const trendSummaryPromptTemplate = `You are a market analyst advising a founder.

%s

Below are recent trend insights already assessed for this business. Roll them
up into a single briefing.

%s

Respond with ONLY a JSON object in this exact shape:
{
  "headline": "one sentence capturing the overall picture",
  "key_trends": ["..."],
  "opportunities": ["..."],
  "risks": ["..."]
}`

const metricsPromptTemplate = `You are a skeptical CFO reviewing a founder's business profile.

%s

Propose up to 5 metrics this founder should track but currently does not, or
tracks poorly. Be skeptical: prefer metrics that would expose problems the
profile glosses over. Allowed field values: monthly_revenue, annual_revenue,
revenue_growth_rate, average_deal_size, churn_rate, customer_acquisition_cost,
customer_lifetime_value, team_size, total_funding, monthly_burn, runway_months.

Respond with ONLY a JSON array in this exact shape:
[
  {
    "field": "one of the allowed field values",
    "name": "human-readable metric name",
    "rationale": "why this metric matters for this specific business",
    "target": "a sensible target, as text",
    "priority": 1,
    "confidence": 0.8
  }
]`

const researchPromptTemplate = `You are a business research advisor.

%s

Answer the founder's question below. Be specific and practical; ground the
answer in the business profile where relevant. Answer in plain prose, no JSON.

Question: %s`

// renderContext flattens the business context into prompt-friendly lines.
// Empty fields are skipped so sparse profiles stay short.
func renderContext(bc *domain.BusinessContext) string {
	if bc == nil {
		return "Business profile: not provided."
	}

	var sb strings.Builder

	sb.WriteString("Business profile:\n")

	add := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "- %s: %s\n", label, value)
		}
	}
	addList := func(label string, values []string) {
		if len(values) > 0 {
			fmt.Fprintf(&sb, "- %s: %s\n", label, strings.Join(values, ", "))
		}
	}

	add("Company", bc.CompanyName)
	add("Industry", bc.Industry)
	add("Sub-industry", bc.SubIndustry)
	add("Stage", string(bc.Stage))
	add("Location", bc.Location)
	add("Description", bc.Description)
	add("Value proposition", bc.ValueProposition)
	add("Target market", bc.TargetMarket)
	addList("Customer segments", bc.CustomerSegments)
	add("Revenue model", string(bc.RevenueModel))
	add("Pricing model", bc.PricingModel)
	add("Monthly revenue", bc.MonthlyRevenue)
	add("Annual revenue", bc.AnnualRevenue)
	add("Revenue growth rate", bc.RevenueGrowthRate)
	add("Churn rate", bc.ChurnRate)
	add("CAC", bc.CustomerAcquisition)
	add("LTV", bc.CustomerLifetime)
	add("Team size", bc.TeamSize)
	add("Funding stage", bc.FundingStage)
	add("Total funding", bc.TotalFunding)
	add("Monthly burn", bc.MonthlyBurn)
	add("Runway (months)", bc.RunwayMonths)
	addList("Known competitors", bc.Competitors)
	add("Competitive advantage", bc.CompetitiveAdvantage)
	addList("Key challenges", bc.KeyChallenges)
	addList("Short-term goals", bc.ShortTermGoals)
	addList("Long-term goals", bc.LongTermGoals)

	return strings.TrimRight(sb.String(), "\n")
}

func buildCompetitorPrompt(bc *domain.BusinessContext, name, sourceText string) string {
	var source string
	if sourceText != "" {
		source = "\n\nSource material about the competitor:\n" + truncate(sourceText, maxSourceTextChars)
	}

	return fmt.Sprintf(competitorPromptTemplate, renderContext(bc), name, source)
}

func buildTrendPrompt(bc *domain.BusinessContext, sourceURL, title, content string) string {
	return fmt.Sprintf(trendPromptTemplate, renderContext(bc), title, sourceURL, truncate(content, maxSourceTextChars))
}

func buildTrendSummaryPrompt(bc *domain.BusinessContext, insights []domain.TrendInsight) string {
	var sb strings.Builder

	for i, in := range insights {
		fmt.Fprintf(&sb, "[%d] %s (%s, impact: %s, direction: %s)\n%s\n\n",
			i+1, in.Title, in.SourceURL, in.Impact, in.Direction, in.Summary)
	}

	return fmt.Sprintf(trendSummaryPromptTemplate, renderContext(bc), strings.TrimSpace(sb.String()))
}

func buildMetricsPrompt(bc *domain.BusinessContext) string {
	return fmt.Sprintf(metricsPromptTemplate, renderContext(bc))
}

func buildResearchPrompt(bc *domain.BusinessContext, question string) string {
	return fmt.Sprintf(researchPromptTemplate, renderContext(bc), question)
}

func truncate(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}

	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "…"
}
