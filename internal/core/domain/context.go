package domain

// CompanyStage classifies how far along the business is.
type CompanyStage string

// Company stage constants.
const (
	StageIdea     CompanyStage = "idea"
	StagePreSeed  CompanyStage = "pre_seed"
	StageSeed     CompanyStage = "seed"
	StageGrowth   CompanyStage = "growth"
	StageScaleUp  CompanyStage = "scale_up"
	StageMature   CompanyStage = "mature"
	StageUnknown  CompanyStage = ""
	StageBuilding CompanyStage = "building"
)

// RevenueModel classifies how the business earns money.
type RevenueModel string

// Revenue model constants.
const (
	RevenueSubscription RevenueModel = "subscription"
	RevenueTransaction  RevenueModel = "transactional"
	RevenueServices     RevenueModel = "services"
	RevenueAdvertising  RevenueModel = "advertising"
	RevenueMarketplace  RevenueModel = "marketplace"
	RevenueOther        RevenueModel = "other"
)

// BusinessContext is the per-user company profile stored as a single JSONB
// blob. All fields are optional; absent fields marshal away entirely so the
// stored blob only carries what the user has filled in.
type BusinessContext struct {
	CompanyName          string       `json:"company_name,omitempty"`
	Website              string       `json:"website,omitempty"`
	Industry             string       `json:"industry,omitempty"`
	SubIndustry          string       `json:"sub_industry,omitempty"`
	Stage                CompanyStage `json:"stage,omitempty"`
	FoundedYear          int          `json:"founded_year,omitempty"`
	Location             string       `json:"location,omitempty"`
	Description          string       `json:"description,omitempty"`
	ValueProposition     string       `json:"value_proposition,omitempty"`
	TargetMarket         string       `json:"target_market,omitempty"`
	CustomerSegments     []string     `json:"customer_segments,omitempty"`
	RevenueModel         RevenueModel `json:"revenue_model,omitempty"`
	PricingModel         string       `json:"pricing_model,omitempty"`
	MonthlyRevenue       string       `json:"monthly_revenue,omitempty"`
	AnnualRevenue        string       `json:"annual_revenue,omitempty"`
	RevenueGrowthRate    string       `json:"revenue_growth_rate,omitempty"`
	AverageDealSize      string       `json:"average_deal_size,omitempty"`
	ChurnRate            string       `json:"churn_rate,omitempty"`
	CustomerAcquisition  string       `json:"customer_acquisition_cost,omitempty"`
	CustomerLifetime     string       `json:"customer_lifetime_value,omitempty"`
	TeamSize             string       `json:"team_size,omitempty"`
	FoundersCount        int          `json:"founders_count,omitempty"`
	FundingStage         string       `json:"funding_stage,omitempty"`
	TotalFunding         string       `json:"total_funding,omitempty"`
	MonthlyBurn          string       `json:"monthly_burn,omitempty"`
	RunwayMonths         string       `json:"runway_months,omitempty"`
	Competitors          []string     `json:"competitors,omitempty"`
	CompetitiveAdvantage string       `json:"competitive_advantage,omitempty"`
	MarketingChannels    []string     `json:"marketing_channels,omitempty"`
	KeyChallenges        []string     `json:"key_challenges,omitempty"`
	ShortTermGoals       []string     `json:"short_term_goals,omitempty"`
	LongTermGoals        []string     `json:"long_term_goals,omitempty"`
}

// ContextPatch is a partial update to a BusinessContext. Nil pointers leave
// the stored value untouched; pointers to the zero value clear it.
type ContextPatch struct {
	CompanyName          *string       `json:"company_name,omitempty"`
	Website              *string       `json:"website,omitempty"`
	Industry             *string       `json:"industry,omitempty"`
	SubIndustry          *string       `json:"sub_industry,omitempty"`
	Stage                *CompanyStage `json:"stage,omitempty"`
	FoundedYear          *int          `json:"founded_year,omitempty"`
	Location             *string       `json:"location,omitempty"`
	Description          *string       `json:"description,omitempty"`
	ValueProposition     *string       `json:"value_proposition,omitempty"`
	TargetMarket         *string       `json:"target_market,omitempty"`
	CustomerSegments     *[]string     `json:"customer_segments,omitempty"`
	RevenueModel         *RevenueModel `json:"revenue_model,omitempty"`
	PricingModel         *string       `json:"pricing_model,omitempty"`
	MonthlyRevenue       *string       `json:"monthly_revenue,omitempty"`
	AnnualRevenue        *string       `json:"annual_revenue,omitempty"`
	RevenueGrowthRate    *string       `json:"revenue_growth_rate,omitempty"`
	AverageDealSize      *string       `json:"average_deal_size,omitempty"`
	ChurnRate            *string       `json:"churn_rate,omitempty"`
	CustomerAcquisition  *string       `json:"customer_acquisition_cost,omitempty"`
	CustomerLifetime     *string       `json:"customer_lifetime_value,omitempty"`
	TeamSize             *string       `json:"team_size,omitempty"`
	FoundersCount        *int          `json:"founders_count,omitempty"`
	FundingStage         *string       `json:"funding_stage,omitempty"`
	TotalFunding         *string       `json:"total_funding,omitempty"`
	MonthlyBurn          *string       `json:"monthly_burn,omitempty"`
	RunwayMonths         *string       `json:"runway_months,omitempty"`
	Competitors          *[]string     `json:"competitors,omitempty"`
	CompetitiveAdvantage *string       `json:"competitive_advantage,omitempty"`
	MarketingChannels    *[]string     `json:"marketing_channels,omitempty"`
	KeyChallenges        *[]string     `json:"key_challenges,omitempty"`
	ShortTermGoals       *[]string     `json:"short_term_goals,omitempty"`
	LongTermGoals        *[]string     `json:"long_term_goals,omitempty"`
}

// Apply merges the patch into ctx in place.
func (p *ContextPatch) Apply(ctx *BusinessContext) {
	applyStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyList := func(dst *[]string, src *[]string) {
		if src != nil {
			*dst = *src
		}
	}

	applyStr(&ctx.CompanyName, p.CompanyName)
	applyStr(&ctx.Website, p.Website)
	applyStr(&ctx.Industry, p.Industry)
	applyStr(&ctx.SubIndustry, p.SubIndustry)
	applyStr(&ctx.Location, p.Location)
	applyStr(&ctx.Description, p.Description)
	applyStr(&ctx.ValueProposition, p.ValueProposition)
	applyStr(&ctx.TargetMarket, p.TargetMarket)
	applyStr(&ctx.PricingModel, p.PricingModel)
	applyStr(&ctx.MonthlyRevenue, p.MonthlyRevenue)
	applyStr(&ctx.AnnualRevenue, p.AnnualRevenue)
	applyStr(&ctx.RevenueGrowthRate, p.RevenueGrowthRate)
	applyStr(&ctx.AverageDealSize, p.AverageDealSize)
	applyStr(&ctx.ChurnRate, p.ChurnRate)
	applyStr(&ctx.CustomerAcquisition, p.CustomerAcquisition)
	applyStr(&ctx.CustomerLifetime, p.CustomerLifetime)
	applyStr(&ctx.TeamSize, p.TeamSize)
	applyStr(&ctx.FundingStage, p.FundingStage)
	applyStr(&ctx.TotalFunding, p.TotalFunding)
	applyStr(&ctx.MonthlyBurn, p.MonthlyBurn)
	applyStr(&ctx.RunwayMonths, p.RunwayMonths)
	applyStr(&ctx.CompetitiveAdvantage, p.CompetitiveAdvantage)

	if p.Stage != nil {
		ctx.Stage = *p.Stage
	}

	if p.RevenueModel != nil {
		ctx.RevenueModel = *p.RevenueModel
	}

	if p.FoundedYear != nil {
		ctx.FoundedYear = *p.FoundedYear
	}

	if p.FoundersCount != nil {
		ctx.FoundersCount = *p.FoundersCount
	}

	applyList(&ctx.CustomerSegments, p.CustomerSegments)
	applyList(&ctx.Competitors, p.Competitors)
	applyList(&ctx.MarketingChannels, p.MarketingChannels)
	applyList(&ctx.KeyChallenges, p.KeyChallenges)
	applyList(&ctx.ShortTermGoals, p.ShortTermGoals)
	applyList(&ctx.LongTermGoals, p.LongTermGoals)
}

// MetricFields lists the context fields whose values carry a business metric.
// Writes to these fields record benchmark timestamps and history.
var MetricFields = map[string]func(*BusinessContext) string{
	"monthly_revenue":           func(c *BusinessContext) string { return c.MonthlyRevenue },
	"annual_revenue":            func(c *BusinessContext) string { return c.AnnualRevenue },
	"revenue_growth_rate":       func(c *BusinessContext) string { return c.RevenueGrowthRate },
	"average_deal_size":         func(c *BusinessContext) string { return c.AverageDealSize },
	"churn_rate":                func(c *BusinessContext) string { return c.ChurnRate },
	"customer_acquisition_cost": func(c *BusinessContext) string { return c.CustomerAcquisition },
	"customer_lifetime_value":   func(c *BusinessContext) string { return c.CustomerLifetime },
	"team_size":                 func(c *BusinessContext) string { return c.TeamSize },
	"total_funding":             func(c *BusinessContext) string { return c.TotalFunding },
	"monthly_burn":              func(c *BusinessContext) string { return c.MonthlyBurn },
	"runway_months":             func(c *BusinessContext) string { return c.RunwayMonths },
}
