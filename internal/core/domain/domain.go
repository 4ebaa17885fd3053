// Package domain holds the shared business types passed between storage,
// services, and handlers.
package domain

import "time"

// Clarification is a Q&A pair captured during a deliberation session.
// Answers are optionally parsed into a structured metric.
type Clarification struct {
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Category    string    `json:"category,omitempty"`
	Confidence  float32   `json:"confidence,omitempty"`
	MetricField string    `json:"metric_field,omitempty"`
	MetricValue *float64  `json:"metric_value,omitempty"`
	AnsweredAt  time.Time `json:"answered_at"`
}

// ManagedCompetitor is a competitor record the user has saved and enriched.
type ManagedCompetitor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Website     string            `json:"website,omitempty"`
	Description string            `json:"description,omitempty"`
	Enrichment  map[string]string `json:"enrichment,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// DetectedCompetitor is an ad-hoc search result with relevance scoring,
// distinct from managed competitors.
type DetectedCompetitor struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Website        string    `json:"website,omitempty"`
	Snippet        string    `json:"snippet,omitempty"`
	Provider       string    `json:"provider"`
	RelevanceScore float32   `json:"relevance_score"`
	DetectedAt     time.Time `json:"detected_at"`
}

// CompetitorInsight is a cached LLM analysis of a single competitor.
type CompetitorInsight struct {
	CompetitorName string    `json:"competitor_name"`
	Strengths      []string  `json:"strengths,omitempty"`
	Weaknesses     []string  `json:"weaknesses,omitempty"`
	Positioning    string    `json:"positioning,omitempty"`
	ThreatLevel    string    `json:"threat_level,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Model          string    `json:"model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrendInsight is a cached LLM analysis of a single trend source URL.
type TrendInsight struct {
	SourceURL string    `json:"source_url"`
	Title     string    `json:"title,omitempty"`
	Summary   string    `json:"summary"`
	Impact    string    `json:"impact,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TrendSummary is the singleton cross-source trend rollup per user.
type TrendSummary struct {
	Headline      string    `json:"headline"`
	KeyTrends     []string  `json:"key_trends,omitempty"`
	Opportunities []string  `json:"opportunities,omitempty"`
	Risks         []string  `json:"risks,omitempty"`
	Model         string    `json:"model,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Goal tracks a target for one business metric.
type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	MetricField  string     `json:"metric_field,omitempty"`
	TargetValue  *float64   `json:"target_value,omitempty"`
	CurrentValue *float64   `json:"current_value,omitempty"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Goal status constants.
const (
	GoalStatusActive    = "active"
	GoalStatusAchieved  = "achieved"
	GoalStatusAbandoned = "abandoned"
)

// PublishedDecision is a deliberation-session artifact the user published.
type PublishedDecision struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Decision status constants.
const (
	DecisionStatusDraft     = "draft"
	DecisionStatusPublished = "published"
	DecisionStatusArchived  = "archived"
)

// Contribution is one advisor voice within a published decision.
type Contribution struct {
	ID          string    `json:"id"`
	DecisionID  string    `json:"decision_id"`
	AdvisorRole string    `json:"advisor_role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Recommendation is an actionable follow-up attached to a decision.
// Recommendation status constants.
const (
	RecommendationStatusOpen      = "open"
	RecommendationStatusCompleted = "completed"
	RecommendationStatusDismissed = "dismissed"
)

type Recommendation struct {
	ID         string         `json:"id"`
	DecisionID string         `json:"decision_id,omitempty"`
	Content    map[string]any `json:"content"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// MetricSuggestion is one structured metric the LLM proposes tracking.
type MetricSuggestion struct {
	Field      string  `json:"field"`
	Name       string  `json:"name"`
	Rationale  string  `json:"rationale,omitempty"`
	Target     string  `json:"target,omitempty"`
	Priority   int     `json:"priority,omitempty"`
	Confidence float32 `json:"confidence,omitempty"`
}
