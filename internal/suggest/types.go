// Package suggest turns dashboard view-models into insights, prioritized
// recommendations and goal targets.
package suggest

import "github.com/blackwell-systems/tweetgenie/internal/analyzer"

// Priority ranks a recommendation.
type Priority string

// Priority levels for recommendations.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the sort weight of p: high=3, medium=2, low=1. Unknown
// priorities weigh 0 and sort last.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority maps a user-supplied level to a Priority. The empty string
// and "all" return "" with ok set, meaning no filter.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	case "", "all":
		return "", true
	}
	return "", false
}

// Recommendation is an actionable change to posting strategy.
type Recommendation struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
}

// InsightType is the tone of an insight.
type InsightType string

// Insight tones.
const (
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
	InsightWarning InsightType = "warning"
)

// Confidence labels, derived from the tweet sample size.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Insight is an observation about recent performance.
type Insight struct {
	Type       InsightType `json:"type"`
	Category   string      `json:"category"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Confidence string      `json:"confidence"`
}

// GoalTarget is a forward-looking numeric target for one metric.
type GoalTarget struct {
	Metric  string  `json:"metric"`
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
}

// AnalysisContext provides all data needed by the rules. It is built from a
// dashboard with NewContext.
type AnalysisContext struct {
	Dashboard analyzer.Dashboard `json:"dashboard"`
	Policy    analyzer.Policy    `json:"policy"`

	// EngagementRate is the period's engagement rate in percent.
	EngagementRate float64 `json:"engagement_rate"`

	// TweetsPerDay is the posting cadence over the reporting window.
	TweetsPerDay float64 `json:"tweets_per_day"`

	// TotalTweets is the sample size behind every other figure.
	TotalTweets float64 `json:"total_tweets"`

	// AvgImpressions is the mean impressions per post.
	AvgImpressions float64 `json:"avg_impressions"`
}

// NewContext derives the rule inputs from a dashboard.
func NewContext(d analyzer.Dashboard, p analyzer.Policy) *AnalysisContext {
	o := d.Overview
	avgImpressions := o.AvgImpressions.Float()
	if avgImpressions <= 0 {
		avgImpressions = analyzer.SafeDivide(o.TotalImpressions.Float(), o.TotalTweets.Float(), 0)
	}
	return &AnalysisContext{
		Dashboard:      d,
		Policy:         p,
		EngagementRate: analyzer.EngagementRate(o),
		TweetsPerDay:   d.TweetsPerDay,
		TotalTweets:    o.TotalTweets.Float(),
		AvgImpressions: avgImpressions,
	}
}

// Confidence labels the reliability of conclusions drawn from the context's
// sample size.
func (ctx *AnalysisContext) Confidence() string {
	switch {
	case ctx.TotalTweets >= ctx.Policy.ConfidenceHigh:
		return ConfidenceHigh
	case ctx.TotalTweets >= ctx.Policy.ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// TopSlot returns the best-ranked posting slot, or nil when there is none.
func (ctx *AnalysisContext) TopSlot() *analyzer.RankedSlot {
	if len(ctx.Dashboard.Slots) == 0 {
		return nil
	}
	return &ctx.Dashboard.Slots[0]
}

// Rule is a function that examines the analysis context and produces
// zero or more recommendations.
type Rule func(ctx *AnalysisContext) []Recommendation
