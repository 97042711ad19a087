package suggest

import "github.com/blackwell-systems/tweetgenie/internal/analyzer"

// Report is the complete pipeline output for one dataset.
type Report struct {
	Dashboard       analyzer.Dashboard `json:"dashboard"`
	Insights        []Insight          `json:"insights"`
	Recommendations []Recommendation   `json:"recommendations"`
	Goals           []GoalTarget       `json:"goals"`
}

// Analyze runs the whole pipeline: dashboard first, then insights,
// recommendations and goals over it.
func Analyze(ds analyzer.Dataset, p analyzer.Policy) Report {
	d := analyzer.BuildDashboard(ds, p)
	ctx := NewContext(d, p)
	return Report{
		Dashboard:       d,
		Insights:        BuildInsights(ctx),
		Recommendations: BuildRecommendations(ctx),
		Goals:           BuildGoalTargets(ctx),
	}
}
