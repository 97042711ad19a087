package analyzer

import "math"

// DefaultTimeframeDays is used when a dataset does not say how many days it
// covers.
const DefaultTimeframeDays = 30

// Timeframe returns the dataset's reporting window in days.
func (ds Dataset) Timeframe() float64 {
	if days := ds.TimeframeDays.Float(); days > 0 {
		return days
	}
	return DefaultTimeframeDays
}

// TweetsPerDay returns the posting cadence over the given window.
func TweetsPerDay(o Overview, days float64) float64 {
	return SafeDivide(o.TotalTweets.Float(), days, 0)
}

// EngagementRate returns the reported engagement rate percentage, or one
// computed from engagement and impressions when none was reported.
func EngagementRate(o Overview) float64 {
	if rate := o.EngagementRate.Float(); rate > 0 {
		return rate
	}
	return SafeDivide(o.Engagement(), math.Max(o.TotalImpressions.Float(), 1), 0) * 100
}

// BuildDashboard runs the whole aggregation pipeline over one dataset. Growth,
// content and timing are independent of each other; the audience summary
// reuses content and slot ranking.
func BuildDashboard(ds Dataset, p Policy) Dashboard {
	days := ds.Timeframe()
	return Dashboard{
		TimeframeDays: days,
		TweetsPerDay:  TweetsPerDay(ds.Overview, days),
		Overview:      ds.Overview,
		Growth:        BuildGrowthMetrics(ds.Overview, ds.Previous),
		Content:       BuildContentSignals(ds.Patterns, ds.ContentTypes),
		Hourly:        BuildHourlyData(ds.Hourly),
		Days:          BuildDayPerformance(ds.OptimalTimes),
		Slots:         BuildRecommendedSlots(ds.OptimalTimes, p.SlotLimit, p),
		Audience: BuildAudienceSummary(AudienceInput{
			Overview:     ds.Overview,
			ReachByDay:   ds.ReachByDay,
			Distribution: ds.Distribution,
			OptimalTimes: ds.OptimalTimes,
			Patterns:     ds.Patterns,
			ContentTypes: ds.ContentTypes,
			Policy:       p,
		}),
	}
}
