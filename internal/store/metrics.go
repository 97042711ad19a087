package store

import "github.com/blackwell-systems/tweetgenie/internal/analyzer"

// Metric names recorded with every snapshot.
const (
	MetricTweets         = "total_tweets"
	MetricTweetsPerDay   = "tweets_per_day"
	MetricImpressions    = "total_impressions"
	MetricEngagement     = "total_engagement"
	MetricEngagementRate = "engagement_rate"
	MetricAvgDailyReach  = "avg_daily_reach"
	MetricHighReachShare = "high_reach_share"
	MetricNoReachShare   = "no_reach_share"
	MetricTopSlotScore   = "top_slot_score"
)

// DashboardMetrics flattens the headline figures of a dashboard into the
// named metrics stored per snapshot.
func DashboardMetrics(d analyzer.Dashboard) map[string]float64 {
	m := map[string]float64{
		MetricTweets:         d.Overview.TotalTweets.Float(),
		MetricTweetsPerDay:   d.TweetsPerDay,
		MetricImpressions:    d.Overview.TotalImpressions.Float(),
		MetricEngagement:     d.Overview.Engagement(),
		MetricEngagementRate: analyzer.EngagementRate(d.Overview),
		MetricAvgDailyReach:  d.Audience.AvgDailyReach,
		MetricHighReachShare: d.Audience.HighReachShare,
		MetricNoReachShare:   d.Audience.NoReachShare,
	}
	if d.Audience.TopSlot != nil {
		m[MetricTopSlotScore] = d.Audience.TopSlot.Score
	}
	return m
}
