package analyzer

// CalculateGrowth returns the percentage change from previous to current.
// When previous is zero or negative the change is undefined, so any current
// activity counts as 100% growth and no activity as 0%.
func CalculateGrowth(current, previous float64) float64 {
	current = ToNumber(current, 0)
	previous = ToNumber(previous, 0)
	if previous <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// BuildGrowthMetrics compares the current period's counters with the
// previous period's.
func BuildGrowthMetrics(current, previous Overview) GrowthMetrics {
	return GrowthMetrics{
		Tweets:      CalculateGrowth(current.TotalTweets.Float(), previous.TotalTweets.Float()),
		Impressions: CalculateGrowth(current.TotalImpressions.Float(), previous.TotalImpressions.Float()),
		Likes:       CalculateGrowth(current.TotalLikes.Float(), previous.TotalLikes.Float()),
		Engagement:  CalculateGrowth(current.Engagement(), previous.Engagement()),
	}
}
