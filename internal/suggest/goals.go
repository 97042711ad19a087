package suggest

import "math"

// BuildGoalTargets proposes next-period targets for posting cadence,
// engagement rate and average impressions.
//
//	cadence:     max(CadenceGoalFloor, current*CadenceGoalMultiplier)
//	rate:        current + clamp(current*RateGoalFactor, RateGoalMinStep, RateGoalMaxStep)
//	impressions: max(current*ImpressionsGoalMultiplier, current+ImpressionsGoalMinStep)
func BuildGoalTargets(ctx *AnalysisContext) []GoalTarget {
	p := ctx.Policy

	cadence := ctx.TweetsPerDay
	rate := ctx.EngagementRate
	impressions := ctx.AvgImpressions

	step := math.Max(p.RateGoalMinStep, math.Min(p.RateGoalMaxStep, rate*p.RateGoalFactor))

	return []GoalTarget{
		{
			Metric:  "tweets_per_day",
			Label:   "Posting cadence",
			Current: cadence,
			Target:  math.Max(p.CadenceGoalFloor, cadence*p.CadenceGoalMultiplier),
			Unit:    "posts/day",
		},
		{
			Metric:  "engagement_rate",
			Label:   "Engagement rate",
			Current: rate,
			Target:  rate + step,
			Unit:    "%",
		},
		{
			Metric:  "avg_impressions",
			Label:   "Average impressions",
			Current: impressions,
			Target:  math.Max(impressions*p.ImpressionsGoalMultiplier, impressions+p.ImpressionsGoalMinStep),
			Unit:    "impressions/post",
		},
	}
}
