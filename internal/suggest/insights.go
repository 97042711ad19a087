package suggest

import "fmt"

// insightRule produces zero or more insights from the context.
type insightRule func(ctx *AnalysisContext, confidence string) []Insight

var insightRules = []insightRule{
	engagementInsight,
	cadenceInsight,
	threadInsight,
	timingInsight,
	reachInsight,
}

// BuildInsights summarizes the context as a short list of observations in a
// fixed order: engagement tier, cadence, threads, timing, reach. Every
// insight carries the same confidence label, derived from the sample size.
// The list is capped at the policy's MaxInsights and is not re-sorted.
func BuildInsights(ctx *AnalysisContext) []Insight {
	confidence := ctx.Confidence()
	var insights []Insight
	for _, rule := range insightRules {
		insights = append(insights, rule(ctx, confidence)...)
	}
	if limit := ctx.Policy.MaxInsights; limit > 0 && len(insights) > limit {
		insights = insights[:limit]
	}
	return insights
}

func engagementInsight(ctx *AnalysisContext, confidence string) []Insight {
	rate := ctx.EngagementRate
	in := Insight{Category: "engagement", Confidence: confidence}
	switch {
	case rate >= ctx.Policy.EngagementStrong:
		in.Type = InsightSuccess
		in.Title = "Strong Engagement Momentum"
		in.Message = fmt.Sprintf("A %.2f%% engagement rate is well above typical accounts. Keep the formats that got you here.", rate)
	case rate >= ctx.Policy.EngagementHealthy:
		in.Type = InsightInfo
		in.Title = "Healthy Engagement Baseline"
		in.Message = fmt.Sprintf("A %.2f%% engagement rate is solid. Small format and timing changes can push it past %.1f%%.",
			rate, ctx.Policy.EngagementStrong)
	default:
		in.Type = InsightWarning
		in.Title = "Engagement Recovery Needed"
		in.Message = fmt.Sprintf("A %.2f%% engagement rate is below the %.1f%% baseline. Focus on conversation starters and replies.",
			rate, ctx.Policy.EngagementHealthy)
	}
	return []Insight{in}
}

func cadenceInsight(ctx *AnalysisContext, confidence string) []Insight {
	if ctx.TweetsPerDay >= ctx.Policy.MinTweetsPerDay {
		return nil
	}
	return []Insight{{
		Type:     InsightWarning,
		Category: "cadence",
		Title:    "Posting Cadence Is Low",
		Message: fmt.Sprintf("You posted %.2f times per day. At least %.0f per day keeps you visible in timelines.",
			ctx.TweetsPerDay, ctx.Policy.MinTweetsPerDay),
		Confidence: confidence,
	}}
}

func threadInsight(ctx *AnalysisContext, confidence string) []Insight {
	th := ctx.Dashboard.Content.Threads
	if th.ThreadScore <= th.SingleScore {
		return nil
	}
	return []Insight{{
		Type:     InsightInfo,
		Category: "content",
		Title:    "Threads Outperform Single Posts",
		Message: fmt.Sprintf("Threads average %.1f engagements against %.1f for single posts.",
			th.ThreadScore, th.SingleScore),
		Confidence: confidence,
	}}
}

func timingInsight(ctx *AnalysisContext, confidence string) []Insight {
	slot := ctx.TopSlot()
	if slot == nil {
		return nil
	}
	return []Insight{{
		Type:     InsightInfo,
		Category: "timing",
		Title:    "Best Posting Window",
		Message: fmt.Sprintf("%s is your strongest slot, averaging %.1f engagements over %.0f posts.",
			slot, slot.AvgEngagement, slot.TweetsCount),
		Confidence: confidence,
	}}
}

func reachInsight(ctx *AnalysisContext, confidence string) []Insight {
	share := ctx.Dashboard.Audience.NoReachShare
	if share < ctx.Policy.VolatileNoReachShare {
		return nil
	}
	return []Insight{{
		Type:       InsightWarning,
		Category:   "reach",
		Title:      "Reach Is Volatile",
		Message:    fmt.Sprintf("%.0f%% of posts drew no impressions at all.", share),
		Confidence: confidence,
	}}
}
