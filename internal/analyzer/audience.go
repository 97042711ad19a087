package analyzer

import (
	"math"
	"strings"
)

// ReachCategory classifies a post by impression volume.
type ReachCategory string

// Known reach categories.
const (
	ReachViral  ReachCategory = "viral_reach"
	ReachHigh   ReachCategory = "high_reach"
	ReachMedium ReachCategory = "medium_reach"
	ReachLow    ReachCategory = "low_reach"
	ReachNone   ReachCategory = "no_impressions"
)

// ReachCategories lists the known categories from widest to narrowest reach.
var ReachCategories = []ReachCategory{ReachViral, ReachHigh, ReachMedium, ReachLow, ReachNone}

// AudienceInput gathers the sources the audience summary draws on.
type AudienceInput struct {
	Overview     Overview
	ReachByDay   []ReachByDay
	Distribution []DistributionBucket
	OptimalTimes []OptimalTime
	Patterns     []EngagementPattern
	ContentTypes []ContentTypeMetric
	Policy       Policy
}

// BuildAudienceSummary combines reach, engagement distribution, content and
// slot data into headline KPIs. Impression ratios divide by max(impressions, 1)
// and are expressed as percentages.
func BuildAudienceSummary(in AudienceInput) AudienceSummary {
	o := in.Overview
	summary := AudienceSummary{
		BucketShares: make(map[ReachCategory]float64),
	}

	var reach, peak float64
	for _, r := range in.ReachByDay {
		imp := r.Impressions.Float()
		reach += imp
		if imp > peak {
			peak = imp
			summary.PeakReachDay = r.Date
		}
	}
	if reach <= 0 {
		reach = o.TotalImpressions.Float()
	}
	summary.TotalReach = reach
	summary.AvgDailyReach = SafeDivide(reach, float64(len(in.ReachByDay)), 0)

	impressions := o.TotalImpressions.Float()
	if impressions <= 0 {
		impressions = reach
	}
	den := math.Max(impressions, 1)

	engagement := o.Engagement()
	summary.TotalEngagement = engagement
	summary.EngagementRate = SafeDivide(engagement, den, 0) * 100
	summary.DiscussionRate = SafeDivide(o.TotalReplies.Float(), den, 0) * 100
	summary.ShareRate = SafeDivide(o.TotalRetweets.Float(), den, 0) * 100
	summary.LikeRate = SafeDivide(o.TotalLikes.Float(), den, 0) * 100
	summary.SaveRate = SafeDivide(o.TotalBookmarks.Float(), den, 0) * 100

	counts := make(map[ReachCategory]float64)
	var bucketed float64
	for _, b := range in.Distribution {
		n := b.TweetsCount.Float()
		if n <= 0 {
			continue
		}
		key := ReachCategory(strings.TrimSpace(b.ReachCategory))
		if key == "" {
			key = ReachCategory(ContentUnknown)
		}
		counts[key] += n
		bucketed += n
	}
	for key, n := range counts {
		summary.BucketShares[key] = SafeDivide(n, bucketed, 0) * 100
	}
	summary.HighReachShare = summary.BucketShares[ReachHigh] + summary.BucketShares[ReachViral]
	summary.NoReachShare = summary.BucketShares[ReachNone]

	signals := BuildContentSignals(in.Patterns, in.ContentTypes)
	summary.FavoriteFormat = TopCategory(signals.ContentTypes)

	if top := BuildRecommendedSlots(in.OptimalTimes, 1, in.Policy); len(top) > 0 {
		slot := top[0]
		summary.TopSlot = &slot
	}
	return summary
}
