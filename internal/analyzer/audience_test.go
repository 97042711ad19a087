package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAudienceSummary(t *testing.T) {
	in := AudienceInput{
		Overview: Overview{
			TotalTweets:      40,
			TotalImpressions: 10000,
			TotalLikes:       300,
			TotalRetweets:    50,
			TotalReplies:     100,
			TotalBookmarks:   20,
			TotalEngagement:  500,
		},
		ReachByDay: []ReachByDay{
			{Date: "2026-03-01", Impressions: 2000},
			{Date: "2026-03-02", Impressions: 5000},
			{Date: "2026-03-03", Impressions: 3000},
		},
		Distribution: []DistributionBucket{
			{ReachCategory: "viral_reach", TweetsCount: 2},
			{ReachCategory: "high_reach", TweetsCount: 6},
			{ReachCategory: "medium_reach", TweetsCount: 12},
			{ReachCategory: "low_reach", TweetsCount: 8},
			{ReachCategory: "no_impressions", TweetsCount: 12},
			{ReachCategory: "low_reach", TweetsCount: -4},
		},
		OptimalTimes: []OptimalTime{
			{DayOfWeek: 2, Hour: 9, TweetsCount: 4, AvgEngagement: 30, AvgEngagementRate: 2},
			{DayOfWeek: 4, Hour: 18, TweetsCount: 4, AvgEngagement: 10, AvgEngagementRate: 1},
		},
		ContentTypes: []ContentTypeMetric{
			{ContentType: "media", TweetsCount: 10, AvgEngagement: 20},
			{ContentType: "single", TweetsCount: 30, AvgEngagement: 8},
		},
		Policy: DefaultPolicy(),
	}

	s := BuildAudienceSummary(in)

	assert.Equal(t, 10000.0, s.TotalReach)
	assert.InDelta(t, 3333.33, s.AvgDailyReach, 0.01)
	assert.Equal(t, "2026-03-02", s.PeakReachDay)
	assert.Equal(t, 500.0, s.TotalEngagement)
	assert.InDelta(t, 5.0, s.EngagementRate, 1e-9)
	assert.InDelta(t, 1.0, s.DiscussionRate, 1e-9)
	assert.InDelta(t, 0.5, s.ShareRate, 1e-9)
	assert.InDelta(t, 3.0, s.LikeRate, 1e-9)
	assert.InDelta(t, 0.2, s.SaveRate, 1e-9)

	assert.InDelta(t, 20.0, s.HighReachShare, 1e-9)
	assert.InDelta(t, 30.0, s.NoReachShare, 1e-9)
	assert.Equal(t, "media", s.FavoriteFormat)

	require.NotNil(t, s.TopSlot)
	assert.Equal(t, "Tue 9 AM", s.TopSlot.String())
}

func TestBuildAudienceSummary_SharesSumToHundred(t *testing.T) {
	dist := []DistributionBucket{
		{ReachCategory: "viral_reach", TweetsCount: 1},
		{ReachCategory: "high_reach", TweetsCount: 3},
		{ReachCategory: "medium_reach", TweetsCount: 7},
		{ReachCategory: "low_reach", TweetsCount: 11},
		{ReachCategory: "no_impressions", TweetsCount: 5},
	}
	s := BuildAudienceSummary(AudienceInput{Distribution: dist, Policy: DefaultPolicy()})

	others := s.BucketShares[ReachMedium] + s.BucketShares[ReachLow]
	assert.InDelta(t, 100.0, s.HighReachShare+s.NoReachShare+others, 1e-9)

	var total float64
	for _, share := range s.BucketShares {
		total += share
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestBuildAudienceSummary_Empty(t *testing.T) {
	s := BuildAudienceSummary(AudienceInput{Policy: DefaultPolicy()})

	assert.Equal(t, 0.0, s.TotalReach)
	assert.Equal(t, 0.0, s.AvgDailyReach)
	assert.Equal(t, 0.0, s.EngagementRate)
	assert.Empty(t, s.BucketShares)
	assert.Equal(t, "", s.FavoriteFormat)
	assert.Nil(t, s.TopSlot)
}

func TestBuildAudienceSummary_ReachFallsBackToOverview(t *testing.T) {
	s := BuildAudienceSummary(AudienceInput{
		Overview: Overview{TotalImpressions: 800, TotalLikes: 8},
		Policy:   DefaultPolicy(),
	})
	assert.Equal(t, 800.0, s.TotalReach)
	assert.InDelta(t, 1.0, s.LikeRate, 1e-9)
}
