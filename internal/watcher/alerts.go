package watcher

import (
	"fmt"

	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

// Compare detects notable changes between two watch states and returns
// alerts, most severe first. Thresholds come from the current state's
// policy.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	for i := range alerts {
		alerts[i].Time = curr.Timestamp
	}
	return alerts
}

// compareCritical detects critical-level changes.
func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert
	p := curr.Policy

	if curr.EngagementRate < p.EngagementHealthy && prev.EngagementRate >= p.EngagementHealthy {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   "Engagement fell below healthy",
			Message: fmt.Sprintf("Engagement rate is %.2f%% (was %.2f%%, healthy is %.1f%%)", curr.EngagementRate, prev.EngagementRate, p.EngagementHealthy),
		})
	}

	prevShare := prev.Report.Dashboard.Audience.NoReachShare
	currShare := curr.Report.Dashboard.Audience.NoReachShare
	if currShare >= p.VolatileNoReachShare && prevShare < p.VolatileNoReachShare {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   "Reach became volatile",
			Message: fmt.Sprintf("%.0f%% of posts got no impressions (was %.0f%%)", currShare, prevShare),
		})
	}

	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	p := curr.Policy

	if curr.TweetsPerDay < p.MinTweetsPerDay && prev.TweetsPerDay >= p.MinTweetsPerDay {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Posting cadence dropped",
			Message: fmt.Sprintf("%.2f tweets/day (was %.2f, target %.1f)", curr.TweetsPerDay, prev.TweetsPerDay, p.MinTweetsPerDay),
		})
	}

	prevGrowth := prev.Report.Dashboard.Growth.Impressions
	currGrowth := curr.Report.Dashboard.Growth.Impressions
	if currGrowth < 0 && prevGrowth >= 0 {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Impressions declining",
			Message: fmt.Sprintf("Impressions are %.1f%% against the previous period", currGrowth),
		})
	}

	seen := highTitles(prev.Report.Recommendations)
	for _, r := range curr.Report.Recommendations {
		if r.Priority == suggest.PriorityHigh && !seen[r.Title] {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("New recommendation: %s", r.Title),
				Message: r.Action,
			})
		}
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert
	p := curr.Policy

	if curr.TotalTweets > prev.TotalTweets {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "New tweets counted",
			Message: fmt.Sprintf("%.0f new tweet(s), %.0f in the window", curr.TotalTweets-prev.TotalTweets, curr.TotalTweets),
		})
	}

	if curr.EngagementRate >= p.EngagementStrong && prev.EngagementRate < p.EngagementStrong {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Engagement is strong",
			Message: fmt.Sprintf("Engagement rate reached %.2f%% (was %.2f%%)", curr.EngagementRate, prev.EngagementRate),
		})
	}

	prevTop := prev.Report.Dashboard.Audience.TopSlot
	currTop := curr.Report.Dashboard.Audience.TopSlot
	if currTop != nil && (prevTop == nil || prevTop.Day != currTop.Day || prevTop.Hour != currTop.Hour) {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Best posting slot changed",
			Message: fmt.Sprintf("Now %s (score %.1f)", currTop.String(), currTop.Score),
		})
	}

	return alerts
}

func highTitles(recs []suggest.Recommendation) map[string]bool {
	titles := make(map[string]bool, len(recs))
	for _, r := range recs {
		if r.Priority == suggest.PriorityHigh {
			titles[r.Title] = true
		}
	}
	return titles
}
