package suggest

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
)

// EngagementRecovery flags an engagement rate below the healthy band.
func EngagementRecovery(ctx *AnalysisContext) []Recommendation {
	if ctx.EngagementRate >= ctx.Policy.EngagementHealthy {
		return nil
	}
	return []Recommendation{{
		Category: "engagement",
		Priority: PriorityHigh,
		Title:    "Lift Engagement Rate",
		Description: fmt.Sprintf(
			"Engagement rate is %.2f%%, below the %.1f%% healthy baseline. "+
				"Posts are being seen but rarely acted on.",
			ctx.EngagementRate, ctx.Policy.EngagementHealthy,
		),
		Action: "End posts with a direct question or call to reply, and answer early replies within the first hour.",
	}}
}

// PostingCadence flags posting less often than the minimum cadence.
func PostingCadence(ctx *AnalysisContext) []Recommendation {
	if ctx.TweetsPerDay >= ctx.Policy.MinTweetsPerDay {
		return nil
	}
	return []Recommendation{{
		Category: "cadence",
		Priority: PriorityHigh,
		Title:    "Post More Consistently",
		Description: fmt.Sprintf(
			"You are averaging %.2f posts per day over the last %.0f days. "+
				"Sparse posting limits how often the audience sees you.",
			ctx.TweetsPerDay, ctx.Dashboard.TimeframeDays,
		),
		Action: fmt.Sprintf("Aim for at least %.1f posts per day; batch-draft them ahead of time.",
			ctx.Policy.MinTweetsPerDay),
	}}
}

// ReachVolatility flags a large share of posts that drew no impressions.
func ReachVolatility(ctx *AnalysisContext) []Recommendation {
	share := ctx.Dashboard.Audience.NoReachShare
	if share < ctx.Policy.VolatileNoReachShare {
		return nil
	}
	return []Recommendation{{
		Category: "reach",
		Priority: PriorityHigh,
		Title:    "Stabilize Reach",
		Description: fmt.Sprintf(
			"%.0f%% of posts received no impressions. Reach is uneven from post to post.",
			share,
		),
		Action: "Review the posts that drew nothing and repeat the formats and topics of your high-reach posts.",
	}}
}

// ThreadOpportunity suggests more threads when they outperform single posts.
func ThreadOpportunity(ctx *AnalysisContext) []Recommendation {
	th := ctx.Dashboard.Content.Threads
	if !th.ThreadsWin {
		return nil
	}
	desc := fmt.Sprintf("Threads average %.1f engagements versus %.1f for single posts.", th.ThreadScore, th.SingleScore)
	if th.LiftPercent > 0 {
		desc = fmt.Sprintf("Threads average %.1f engagements versus %.1f for single posts, a %.0f%% lift.",
			th.ThreadScore, th.SingleScore, th.LiftPercent)
	}
	return []Recommendation{{
		Category:    "content",
		Priority:    PriorityMedium,
		Title:       "Publish More Threads",
		Description: desc,
		Action:      "Turn your best single posts into 3-5 part threads.",
	}}
}

// PostingWindow points at the best-ranked posting slot.
func PostingWindow(ctx *AnalysisContext) []Recommendation {
	slot := ctx.TopSlot()
	if slot == nil {
		return nil
	}
	return []Recommendation{{
		Category: "timing",
		Priority: PriorityMedium,
		Title:    fmt.Sprintf("Schedule Around %s", slot),
		Description: fmt.Sprintf(
			"%s averages %.1f engagements at a %.2f%% engagement rate across %.0f posts.",
			slot, slot.AvgEngagement, slot.AvgEngagementRate, slot.TweetsCount,
		),
		Action: "Queue your strongest drafts for this window.",
	}}
}

// ImpressionDecline flags impressions falling against the previous period.
func ImpressionDecline(ctx *AnalysisContext) []Recommendation {
	g := ctx.Dashboard.Growth.Impressions
	if g >= 0 {
		return nil
	}
	return []Recommendation{{
		Category:    "reach",
		Priority:    PriorityMedium,
		Title:       "Recover Impressions",
		Description: fmt.Sprintf("Impressions are down %.1f%% from the previous period.", -g),
		Action:      "Reuse the formats and posting times that performed best last period.",
	}}
}

// HashtagStrategy recommends the hashtag usage style of the best posts when
// more than one style was tried.
func HashtagStrategy(ctx *AnalysisContext) []Recommendation {
	usage := ctx.Dashboard.Content.HashtagUsage
	if len(usage) < 2 {
		return nil
	}
	best := usage[0]
	if best.Key == "unknown" || best.AvgMetric <= 0 {
		return nil
	}
	return []Recommendation{{
		Category: "content",
		Priority: PriorityLow,
		Title:    fmt.Sprintf("Favor %q Hashtag Usage", best.Key),
		Description: fmt.Sprintf(
			"Posts with %q hashtag usage average %.1f engagements, the best of %d styles.",
			best.Key, best.AvgMetric, len(usage),
		),
		Action: "Match the hashtag style of your top posts.",
	}}
}

// FormatFocus recommends leaning into the best-performing content format
// other than threads, which ThreadOpportunity already covers.
func FormatFocus(ctx *AnalysisContext) []Recommendation {
	types := ctx.Dashboard.Content.ContentTypes
	if len(types) < 2 {
		return nil
	}
	best := types[0]
	switch analyzer.ContentType(strings.ToLower(best.Key)) {
	case analyzer.ContentThread, analyzer.ContentUnknown:
		return nil
	}
	if best.AvgMetric <= 0 {
		return nil
	}
	return []Recommendation{{
		Category: "content",
		Priority: PriorityLow,
		Title:    fmt.Sprintf("Lean Into %s Posts", titleCase(best.Key)),
		Description: fmt.Sprintf(
			"%s posts lead with %.1f average engagements across %.0f posts.",
			titleCase(best.Key), best.AvgMetric, best.Tweets,
		),
		Action: fmt.Sprintf("Make %s your default format for the next week.", best.Key),
	}}
}

// MaintainStrategy is returned when no rule has anything to change.
func MaintainStrategy(ctx *AnalysisContext) Recommendation {
	return Recommendation{
		Category: "general",
		Priority: PriorityLow,
		Title:    "Maintain Current Strategy",
		Description: fmt.Sprintf(
			"No weak spots detected at a %.2f%% engagement rate and %.2f posts per day.",
			ctx.EngagementRate, ctx.TweetsPerDay,
		),
		Action: "Keep your current cadence and formats, and check back after the next period.",
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
