// Package analyzer derives growth, content, timing and audience view-models
// from raw post metric snapshots. Every function is a pure, total
// transformation over its inputs.
package analyzer

// Overview holds aggregate totals for one reporting period.
type Overview struct {
	TotalTweets      Number `json:"total_tweets"`
	TotalImpressions Number `json:"total_impressions"`
	TotalLikes       Number `json:"total_likes"`
	TotalRetweets    Number `json:"total_retweets"`
	TotalReplies     Number `json:"total_replies"`
	TotalQuotes      Number `json:"total_quotes"`
	TotalBookmarks   Number `json:"total_bookmarks"`
	TotalEngagement  Number `json:"total_engagement"`

	// EngagementRate is a percentage (1.5 means 1.5%).
	EngagementRate Number `json:"engagement_rate"`

	AvgImpressions Number `json:"avg_impressions"`
}

// Engagement returns the period's total engagement. When no aggregate figure
// was reported it is synthesized from the five interaction counters.
func (o Overview) Engagement() float64 {
	if total := o.TotalEngagement.Float(); total > 0 {
		return total
	}
	return o.TotalLikes.Float() + o.TotalRetweets.Float() + o.TotalReplies.Float() +
		o.TotalQuotes.Float() + o.TotalBookmarks.Float()
}

// DailyMetric is one day of post activity.
type DailyMetric struct {
	Date            string `json:"date"`
	TweetsCount     Number `json:"tweets_count"`
	Impressions     Number `json:"impressions"`
	Likes           Number `json:"likes"`
	Retweets        Number `json:"retweets"`
	Replies         Number `json:"replies"`
	Quotes          Number `json:"quotes"`
	Bookmarks       Number `json:"bookmarks"`
	TotalEngagement Number `json:"total_engagement"`
}

// HourlyEngagement is an hour-of-day engagement bucket.
type HourlyEngagement struct {
	Hour              Number `json:"hour"`
	TweetsCount       Number `json:"tweets_count"`
	AvgEngagement     Number `json:"avg_engagement"`
	AvgImpressions    Number `json:"avg_impressions"`
	AvgEngagementRate Number `json:"avg_engagement_rate"`
}

// EngagementPattern is a per-category engagement row. A row carries all three
// categorical keys; aggregation picks one of them.
type EngagementPattern struct {
	ContentType        string `json:"content_type"`
	HashtagUsage       string `json:"hashtag_usage"`
	LengthCategory     string `json:"length_category"`
	TweetsCount        Number `json:"tweets_count"`
	AvgTotalEngagement Number `json:"avg_total_engagement"`
	AvgImpressions     Number `json:"avg_impressions"`
	AvgEngagementRate  Number `json:"avg_engagement_rate"`
}

// ContentTypeMetric is a per-content-type summary row, used when pattern
// rows are not available.
type ContentTypeMetric struct {
	ContentType       string `json:"content_type"`
	TweetsCount       Number `json:"tweets_count"`
	AvgEngagement     Number `json:"avg_engagement"`
	AvgImpressions    Number `json:"avg_impressions"`
	AvgEngagementRate Number `json:"avg_engagement_rate"`
}

// OptimalTime is a (day-of-week, hour) engagement bucket. DayOfWeek uses
// 0 for Sunday through 6 for Saturday.
type OptimalTime struct {
	DayOfWeek         Number `json:"day_of_week"`
	Hour              Number `json:"hour"`
	AvgEngagement     Number `json:"avg_engagement"`
	AvgEngagementRate Number `json:"avg_engagement_rate"`
	TweetsCount       Number `json:"tweets_count"`
}

// ReachByDay is one day of impression volume.
type ReachByDay struct {
	Date        string `json:"date"`
	Impressions Number `json:"impressions"`
	TweetsCount Number `json:"tweets_count"`
}

// DistributionBucket counts posts falling into one reach category.
type DistributionBucket struct {
	ReachCategory string `json:"reach_category"`
	TweetsCount   Number `json:"tweets_count"`
}

// Dataset is one snapshot of every raw metric source. Absent arrays decode as
// nil and produce zero-filled outputs.
type Dataset struct {
	TimeframeDays Number               `json:"timeframe_days"`
	Overview      Overview             `json:"overview"`
	Previous      Overview             `json:"previous"`
	Daily         []DailyMetric        `json:"daily"`
	Hourly        []HourlyEngagement   `json:"hourly"`
	Patterns      []EngagementPattern  `json:"engagement_patterns"`
	ContentTypes  []ContentTypeMetric  `json:"content_types"`
	OptimalTimes  []OptimalTime        `json:"optimal_times"`
	ReachByDay    []ReachByDay         `json:"reach_by_day"`
	Distribution  []DistributionBucket `json:"engagement_distribution"`
}

// GrowthMetrics holds period-over-period percentage changes.
type GrowthMetrics struct {
	Tweets      float64 `json:"tweets"`
	Impressions float64 `json:"impressions"`
	Likes       float64 `json:"likes"`
	Engagement  float64 `json:"engagement"`
}

// CategoryAggregate is the weighted average of one metric across rows that
// share a categorical key.
type CategoryAggregate struct {
	Key       string  `json:"key"`
	AvgMetric float64 `json:"avg_metric"`

	// Entries is the number of rows that fed the average.
	Entries int `json:"entries"`

	// Tweets is the summed tweet count of those rows.
	Tweets float64 `json:"tweets"`
}

// ThreadComparison contrasts thread posts with single posts.
type ThreadComparison struct {
	ThreadScore  float64 `json:"thread_score"`
	SingleScore  float64 `json:"single_score"`
	ThreadTweets float64 `json:"thread_tweets"`
	SingleTweets float64 `json:"single_tweets"`
	ThreadsWin   bool    `json:"threads_win"`

	// LiftPercent is how much better threads score than singles. Zero when
	// singles have no score.
	LiftPercent float64 `json:"lift_percent"`
}

// ContentSignals groups the content-format comparisons.
type ContentSignals struct {
	ContentTypes  []CategoryAggregate `json:"content_types"`
	HashtagUsage  []CategoryAggregate `json:"hashtag_usage"`
	ContentLength []CategoryAggregate `json:"content_length"`
	Threads       ThreadComparison    `json:"threads"`
}

// HourlyPoint is one of the 24 hour-of-day chart buckets.
type HourlyPoint struct {
	Hour              int     `json:"hour"`
	Label             string  `json:"label"`
	TweetsCount       float64 `json:"tweets_count"`
	AvgEngagement     float64 `json:"avg_engagement"`
	AvgImpressions    float64 `json:"avg_impressions"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// DayPerformance is one of the seven weekday buckets.
type DayPerformance struct {
	Day           int     `json:"day"`
	Label         string  `json:"label"`
	TweetsCount   float64 `json:"tweets_count"`
	AvgEngagement float64 `json:"avg_engagement"`

	// Score is the day's average engagement relative to the best day, 0-100.
	Score float64 `json:"score"`
}

// TimeSlot is a single (day, hour) bucket with its sample size.
type TimeSlot struct {
	Day               int     `json:"day"`
	Hour              int     `json:"hour"`
	AvgEngagement     float64 `json:"avg_engagement"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	TweetsCount       float64 `json:"tweets_count"`
}

// RankedSlot is a TimeSlot with its composite ranking score.
type RankedSlot struct {
	TimeSlot
	Score     float64 `json:"score"`
	DayLabel  string  `json:"day_label"`
	HourLabel string  `json:"hour_label"`
}

// String renders the slot as "Tue 9 AM".
func (s RankedSlot) String() string {
	return s.DayLabel + " " + s.HourLabel
}

// AudienceSummary is the headline KPI bundle.
type AudienceSummary struct {
	TotalReach      float64 `json:"total_reach"`
	AvgDailyReach   float64 `json:"avg_daily_reach"`
	PeakReachDay    string  `json:"peak_reach_day,omitempty"`
	TotalEngagement float64 `json:"total_engagement"`

	// Rates are percentages of impressions.
	EngagementRate float64 `json:"engagement_rate"`
	DiscussionRate float64 `json:"discussion_rate"`
	ShareRate      float64 `json:"share_rate"`
	LikeRate       float64 `json:"like_rate"`
	SaveRate       float64 `json:"save_rate"`

	// Shares are percentages of all bucketed posts.
	BucketShares   map[ReachCategory]float64 `json:"bucket_shares"`
	HighReachShare float64                   `json:"high_reach_share"`
	NoReachShare   float64                   `json:"no_reach_share"`

	FavoriteFormat string      `json:"favorite_format,omitempty"`
	TopSlot        *RankedSlot `json:"top_slot,omitempty"`
}

// Dashboard is the full set of derived view-models for one dataset.
type Dashboard struct {
	TimeframeDays float64          `json:"timeframe_days"`
	TweetsPerDay  float64          `json:"tweets_per_day"`
	Overview      Overview         `json:"overview"`
	Growth        GrowthMetrics    `json:"growth"`
	Content       ContentSignals   `json:"content"`
	Hourly        []HourlyPoint    `json:"hourly"`
	Days          []DayPerformance `json:"days"`
	Slots         []RankedSlot     `json:"recommended_slots"`
	Audience      AudienceSummary  `json:"audience"`
}
