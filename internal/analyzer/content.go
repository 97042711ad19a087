package analyzer

import (
	"sort"
	"strings"
)

// ContentType is a known post format.
type ContentType string

// Known content types. Anything else aggregates under its own key.
const (
	ContentThread  ContentType = "thread"
	ContentSingle  ContentType = "single"
	ContentMedia   ContentType = "media"
	ContentLink    ContentType = "link"
	ContentPoll    ContentType = "poll"
	ContentQuote   ContentType = "quote"
	ContentUnknown ContentType = "unknown"
)

// CategoryField selects the categorical key of an EngagementPattern.
type CategoryField int

const (
	FieldContentType CategoryField = iota
	FieldHashtagUsage
	FieldContentLength
)

// MetricField selects the averaged metric of an EngagementPattern.
type MetricField int

const (
	MetricEngagement MetricField = iota
	MetricImpressions
	MetricEngagementRate
)

func (f CategoryField) key(row EngagementPattern) string {
	var raw string
	switch f {
	case FieldContentType:
		raw = row.ContentType
	case FieldHashtagUsage:
		raw = row.HashtagUsage
	case FieldContentLength:
		raw = row.LengthCategory
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return string(ContentUnknown)
	}
	// Content types are a closed set, so "Thread" and "thread" are one group.
	if f == FieldContentType {
		raw = strings.ToLower(raw)
	}
	return raw
}

func (m MetricField) value(row EngagementPattern) float64 {
	switch m {
	case MetricImpressions:
		return row.AvgImpressions.Float()
	case MetricEngagementRate:
		return row.AvgEngagementRate.Float()
	default:
		return row.AvgTotalEngagement.Float()
	}
}

// AggregateByCategory groups rows by the selected category and computes a
// tweet-count-weighted average of the selected metric for each group. Each
// row weighs max(tweets_count, 1). Content-type keys are matched without
// regard to case. Groups are returned in first-seen order.
func AggregateByCategory(rows []EngagementPattern, field CategoryField, metric MetricField) []CategoryAggregate {
	type acc struct {
		weighted float64
		weight   float64
		entries  int
		tweets   float64
	}

	var order []string
	groups := make(map[string]*acc)
	for _, row := range rows {
		key := field.key(row)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
			order = append(order, key)
		}
		tweets := row.TweetsCount.Float()
		w := weightOf(tweets)
		g.weighted += metric.value(row) * w
		g.weight += w
		g.entries++
		g.tweets += tweets
	}

	result := make([]CategoryAggregate, 0, len(order))
	for _, key := range order {
		g := groups[key]
		result = append(result, CategoryAggregate{
			Key:       key,
			AvgMetric: SafeDivide(g.weighted, g.weight, 0),
			Entries:   g.entries,
			Tweets:    g.tweets,
		})
	}
	return result
}

// SortAggregates returns a copy of aggs sorted by AvgMetric, highest first.
// Ties keep key order so output is deterministic.
func SortAggregates(aggs []CategoryAggregate) []CategoryAggregate {
	sorted := make([]CategoryAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AvgMetric != sorted[j].AvgMetric {
			return sorted[i].AvgMetric > sorted[j].AvgMetric
		}
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// BuildContentSignals compares content formats, hashtag usage and post length
// by average engagement.
//
// When no pattern rows are available, the content-type dimension falls back
// to the per-type summary rows. Hashtag usage and length have no such
// fallback and come back empty.
func BuildContentSignals(patterns []EngagementPattern, typeMetrics []ContentTypeMetric) ContentSignals {
	typeRows := patterns
	if len(typeRows) == 0 {
		typeRows = contentTypeRows(typeMetrics)
	}

	types := SortAggregates(AggregateByCategory(typeRows, FieldContentType, MetricEngagement))
	return ContentSignals{
		ContentTypes:  types,
		HashtagUsage:  SortAggregates(AggregateByCategory(patterns, FieldHashtagUsage, MetricEngagement)),
		ContentLength: SortAggregates(AggregateByCategory(patterns, FieldContentLength, MetricEngagement)),
		Threads:       compareThreads(types),
	}
}

// contentTypeRows converts per-type summary rows to pattern rows.
func contentTypeRows(metrics []ContentTypeMetric) []EngagementPattern {
	if len(metrics) == 0 {
		return nil
	}
	rows := make([]EngagementPattern, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, EngagementPattern{
			ContentType:        m.ContentType,
			TweetsCount:        m.TweetsCount,
			AvgTotalEngagement: m.AvgEngagement,
			AvgImpressions:     m.AvgImpressions,
			AvgEngagementRate:  m.AvgEngagementRate,
		})
	}
	return rows
}

func compareThreads(types []CategoryAggregate) ThreadComparison {
	var cmp ThreadComparison
	for _, agg := range types {
		switch ContentType(agg.Key) {
		case ContentThread:
			cmp.ThreadScore = agg.AvgMetric
			cmp.ThreadTweets = agg.Tweets
		case ContentSingle:
			cmp.SingleScore = agg.AvgMetric
			cmp.SingleTweets = agg.Tweets
		}
	}
	cmp.ThreadsWin = cmp.ThreadScore > cmp.SingleScore
	if cmp.SingleScore > 0 {
		cmp.LiftPercent = (cmp.ThreadScore - cmp.SingleScore) / cmp.SingleScore * 100
	}
	return cmp
}

// TopCategory returns the key of the best-performing aggregate, or "" when
// there is none.
func TopCategory(aggs []CategoryAggregate) string {
	sorted := SortAggregates(aggs)
	if len(sorted) == 0 {
		return ""
	}
	return sorted[0].Key
}
