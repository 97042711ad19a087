package analyzer

import (
	"fmt"
	"math"
	"sort"
)

// dayLabels is indexed by weekday, 0 = Sunday.
var dayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// weekOrder lists weekday indices Monday first.
var weekOrder = [7]int{1, 2, 3, 4, 5, 6, 0}

// DayLabel returns the short name of weekday d (0 = Sunday), or "?" when d
// is out of range.
func DayLabel(d int) string {
	if d < 0 || d > 6 {
		return "?"
	}
	return dayLabels[d]
}

// HourLabel renders an hour of day on a 12-hour clock, e.g. "9 AM", "12 PM".
func HourLabel(h int) string {
	switch {
	case h < 0 || h > 23:
		return "?"
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// BuildHourlyData returns exactly 24 points, one per hour of day. Hours with
// no data are zero-valued. Rows sharing an hour are merged using tweet-count
// weights; rows with an hour outside 0-23 are ignored.
func BuildHourlyData(rows []HourlyEngagement) []HourlyPoint {
	type acc struct {
		tweets, weight          float64
		engagement, impressions float64
		rate                    float64
	}
	var buckets [24]acc
	for _, row := range rows {
		h := row.Hour.Float()
		if h < 0 || h > 23 {
			continue
		}
		b := &buckets[int(h)]
		tweets := row.TweetsCount.Float()
		w := weightOf(tweets)
		b.tweets += tweets
		b.weight += w
		b.engagement += row.AvgEngagement.Float() * w
		b.impressions += row.AvgImpressions.Float() * w
		b.rate += row.AvgEngagementRate.Float() * w
	}

	points := make([]HourlyPoint, 24)
	for h := range points {
		b := buckets[h]
		points[h] = HourlyPoint{
			Hour:              h,
			Label:             HourLabel(h),
			TweetsCount:       b.tweets,
			AvgEngagement:     SafeDivide(b.engagement, b.weight, 0),
			AvgImpressions:    SafeDivide(b.impressions, b.weight, 0),
			AvgEngagementRate: SafeDivide(b.rate, b.weight, 0),
		}
	}
	return points
}

// validDay reports whether d is a whole weekday index, 0 = Sunday.
func validDay(d float64) bool {
	return d >= 0 && d <= 6 && d == math.Trunc(d)
}

// BuildDayPerformance returns exactly 7 entries ordered Monday through Sunday.
// Each day's score is its weighted average engagement relative to the best
// day, on a 0-100 scale. Rows without a whole weekday index are ignored.
func BuildDayPerformance(slots []OptimalTime) []DayPerformance {
	var weighted, weights, tweets [7]float64
	for _, s := range slots {
		d := s.DayOfWeek.Float()
		if !validDay(d) {
			continue
		}
		i := int(d)
		n := s.TweetsCount.Float()
		w := weightOf(n)
		weighted[i] += s.AvgEngagement.Float() * w
		weights[i] += w
		tweets[i] += n
	}

	days := make([]DayPerformance, 0, len(weekOrder))
	maxAvg := 0.0
	for _, d := range weekOrder {
		avg := SafeDivide(weighted[d], weights[d], 0)
		maxAvg = math.Max(maxAvg, avg)
		days = append(days, DayPerformance{
			Day:           d,
			Label:         dayLabels[d],
			TweetsCount:   tweets[d],
			AvgEngagement: avg,
		})
	}
	for i := range days {
		days[i].Score = math.Round(SafeDivide(days[i].AvgEngagement, maxAvg, 0) * 100)
	}
	return days
}

// SlotScore is the composite score used to rank posting slots. The
// sample-size weight tweets/SlotWeightDivisor is clamped to
// [SlotWeightMin, SlotWeightMax].
func SlotScore(slot TimeSlot, p Policy) float64 {
	w := slotWeight(slot.TweetsCount, p)
	return slot.AvgEngagement*w + slot.AvgEngagementRate*(p.SlotRateBoost+w)
}

func slotWeight(tweets float64, p Policy) float64 {
	return clamp(SafeDivide(tweets, p.SlotWeightDivisor, 0), p.SlotWeightMin, p.SlotWeightMax)
}

// BuildRecommendedSlots ranks (day, hour) slots for posting. Slots with an
// invalid day or no tweets are dropped. When any slot reaches the policy's
// minimum sample size, only those slots are ranked. Ordering is by composite
// score, then tweet count, then average engagement, all descending. The
// result holds at most limit unique slots; limit <= 0 uses the policy
// default.
func BuildRecommendedSlots(optimal []OptimalTime, limit int, p Policy) []RankedSlot {
	if limit <= 0 {
		limit = p.SlotLimit
	}

	var candidates []RankedSlot
	for _, o := range optimal {
		d := o.DayOfWeek.Float()
		tweets := o.TweetsCount.Float()
		if !validDay(d) || tweets <= 0 {
			continue
		}
		slot := TimeSlot{
			Day:               int(d),
			Hour:              o.Hour.Int(),
			AvgEngagement:     o.AvgEngagement.Float(),
			AvgEngagementRate: o.AvgEngagementRate.Float(),
			TweetsCount:       tweets,
		}
		candidates = append(candidates, RankedSlot{
			TimeSlot:  slot,
			Score:     SlotScore(slot, p),
			DayLabel:  DayLabel(slot.Day),
			HourLabel: HourLabel(slot.Hour),
		})
	}

	pool := make([]RankedSlot, 0, len(candidates))
	for _, c := range candidates {
		if c.TweetsCount >= p.SlotMinSample {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}

	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TweetsCount != b.TweetsCount {
			return a.TweetsCount > b.TweetsCount
		}
		return a.AvgEngagement > b.AvgEngagement
	})

	seen := make(map[[2]int]bool, len(pool))
	ranked := make([]RankedSlot, 0, limit)
	for _, s := range pool {
		key := [2]int{s.Day, s.Hour}
		if seen[key] {
			continue
		}
		seen[key] = true
		ranked = append(ranked, s)
		if len(ranked) == limit {
			break
		}
	}
	return ranked
}
