package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourLabel(t *testing.T) {
	cases := map[int]string{0: "12 AM", 1: "1 AM", 11: "11 AM", 12: "12 PM", 13: "1 PM", 23: "11 PM", 24: "?", -1: "?"}
	for h, want := range cases {
		if got := HourLabel(h); got != want {
			t.Errorf("HourLabel(%d) = %q, want %q", h, got, want)
		}
	}
}

func TestDayLabel(t *testing.T) {
	if got := DayLabel(0); got != "Sun" {
		t.Errorf("DayLabel(0) = %q, want Sun", got)
	}
	if got := DayLabel(7); got != "?" {
		t.Errorf("DayLabel(7) = %q, want ?", got)
	}
}

func TestBuildHourlyData_Empty(t *testing.T) {
	points := BuildHourlyData(nil)
	require.Len(t, points, 24)
	for h, p := range points {
		if p.Hour != h {
			t.Errorf("points[%d].Hour = %d", h, p.Hour)
		}
		if p.TweetsCount != 0 || p.AvgEngagement != 0 || p.AvgImpressions != 0 || p.AvgEngagementRate != 0 {
			t.Errorf("points[%d] not zero-valued: %+v", h, p)
		}
	}
}

func TestBuildHourlyData_MergesAndIgnoresOutOfRange(t *testing.T) {
	rows := []HourlyEngagement{
		{Hour: 9, TweetsCount: 3, AvgEngagement: 10, AvgImpressions: 100, AvgEngagementRate: 1},
		{Hour: 9, TweetsCount: 1, AvgEngagement: 50, AvgImpressions: 500, AvgEngagementRate: 5},
		{Hour: 24, TweetsCount: 9, AvgEngagement: 999},
		{Hour: -1, TweetsCount: 9, AvgEngagement: 999},
	}
	points := BuildHourlyData(rows)
	require.Len(t, points, 24)

	p := points[9]
	assert.Equal(t, "9 AM", p.Label)
	assert.Equal(t, 4.0, p.TweetsCount)
	assert.InDelta(t, 20.0, p.AvgEngagement, 1e-9)
	assert.InDelta(t, 200.0, p.AvgImpressions, 1e-9)
	assert.InDelta(t, 2.0, p.AvgEngagementRate, 1e-9)

	for h, pt := range points {
		if h != 9 && pt.TweetsCount != 0 {
			t.Errorf("hour %d unexpectedly has %v tweets", h, pt.TweetsCount)
		}
	}
}

func TestBuildDayPerformance_Empty(t *testing.T) {
	days := BuildDayPerformance(nil)
	require.Len(t, days, 7)
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Label
		assert.Equal(t, 0.0, d.Score)
	}
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, labels)
	assert.Equal(t, 0, days[6].Day)
}

func TestBuildDayPerformance_Scores(t *testing.T) {
	slots := []OptimalTime{
		{DayOfWeek: 2, Hour: 9, TweetsCount: 2, AvgEngagement: 40},
		{DayOfWeek: 2, Hour: 17, TweetsCount: 2, AvgEngagement: 0},
		{DayOfWeek: 0, Hour: 12, TweetsCount: 1, AvgEngagement: 10},
		{DayOfWeek: 9, Hour: 12, TweetsCount: 1, AvgEngagement: 500},
	}
	days := BuildDayPerformance(slots)
	require.Len(t, days, 7)

	tue := days[1]
	assert.Equal(t, "Tue", tue.Label)
	assert.Equal(t, 20.0, tue.AvgEngagement)
	assert.Equal(t, 4.0, tue.TweetsCount)
	assert.Equal(t, 100.0, tue.Score)

	sun := days[6]
	assert.Equal(t, "Sun", sun.Label)
	assert.Equal(t, 50.0, sun.Score)

	assert.Equal(t, 0.0, days[0].Score)
}

func TestFractionalWeekdayIsIgnoredEverywhere(t *testing.T) {
	slots := []OptimalTime{
		{DayOfWeek: 2.5, Hour: 9, TweetsCount: 6, AvgEngagement: 80},
		{DayOfWeek: 4, Hour: 13, TweetsCount: 2, AvgEngagement: 10},
	}

	days := BuildDayPerformance(slots)
	require.Len(t, days, 7)
	tue := days[1]
	assert.Equal(t, "Tue", tue.Label)
	assert.Equal(t, 0.0, tue.TweetsCount)
	assert.Equal(t, 0.0, tue.Score)
	assert.Equal(t, 100.0, days[3].Score)

	ranked := BuildRecommendedSlots(slots, 5, DefaultPolicy())
	require.Len(t, ranked, 1)
	assert.Equal(t, 4, ranked[0].Day)
}

func TestValidDay(t *testing.T) {
	assert.True(t, validDay(0))
	assert.True(t, validDay(6))
	assert.False(t, validDay(2.5))
	assert.False(t, validDay(-1))
	assert.False(t, validDay(7))
}

func TestSlotScore(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name string
		slot TimeSlot
		want float64
	}{
		{"full weight", TimeSlot{TweetsCount: 10, AvgEngagement: 10, AvgEngagementRate: 2}, 10*1 + 2*3},
		{"partial weight", TimeSlot{TweetsCount: 3, AvgEngagement: 10, AvgEngagementRate: 1}, 10*0.6 + 1*2.6},
		{"floor weight", TimeSlot{TweetsCount: 1, AvgEngagement: 10, AvgEngagementRate: 0}, 10 * 0.35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SlotScore(tt.slot, p), 1e-9)
		})
	}
}

func TestBuildRecommendedSlots_TieBreaks(t *testing.T) {
	p := DefaultPolicy()
	slots := []OptimalTime{
		// All three score exactly 10.
		{DayOfWeek: 1, Hour: 8, TweetsCount: 5, AvgEngagement: 7, AvgEngagementRate: 1},
		{DayOfWeek: 1, Hour: 9, TweetsCount: 5, AvgEngagement: 10, AvgEngagementRate: 0},
		{DayOfWeek: 1, Hour: 10, TweetsCount: 10, AvgEngagement: 10, AvgEngagementRate: 0},
	}
	ranked := BuildRecommendedSlots(slots, 0, p)
	require.Len(t, ranked, 3)
	for _, r := range ranked {
		require.InDelta(t, 10.0, r.Score, 1e-9)
	}
	assert.Equal(t, 10, ranked[0].Hour, "higher tweet count first")
	assert.Equal(t, 9, ranked[1].Hour, "then higher average engagement")
	assert.Equal(t, 8, ranked[2].Hour)
}

func TestBuildRecommendedSlots_PrefersSampledSlots(t *testing.T) {
	p := DefaultPolicy()
	slots := []OptimalTime{
		{DayOfWeek: 3, Hour: 1, TweetsCount: 1, AvgEngagement: 1000},
		{DayOfWeek: 4, Hour: 2, TweetsCount: 3, AvgEngagement: 50},
	}
	ranked := BuildRecommendedSlots(slots, 6, p)
	require.Len(t, ranked, 1)
	assert.Equal(t, 4, ranked[0].Day)
	assert.Equal(t, "Thu 2 AM", ranked[0].String())
}

func TestBuildRecommendedSlots_FallsBackToAllCandidates(t *testing.T) {
	p := DefaultPolicy()
	slots := []OptimalTime{
		{DayOfWeek: 3, Hour: 1, TweetsCount: 1, AvgEngagement: 10},
		{DayOfWeek: 4, Hour: 2, TweetsCount: 1, AvgEngagement: 50},
	}
	ranked := BuildRecommendedSlots(slots, 6, p)
	require.Len(t, ranked, 2)
	assert.Equal(t, 4, ranked[0].Day)
}

func TestBuildRecommendedSlots_FiltersDedupesAndLimits(t *testing.T) {
	p := DefaultPolicy()
	slots := []OptimalTime{
		{DayOfWeek: 7, Hour: 1, TweetsCount: 5, AvgEngagement: 900},
		{DayOfWeek: -1, Hour: 1, TweetsCount: 5, AvgEngagement: 900},
		{DayOfWeek: 1.5, Hour: 1, TweetsCount: 5, AvgEngagement: 900},
		{DayOfWeek: 2, Hour: 1, TweetsCount: 0, AvgEngagement: 900},
		{DayOfWeek: 5, Hour: 20, TweetsCount: 5, AvgEngagement: 80},
		{DayOfWeek: 5, Hour: 20, TweetsCount: 5, AvgEngagement: 40},
		{DayOfWeek: 6, Hour: 11, TweetsCount: 5, AvgEngagement: 60},
		{DayOfWeek: 0, Hour: 11, TweetsCount: 5, AvgEngagement: 20},
	}
	ranked := BuildRecommendedSlots(slots, 2, p)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Fri 8 PM", ranked[0].String())
	assert.Equal(t, 80.0, ranked[0].AvgEngagement)
	assert.Equal(t, "Sat 11 AM", ranked[1].String())

	all := BuildRecommendedSlots(slots, 0, p)
	assert.Len(t, all, 3, "duplicate (day, hour) collapses")
}

func TestBuildRecommendedSlots_DefaultLimit(t *testing.T) {
	p := DefaultPolicy()
	var slots []OptimalTime
	for h := 0; h < 10; h++ {
		slots = append(slots, OptimalTime{DayOfWeek: 1, Hour: Number(h), TweetsCount: 4, AvgEngagement: Number(h)})
	}
	assert.Len(t, BuildRecommendedSlots(slots, 0, p), p.SlotLimit)
	assert.Len(t, BuildRecommendedSlots(slots, -3, p), p.SlotLimit)
	assert.Empty(t, BuildRecommendedSlots(nil, 3, p))
}
