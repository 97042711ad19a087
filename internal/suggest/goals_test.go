package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goalByMetric(t *testing.T, goals []GoalTarget, metric string) GoalTarget {
	t.Helper()
	for _, g := range goals {
		if g.Metric == metric {
			return g
		}
	}
	t.Fatalf("no goal for %q", metric)
	return GoalTarget{}
}

func TestBuildGoalTargets(t *testing.T) {
	ctx := testContext()
	goals := BuildGoalTargets(ctx)
	require.Len(t, goals, 3)

	cadence := goalByMetric(t, goals, "tweets_per_day")
	assert.Equal(t, 2.0, cadence.Current)
	assert.InDelta(t, 2.4, cadence.Target, 1e-9)

	rate := goalByMetric(t, goals, "engagement_rate")
	assert.InDelta(t, 2.8, rate.Target, 1e-9, "step floors at 0.8")

	imp := goalByMetric(t, goals, "avg_impressions")
	assert.InDelta(t, 600.0, imp.Target, 1e-9)
}

func TestBuildGoalTargets_Bounds(t *testing.T) {
	tests := []struct {
		name                  string
		cadence, rate, avgImp float64
		wantCadence, wantRate float64
		wantImp               float64
	}{
		{"idle account", 0, 0, 0, 1.2, 0.8, 100},
		{"step between bounds", 0.5, 4, 300, 1.2, 5.4, 400},
		{"step capped", 3, 10, 1000, 3.6, 12, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			ctx.TweetsPerDay = tt.cadence
			ctx.EngagementRate = tt.rate
			ctx.AvgImpressions = tt.avgImp
			goals := BuildGoalTargets(ctx)
			assert.InDelta(t, tt.wantCadence, goalByMetric(t, goals, "tweets_per_day").Target, 1e-9)
			assert.InDelta(t, tt.wantRate, goalByMetric(t, goals, "engagement_rate").Target, 1e-9)
			assert.InDelta(t, tt.wantImp, goalByMetric(t, goals, "avg_impressions").Target, 1e-9)
		})
	}
}
