package store

// lowerIsBetter lists metrics where a decrease is an improvement. Every
// other metric is assumed to improve as it grows.
var lowerIsBetter = map[string]bool{
	MetricNoReachShare: true,
}

// HigherIsBetter reports whether an increase in the named metric is an
// improvement.
func HigherIsBetter(name string) bool {
	return !lowerIsBetter[name]
}

// ComputeDeltas compares two sets of aggregate metrics. Metrics missing from
// prev compare against zero.
func ComputeDeltas(prev, curr []AggregateMetric) []MetricDelta {
	prevMap := make(map[string]float64, len(prev))
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	deltas := make([]MetricDelta, 0, len(curr))
	for _, m := range curr {
		prevVal := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := DirectionUnchanged
		if delta != 0 {
			improved := (delta > 0) == HigherIsBetter(m.MetricName)
			direction = DirectionRegressed
			if improved {
				direction = DirectionImproved
			}
		}

		deltas = append(deltas, MetricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}
