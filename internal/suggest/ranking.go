package suggest

import "sort"

// RankRecommendations returns a copy of recs sorted by priority weight,
// highest first. Entries of equal priority keep their relative order.
func RankRecommendations(recs []Recommendation) []Recommendation {
	sorted := make([]Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Weight() > sorted[j].Priority.Weight()
	})
	return sorted
}

// FilterByPriority returns the recommendations at priority p. An empty p
// returns recs unchanged.
func FilterByPriority(recs []Recommendation, p Priority) []Recommendation {
	if p == "" {
		return recs
	}
	var filtered []Recommendation
	for _, r := range recs {
		if r.Priority == p {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
