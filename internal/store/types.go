// Package store provides SQLite persistence for tweetgenie snapshots: the
// overview totals of each run, its headline metrics and the recommendations
// it produced.
package store

import "time"

// Snapshot represents one recorded pipeline run.
type Snapshot struct {
	ID            int64     `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	Command       string    `json:"command"`
	Version       string    `json:"version"`
	TimeframeDays float64   `json:"timeframe_days"`
}

// AggregateMetric represents a named metric value within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// Recommendation statuses.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Recommendation is a stored recommendation row.
type Recommendation struct {
	ID          int64  `json:"id"`
	SnapshotID  int64  `json:"snapshot_id"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// Delta directions.
const (
	DirectionImproved  = "improved"
	DirectionRegressed = "regressed"
	DirectionUnchanged = "unchanged"
)

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}
