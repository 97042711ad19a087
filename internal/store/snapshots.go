package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
)

const snapshotColumns = "id, taken_at, command, version, timeframe_days"

// CreateSnapshot inserts a new snapshot and returns its ID.
func (db *DB) CreateSnapshot(command, version string, timeframeDays float64) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO snapshots (taken_at, command, version, timeframe_days) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano), command, version, timeframeDays,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetSnapshot returns a snapshot by ID.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot (1 = latest, 2 = previous, etc.).
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanSnapshot(row)
}

// ListSnapshots returns up to n snapshots, newest first.
func (db *DB) ListSnapshots(n int) ([]Snapshot, error) {
	rows, err := db.conn.Query("SELECT "+snapshotColumns+" FROM snapshots ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snapshots []Snapshot
	for rows.Next() {
		s, err := scanSnapshotRow(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	s, err := scanSnapshotRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func scanSnapshotRow(row rowScanner) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	if err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Version, &s.TimeframeDays); err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339Nano, takenAt)
	return &s, nil
}

// InsertOverview stores the overview totals of a snapshot.
func (db *DB) InsertOverview(snapshotID int64, o analyzer.Overview) error {
	_, err := db.conn.Exec(
		`INSERT INTO overviews
		(snapshot_id, total_tweets, total_impressions, total_likes, total_retweets,
		 total_replies, total_quotes, total_bookmarks, total_engagement,
		 engagement_rate, avg_impressions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshotID, o.TotalTweets.Float(), o.TotalImpressions.Float(), o.TotalLikes.Float(),
		o.TotalRetweets.Float(), o.TotalReplies.Float(), o.TotalQuotes.Float(),
		o.TotalBookmarks.Float(), o.TotalEngagement.Float(), o.EngagementRate.Float(),
		o.AvgImpressions.Float(),
	)
	return err
}

// GetOverview returns the overview stored with a snapshot, or nil if there
// is none.
func (db *DB) GetOverview(snapshotID int64) (*analyzer.Overview, error) {
	row := db.conn.QueryRow(
		`SELECT total_tweets, total_impressions, total_likes, total_retweets,
		 total_replies, total_quotes, total_bookmarks, total_engagement,
		 engagement_rate, avg_impressions
		 FROM overviews WHERE snapshot_id = ?`,
		snapshotID,
	)
	var v [10]float64
	err := row.Scan(&v[0], &v[1], &v[2], &v[3], &v[4], &v[5], &v[6], &v[7], &v[8], &v[9])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analyzer.Overview{
		TotalTweets:      analyzer.Number(v[0]),
		TotalImpressions: analyzer.Number(v[1]),
		TotalLikes:       analyzer.Number(v[2]),
		TotalRetweets:    analyzer.Number(v[3]),
		TotalReplies:     analyzer.Number(v[4]),
		TotalQuotes:      analyzer.Number(v[5]),
		TotalBookmarks:   analyzer.Number(v[6]),
		TotalEngagement:  analyzer.Number(v[7]),
		EngagementRate:   analyzer.Number(v[8]),
		AvgImpressions:   analyzer.Number(v[9]),
	}, nil
}

// LatestOverview returns the overview of the most recent snapshot that has
// one, or nil.
func (db *DB) LatestOverview() (*analyzer.Overview, error) {
	var id int64
	err := db.conn.QueryRow("SELECT snapshot_id FROM overviews ORDER BY snapshot_id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return db.GetOverview(id)
}

// GetAggregateMetrics returns all aggregate metrics for a snapshot.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// SaveMetrics records every metric of a snapshot in one transaction.
func (db *DB) SaveMetrics(snapshotID int64, metrics map[string]float64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for name, value := range metrics {
		if _, err := tx.Exec(
			"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value) VALUES (?, ?, ?)",
			snapshotID, name, value,
		); err != nil {
			return fmt.Errorf("inserting metric %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// InsertRecommendation inserts a recommendation for a snapshot.
func (db *DB) InsertRecommendation(r *Recommendation) error {
	status := r.Status
	if status == "" {
		status = StatusOpen
	}
	result, err := db.conn.Exec(
		`INSERT INTO recommendations
		(snapshot_id, category, priority, title, description, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.SnapshotID, r.Category, r.Priority, r.Title, r.Description, status,
	)
	if err != nil {
		return err
	}
	r.ID, err = result.LastInsertId()
	r.Status = status
	return err
}

// GetOpenRecommendations returns all recommendations with status "open",
// newest first.
func (db *DB) GetOpenRecommendations() ([]Recommendation, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, category, priority, title, description, status
		 FROM recommendations WHERE status = ? ORDER BY id DESC`,
		StatusOpen,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []Recommendation
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.SnapshotID, &r.Category, &r.Priority,
			&r.Title, &r.Description, &r.Status); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// ResolveRecommendation marks a recommendation as resolved and stamps when.
func (db *DB) ResolveRecommendation(id int64) error {
	_, err := db.conn.Exec(
		"UPDATE recommendations SET status = ?, resolved_at = ? WHERE id = ?",
		StatusResolved, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	return err
}

// ResolveMissing resolves every open recommendation whose title is not in
// active and returns how many were resolved. It is used after a run to close
// out advice that no longer applies.
func (db *DB) ResolveMissing(active []string) (int, error) {
	open, err := db.GetOpenRecommendations()
	if err != nil {
		return 0, err
	}
	keep := make(map[string]bool, len(active))
	for _, title := range active {
		keep[title] = true
	}
	resolved := 0
	for _, r := range open {
		if keep[r.Title] {
			continue
		}
		if err := db.ResolveRecommendation(r.ID); err != nil {
			return resolved, err
		}
		resolved++
	}
	return resolved, nil
}
