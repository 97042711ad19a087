package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// migration is one forward schema step. Steps apply in order inside their
// own transaction, and the stored version advances with each one.
type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS snapshots (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				taken_at       TEXT NOT NULL,
				command        TEXT NOT NULL,
				version        TEXT NOT NULL,
				timeframe_days REAL NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS overviews (
				snapshot_id       INTEGER PRIMARY KEY REFERENCES snapshots(id),
				total_tweets      REAL NOT NULL,
				total_impressions REAL NOT NULL,
				total_likes       REAL NOT NULL,
				total_retweets    REAL NOT NULL,
				total_replies     REAL NOT NULL,
				total_quotes      REAL NOT NULL,
				total_bookmarks   REAL NOT NULL,
				total_engagement  REAL NOT NULL,
				engagement_rate   REAL NOT NULL,
				avg_impressions   REAL NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS aggregate_metrics (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
				metric_name  TEXT NOT NULL,
				metric_value REAL NOT NULL,
				detail       TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS recommendations (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
				category    TEXT NOT NULL,
				priority    TEXT NOT NULL,
				title       TEXT NOT NULL,
				description TEXT NOT NULL,
				status      TEXT NOT NULL DEFAULT 'open'
			)`,
			`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
			`CREATE INDEX IF NOT EXISTS idx_recommendations_status ON recommendations(status)`,
			`CREATE INDEX IF NOT EXISTS idx_recommendations_title ON recommendations(title)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`ALTER TABLE recommendations ADD COLUMN resolved_at TEXT`,
			`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at)`,
		},
	},
}

// currentSchemaVersion is the latest schema version.
var currentSchemaVersion = migrations[len(migrations)-1].version

// Migrate applies every migration newer than the stored schema version.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version, err := db.schemaVersion()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := db.apply(m); err != nil {
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// schemaVersion returns the stored version, 0 for a fresh database.
func (db *DB) schemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
		}
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return err
	}
	return tx.Commit()
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
