// Package sqlite provides SQLite-based persistent storage for Life OS.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/lifeos-sh/lifeos/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/lifeos.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "lifeos.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Single-row character sheet. level/xp are the cached values
		// reconciled against summed daily_summaries.xp_earned.
		`CREATE TABLE IF NOT EXISTS profile (
			id             INTEGER PRIMARY KEY CHECK (id = 1),
			level          INTEGER NOT NULL DEFAULT 1,
			xp             INTEGER NOT NULL DEFAULT 0,
			hp             INTEGER NOT NULL DEFAULT 100,
			max_hp         INTEGER NOT NULL DEFAULT 100,
			day_start_hour INTEGER NOT NULL DEFAULT 4
		)`,

		`CREATE TABLE IF NOT EXISTS habits (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			frequency_days TEXT NOT NULL DEFAULT '',
			sort_order     INTEGER NOT NULL DEFAULT 0,
			archived       BOOLEAN NOT NULL DEFAULT 0,
			is_bad_habit   BOOLEAN NOT NULL DEFAULT 0,
			xp_reward      INTEGER NOT NULL DEFAULT 10
		)`,

		// One status per habit per logical date
		`CREATE TABLE IF NOT EXISTS habit_logs (
			habit_id TEXT NOT NULL REFERENCES habits(id),
			date     TEXT NOT NULL,
			status   TEXT NOT NULL,
			PRIMARY KEY (habit_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_date ON habit_logs(date)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			priority     TEXT NOT NULL DEFAULT 'medium',
			completed    BOOLEAN NOT NULL DEFAULT 0,
			completed_at TEXT,
			is_for_today BOOLEAN NOT NULL DEFAULT 0,
			due_date     TEXT,
			archived     BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_today ON tasks(is_for_today)`,

		// Exactly one summary per logical date, upserted by the review
		`CREATE TABLE IF NOT EXISTS daily_summaries (
			date       TEXT PRIMARY KEY,
			mood_score INTEGER,
			notes      TEXT NOT NULL DEFAULT '',
			xp_earned  INTEGER NOT NULL DEFAULT 0,
			hp_lost    INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS metric_logs (
			metric_id TEXT NOT NULL,
			date      TEXT NOT NULL,
			value     REAL NOT NULL,
			PRIMARY KEY (metric_id, date)
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Profile ────────────────────────────────────────────────────────────────

// Profile returns the character sheet, creating a default one on first
// access.
func (d *DB) Profile() (domain.Profile, error) {
	var p domain.Profile
	err := d.db.QueryRow(
		`SELECT level, xp, hp, max_hp, day_start_hour FROM profile WHERE id = 1`,
	).Scan(&p.Level, &p.XP, &p.HP, &p.MaxHP, &p.DayStartHour)
	if err == sql.ErrNoRows {
		p = domain.DefaultProfile()
		if err := d.SaveProfile(p); err != nil {
			return p, fmt.Errorf("init profile: %w", err)
		}
		return p, nil
	}
	return p, err
}

// SaveProfile upserts the single profile row.
func (d *DB) SaveProfile(p domain.Profile) error {
	_, err := d.db.Exec(
		`INSERT INTO profile (id, level, xp, hp, max_hp, day_start_hour)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			level=excluded.level,
			xp=excluded.xp,
			hp=excluded.hp,
			max_hp=excluded.max_hp,
			day_start_hour=excluded.day_start_hour`,
		p.Level, p.XP, p.HP, p.MaxHP, p.DayStartHour,
	)
	return err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
