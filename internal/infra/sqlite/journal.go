package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/lifeos-sh/lifeos/internal/domain"
)

// ─── Tasks ──────────────────────────────────────────────────────────────────

// SaveTask upserts a task by ID.
func (d *DB) SaveTask(t domain.Task) error {
	if t.ID == "" {
		return fmt.Errorf("task with empty id")
	}
	_, err := d.db.Exec(
		`INSERT INTO tasks (id, title, priority, completed, completed_at, is_for_today, due_date, archived)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			priority=excluded.priority,
			completed=excluded.completed,
			completed_at=excluded.completed_at,
			is_for_today=excluded.is_for_today,
			due_date=excluded.due_date,
			archived=excluded.archived`,
		t.ID, t.Title, string(t.Priority), t.Completed,
		nullable(t.CompletedAt), t.IsForToday, nullable(t.DueDate), t.Archived,
	)
	return err
}

// Task returns one task by ID.
func (d *DB) Task(id string) (domain.Task, error) {
	row := d.db.QueryRow(
		`SELECT id, title, priority, completed, completed_at, is_for_today, due_date, archived
		 FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return t, fmt.Errorf("task %s: %w", id, domain.ErrTaskNotFound)
	}
	return t, err
}

// Tasks lists non-archived tasks, for-today first, then by priority.
func (d *DB) Tasks() ([]domain.Task, error) {
	rows, err := d.db.Query(
		`SELECT id, title, priority, completed, completed_at, is_for_today, due_date, archived
		 FROM tasks WHERE archived = 0
		 ORDER BY is_for_today DESC,
			CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// IncompleteTodayTasks counts for-today tasks that are not completed.
// The nightly review charges HP per count.
func (d *DB) IncompleteTodayTasks() (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE is_for_today = 1 AND completed = 0 AND archived = 0`,
	).Scan(&n)
	return n, err
}

func scanTask(s scanner) (domain.Task, error) {
	var t domain.Task
	var priority string
	var completedAt, dueDate sql.NullString
	err := s.Scan(&t.ID, &t.Title, &priority, &t.Completed,
		&completedAt, &t.IsForToday, &dueDate, &t.Archived)
	if err != nil {
		return t, err
	}
	t.Priority = domain.TaskPriority(priority)
	t.CompletedAt = completedAt.String
	t.DueDate = dueDate.String
	return t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ─── Daily summaries ────────────────────────────────────────────────────────

// SaveSummary upserts the review record for one logical date.
func (d *DB) SaveSummary(s domain.DailySummary) error {
	_, err := d.db.Exec(
		`INSERT INTO daily_summaries (date, mood_score, notes, xp_earned, hp_lost)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			mood_score=excluded.mood_score,
			notes=excluded.notes,
			xp_earned=excluded.xp_earned,
			hp_lost=excluded.hp_lost`,
		s.Date, s.MoodScore, s.Notes, s.XPEarned, s.HPLost,
	)
	return err
}

// Summary returns the review record for one date.
func (d *DB) Summary(date string) (domain.DailySummary, error) {
	var s domain.DailySummary
	err := d.db.QueryRow(
		`SELECT date, mood_score, notes, xp_earned, hp_lost FROM daily_summaries WHERE date = ?`,
		date,
	).Scan(&s.Date, &s.MoodScore, &s.Notes, &s.XPEarned, &s.HPLost)
	if err == sql.ErrNoRows {
		return s, fmt.Errorf("summary %s: %w", date, domain.ErrSummaryNotFound)
	}
	return s, err
}

// Summaries returns all review records, oldest first.
func (d *DB) Summaries() ([]domain.DailySummary, error) {
	rows, err := d.db.Query(
		`SELECT date, mood_score, notes, xp_earned, hp_lost FROM daily_summaries ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailySummary
	for rows.Next() {
		var s domain.DailySummary
		if err := rows.Scan(&s.Date, &s.MoodScore, &s.Notes, &s.XPEarned, &s.HPLost); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TotalXPEarned sums xp_earned across all summaries. This is the
// lifetime XP figure the recalculation reconciles the profile against.
func (d *DB) TotalXPEarned() (int, error) {
	var total int
	err := d.db.QueryRow(
		`SELECT COALESCE(SUM(xp_earned), 0) FROM daily_summaries`,
	).Scan(&total)
	return total, err
}

// ─── Metric logs ────────────────────────────────────────────────────────────

// SaveMetricLog upserts one measurement for (metric, date).
func (d *DB) SaveMetricLog(m domain.MetricLog) error {
	_, err := d.db.Exec(
		`INSERT INTO metric_logs (metric_id, date, value)
		 VALUES (?, ?, ?)
		 ON CONFLICT(metric_id, date) DO UPDATE SET value=excluded.value`,
		m.MetricID, m.Date, m.Value,
	)
	return err
}

// MetricLogs returns every measurement, oldest first.
func (d *DB) MetricLogs() ([]domain.MetricLog, error) {
	rows, err := d.db.Query(
		`SELECT metric_id, date, value FROM metric_logs ORDER BY date, metric_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MetricLog
	for rows.Next() {
		var m domain.MetricLog
		if err := rows.Scan(&m.MetricID, &m.Date, &m.Value); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
