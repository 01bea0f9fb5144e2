package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lifeos-sh/lifeos/internal/domain"
)

// ─── Habits ─────────────────────────────────────────────────────────────────

// SaveHabit upserts a habit definition by ID.
func (d *DB) SaveHabit(h domain.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	_, err := d.db.Exec(
		`INSERT INTO habits (id, title, description, frequency_days, sort_order, archived, is_bad_habit, xp_reward)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			frequency_days=excluded.frequency_days,
			sort_order=excluded.sort_order,
			archived=excluded.archived,
			is_bad_habit=excluded.is_bad_habit,
			xp_reward=excluded.xp_reward`,
		h.ID, h.Title, h.Description, encodeFrequency(h.FrequencyDays),
		h.SortOrder, h.Archived, h.IsBadHabit, h.XPReward,
	)
	return err
}

// Habit returns one habit by ID.
func (d *DB) Habit(id string) (domain.Habit, error) {
	row := d.db.QueryRow(
		`SELECT id, title, description, frequency_days, sort_order, archived, is_bad_habit, xp_reward
		 FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return h, fmt.Errorf("habit %s: %w", id, domain.ErrHabitNotFound)
	}
	return h, err
}

// HabitByTitle looks a habit up by its display title. Used by imports,
// which reference habits by name rather than ID.
func (d *DB) HabitByTitle(title string) (domain.Habit, error) {
	row := d.db.QueryRow(
		`SELECT id, title, description, frequency_days, sort_order, archived, is_bad_habit, xp_reward
		 FROM habits WHERE title = ?`, title)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return h, fmt.Errorf("habit %q: %w", title, domain.ErrHabitNotFound)
	}
	return h, err
}

// Habits lists habits in sort order. When includeArchived is false,
// archived habits are filtered out.
func (d *DB) Habits(includeArchived bool) ([]domain.Habit, error) {
	q := `SELECT id, title, description, frequency_days, sort_order, archived, is_bad_habit, xp_reward
	      FROM habits`
	if !includeArchived {
		q += ` WHERE archived = 0`
	}
	q += ` ORDER BY sort_order, title`

	rows, err := d.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// ArchiveHabit marks a habit archived. History is kept; the habit just
// stops appearing in lists and reviews.
func (d *DB) ArchiveHabit(id string) error {
	res, err := d.db.Exec(`UPDATE habits SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("habit %s: %w", id, domain.ErrHabitNotFound)
	}
	return nil
}

func scanHabit(s scanner) (domain.Habit, error) {
	var h domain.Habit
	var freq string
	err := s.Scan(&h.ID, &h.Title, &h.Description, &freq,
		&h.SortOrder, &h.Archived, &h.IsBadHabit, &h.XPReward)
	if err != nil {
		return h, err
	}
	h.FrequencyDays = decodeFrequency(freq)
	return h, nil
}

// encodeFrequency packs weekday indices as a comma-joined string
// ("1,3,5"). Empty slice encodes to "".
func encodeFrequency(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func decodeFrequency(s string) []int {
	if s == "" {
		return nil
	}
	var days []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		days = append(days, n)
	}
	return days
}

// ─── Habit logs ─────────────────────────────────────────────────────────────

// SetLogStatus upserts the status for one habit on one date. An unset
// status deletes the row, keeping "no log" and "status none" the same
// state.
func (d *DB) SetLogStatus(habitID, date string, status domain.Status) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("status %q: %w", status, domain.ErrInvalidStatus)
	}
	if status == domain.StatusNone {
		_, err := d.db.Exec(`DELETE FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date)
		return err
	}
	_, err := d.db.Exec(
		`INSERT INTO habit_logs (habit_id, date, status)
		 VALUES (?, ?, ?)
		 ON CONFLICT(habit_id, date) DO UPDATE SET status=excluded.status`,
		habitID, date, string(status),
	)
	return err
}

// LogsForDate returns all logs recorded on one logical date.
func (d *DB) LogsForDate(date string) ([]domain.HabitLog, error) {
	return d.queryLogs(`SELECT habit_id, date, status FROM habit_logs WHERE date = ? ORDER BY habit_id`, date)
}

// LogsForHabit returns every log for one habit, oldest first.
func (d *DB) LogsForHabit(habitID string) ([]domain.HabitLog, error) {
	return d.queryLogs(`SELECT habit_id, date, status FROM habit_logs WHERE habit_id = ? ORDER BY date`, habitID)
}

// LogsInRange returns logs with from <= date <= to, oldest first.
func (d *DB) LogsInRange(from, to string) ([]domain.HabitLog, error) {
	return d.queryLogs(
		`SELECT habit_id, date, status FROM habit_logs WHERE date >= ? AND date <= ? ORDER BY date, habit_id`,
		from, to)
}

// AllLogs returns the complete log history, oldest first.
func (d *DB) AllLogs() ([]domain.HabitLog, error) {
	return d.queryLogs(`SELECT habit_id, date, status FROM habit_logs ORDER BY date, habit_id`)
}

func (d *DB) queryLogs(q string, args ...any) ([]domain.HabitLog, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.HabitLog
	for rows.Next() {
		var l domain.HabitLog
		var status string
		if err := rows.Scan(&l.HabitID, &l.Date, &status); err != nil {
			return nil, err
		}
		l.Status = domain.Status(status)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
