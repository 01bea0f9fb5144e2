package gamification

import (
	"testing"

	"github.com/lifeos-sh/lifeos/internal/domain"
)

func logsOn(habitID string, status domain.Status, dates ...string) []domain.HabitLog {
	logs := make([]domain.HabitLog, 0, len(dates))
	for _, d := range dates {
		logs = append(logs, domain.HabitLog{HabitID: habitID, Date: d, Status: status})
	}
	return logs
}

func TestStreak_Empty(t *testing.T) {
	data := Streak(nil, domain.DateRange("2026-01-10", 30))
	if data.Current != 0 || data.Longest != 0 || data.LastCompletedDate != "" {
		t.Errorf("empty history = %+v, want zeros", data)
	}
}

// Completions on Jan 1-3, today is Jan 4 with nothing logged: the scan
// halts on today immediately, so the current streak is 0.
func TestStreak_TodayNotCompleted(t *testing.T) {
	logs := logsOn("h1", domain.StatusCompleted, "2026-01-01", "2026-01-02", "2026-01-03")
	data := Streak(logs, domain.DateRange("2026-01-04", 30))
	if data.Current != 0 {
		t.Errorf("current = %d, want 0 (today breaks the streak)", data.Current)
	}
	if data.Longest != 3 {
		t.Errorf("longest = %d, want 3", data.Longest)
	}
	if data.LastCompletedDate != "2026-01-03" {
		t.Errorf("last completed = %s, want 2026-01-03", data.LastCompletedDate)
	}
}

// Same logs, but today is Jan 3: all three days count.
func TestStreak_EndsToday(t *testing.T) {
	logs := logsOn("h1", domain.StatusCompleted, "2026-01-01", "2026-01-02", "2026-01-03")
	data := Streak(logs, domain.DateRange("2026-01-03", 30))
	if data.Current != 3 {
		t.Errorf("current = %d, want 3", data.Current)
	}
}

func TestStreak_GapBreaks(t *testing.T) {
	logs := logsOn("h1", domain.StatusCompleted,
		"2026-01-01", "2026-01-02", "2026-01-03", // first run
		"2026-01-05", "2026-01-06") // second run after a gap
	data := Streak(logs, domain.DateRange("2026-01-06", 30))
	if data.Current != 2 {
		t.Errorf("current = %d, want 2", data.Current)
	}
	if data.Longest != 3 {
		t.Errorf("longest = %d, want 3 (first run)", data.Longest)
	}
}

// Partial and skipped days do not extend a streak.
func TestStreak_PartialBreaks(t *testing.T) {
	logs := []domain.HabitLog{
		{HabitID: "h1", Date: "2026-01-01", Status: domain.StatusCompleted},
		{HabitID: "h1", Date: "2026-01-02", Status: domain.StatusPartial},
		{HabitID: "h1", Date: "2026-01-03", Status: domain.StatusCompleted},
	}
	data := Streak(logs, domain.DateRange("2026-01-03", 10))
	if data.Current != 1 {
		t.Errorf("current = %d, want 1 (partial on Jan 2 breaks it)", data.Current)
	}
	if data.Longest != 1 {
		t.Errorf("longest = %d, want 1", data.Longest)
	}
}

func TestStatsForHabit_Empty(t *testing.T) {
	habit := domain.Habit{ID: "h1", Title: "Read"}
	stats := StatsForHabit(habit, nil, domain.DateRange("2026-01-10", 30))
	if stats.CompletionRate != 0 || stats.TotalAttempts != 0 {
		t.Errorf("empty stats = %+v, want zero rates", stats)
	}
	if stats.BestDay != "" || stats.WorstDay != "" {
		t.Errorf("empty history should have no best/worst day")
	}
	if stats.Streak.LastCompletedDate != "" {
		t.Error("empty history should have no last completed date")
	}
}

func TestStatsForHabit_Rates(t *testing.T) {
	habit := domain.Habit{ID: "h1", Title: "Read"}
	logs := []domain.HabitLog{
		{HabitID: "h1", Date: "2026-01-01", Status: domain.StatusCompleted},
		{HabitID: "h1", Date: "2026-01-02", Status: domain.StatusCompleted},
		{HabitID: "h1", Date: "2026-01-03", Status: domain.StatusSkipped},
		{HabitID: "h1", Date: "2026-01-04", Status: domain.StatusCompleted},
	}
	stats := StatsForHabit(habit, logs, domain.DateRange("2026-01-04", 30))
	if stats.TotalAttempts != 4 {
		t.Errorf("attempts = %d, want 4 (any status counts)", stats.TotalAttempts)
	}
	if stats.TotalCompletions != 3 {
		t.Errorf("completions = %d, want 3", stats.TotalCompletions)
	}
	if stats.CompletionRate != 75 {
		t.Errorf("rate = %v, want 75", stats.CompletionRate)
	}
	// All four logs fall inside both rolling windows
	if stats.Last7DayRate != 75 || stats.Last30DayRate != 75 {
		t.Errorf("rolling rates = %v/%v, want 75/75", stats.Last7DayRate, stats.Last30DayRate)
	}
}

func TestStatsForHabit_RollingWindowExcludesOld(t *testing.T) {
	habit := domain.Habit{ID: "h1", Title: "Read"}
	logs := []domain.HabitLog{
		{HabitID: "h1", Date: "2025-11-01", Status: domain.StatusSkipped}, // outside both windows
		{HabitID: "h1", Date: "2026-01-09", Status: domain.StatusCompleted},
		{HabitID: "h1", Date: "2026-01-10", Status: domain.StatusCompleted},
	}
	stats := StatsForHabit(habit, logs, domain.DateRange("2026-01-10", 90))
	if stats.Last7DayRate != 100 {
		t.Errorf("7-day rate = %v, want 100 (old skip excluded)", stats.Last7DayRate)
	}
	if stats.CompletionRate >= 100 {
		t.Errorf("all-time rate should include the old skip, got %v", stats.CompletionRate)
	}
}

func TestBestWorstWeekday(t *testing.T) {
	habit := domain.Habit{ID: "h1", Title: "Gym"}
	// 2026-01-04 Sunday, 2026-01-05 Monday, 2026-01-11 Sunday, 2026-01-12 Monday
	logs := []domain.HabitLog{
		{HabitID: "h1", Date: "2026-01-04", Status: domain.StatusCompleted},
		{HabitID: "h1", Date: "2026-01-11", Status: domain.StatusCompleted}, // Sundays: 2/2
		{HabitID: "h1", Date: "2026-01-05", Status: domain.StatusCompleted},
		{HabitID: "h1", Date: "2026-01-12", Status: domain.StatusSkipped}, // Mondays: 1/2
	}
	stats := StatsForHabit(habit, logs, domain.DateRange("2026-01-12", 30))
	if stats.BestDay != "Sunday" {
		t.Errorf("best day = %s, want Sunday", stats.BestDay)
	}
	if stats.WorstDay != "Monday" {
		t.Errorf("worst day = %s, want Monday", stats.WorstDay)
	}
}

// With every attempted weekday at the same rate, ties resolve to the
// first weekday in Sunday-first order.
func TestBestWorstWeekday_TieBreak(t *testing.T) {
	habit := domain.Habit{ID: "h1", Title: "Gym"}
	logs := []domain.HabitLog{
		{HabitID: "h1", Date: "2026-01-06", Status: domain.StatusCompleted}, // Tuesday
		{HabitID: "h1", Date: "2026-01-04", Status: domain.StatusCompleted}, // Sunday
	}
	stats := StatsForHabit(habit, logs, domain.DateRange("2026-01-06", 30))
	if stats.BestDay != "Sunday" {
		t.Errorf("tie best day = %s, want Sunday (first in order)", stats.BestDay)
	}
	if stats.WorstDay != "Sunday" {
		t.Errorf("tie worst day = %s, want Sunday (first in order)", stats.WorstDay)
	}
}
