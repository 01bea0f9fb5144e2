package gamification

import (
	"time"

	"github.com/lifeos-sh/lifeos/internal/domain"
)

// StreakData summarizes consecutive-completion runs over a date range.
type StreakData struct {
	Current           int    `json:"current"`
	Longest           int    `json:"longest"`
	LastCompletedDate string `json:"last_completed_date,omitempty"`
}

// HabitStats is the per-habit statistics block. An "attempt" is a day
// with a log entry of any status; that denominator is used for every
// rate in this package so the numbers stay comparable.
type HabitStats struct {
	HabitID          string     `json:"habit_id"`
	HabitTitle       string     `json:"habit_title"`
	TotalCompletions int        `json:"total_completions"`
	TotalAttempts    int        `json:"total_attempts"`
	CompletionRate   float64    `json:"completion_rate"`
	Streak           StreakData `json:"streak"`
	Last7DayRate     float64    `json:"last_7_day_rate"`
	Last30DayRate    float64    `json:"last_30_day_rate"`
	BestDay          string     `json:"best_day,omitempty"`
	WorstDay         string     `json:"worst_day,omitempty"`
}

// completedDates collects the set of dates carrying at least one
// completed log.
func completedDates(logs []domain.HabitLog) map[string]bool {
	set := make(map[string]bool)
	for _, l := range logs {
		if l.Status == domain.StatusCompleted {
			set[l.Date] = true
		}
	}
	return set
}

// Streak computes current and longest streaks over the candidate dates.
// Dates must be ascending with the logical today last. The current
// streak walks backward from today and stops at the first date without
// a completed log — a day with no entry breaks it, gaps are not skipped.
func Streak(logs []domain.HabitLog, dates []string) StreakData {
	var data StreakData
	if len(logs) == 0 || len(dates) == 0 {
		return data
	}

	completed := completedDates(logs)

	for i := len(dates) - 1; i >= 0; i-- {
		if !completed[dates[i]] {
			break
		}
		data.Current++
	}

	run := 0
	for _, date := range dates {
		if completed[date] {
			run++
			if run > data.Longest {
				data.Longest = run
			}
		} else {
			run = 0
		}
	}

	// Most recent completed date, streak or not
	for i := len(dates) - 1; i >= 0; i-- {
		if completed[dates[i]] {
			data.LastCompletedDate = dates[i]
			break
		}
	}

	return data
}

// StatsForHabit computes the full statistics block for one habit from
// its log history. Dates must be ascending with the logical today last;
// the rolling 7- and 30-day windows end at that date.
func StatsForHabit(habit domain.Habit, logs []domain.HabitLog, dates []string) HabitStats {
	stats := HabitStats{
		HabitID:    habit.ID,
		HabitTitle: habit.Title,
		Streak:     Streak(logs, dates),
	}
	if len(logs) == 0 {
		return stats
	}

	for _, l := range logs {
		stats.TotalAttempts++
		if l.Status == domain.StatusCompleted {
			stats.TotalCompletions++
		}
	}
	if stats.TotalAttempts > 0 {
		stats.CompletionRate = float64(stats.TotalCompletions) / float64(stats.TotalAttempts) * 100
	}

	if len(dates) > 0 {
		today := dates[len(dates)-1]
		stats.Last7DayRate = windowRate(logs, domain.AddDays(today, -6), today)
		stats.Last30DayRate = windowRate(logs, domain.AddDays(today, -29), today)
	}

	stats.BestDay, stats.WorstDay = bestWorstWeekday(logs)
	return stats
}

// windowRate is the completion rate among logs within [from, to].
func windowRate(logs []domain.HabitLog, from, to string) float64 {
	attempts, completions := 0, 0
	for _, l := range logs {
		if l.Date < from || l.Date > to {
			continue
		}
		attempts++
		if l.Status == domain.StatusCompleted {
			completions++
		}
	}
	if attempts == 0 {
		return 0
	}
	return float64(completions) / float64(attempts) * 100
}

// bestWorstWeekday finds the weekdays with the highest and lowest
// completion rate among weekdays with at least one attempt. Ties
// resolve to the earliest weekday in Sunday-first order — an explicit
// tie-break, not map iteration luck.
func bestWorstWeekday(logs []domain.HabitLog) (best, worst string) {
	var attempts, completions [7]int
	for _, l := range logs {
		wd, err := domain.WeekdayOf(l.Date)
		if err != nil {
			continue
		}
		attempts[wd]++
		if l.Status == domain.StatusCompleted {
			completions[wd]++
		}
	}

	bestRate, worstRate := -1.0, 101.0
	for wd := 0; wd < 7; wd++ {
		if attempts[wd] == 0 {
			continue
		}
		rate := float64(completions[wd]) / float64(attempts[wd]) * 100
		if rate > bestRate {
			bestRate = rate
			best = time.Weekday(wd).String()
		}
		if rate < worstRate {
			worstRate = rate
			worst = time.Weekday(wd).String()
		}
	}
	return best, worst
}
