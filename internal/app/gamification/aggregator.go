package gamification

import (
	"fmt"

	"github.com/lifeos-sh/lifeos/internal/domain"
)

// Snapshot is the user-facing stats read model. It is rebuilt from raw
// logs on every call and never written back to storage.
type Snapshot struct {
	Level            int                  `json:"level"`
	TotalXP          int                  `json:"total_xp"`
	XPInLevel        int                  `json:"xp_in_level"`
	XPToNextLevel    int                  `json:"xp_to_next_level"`
	CurrentStreak    int                  `json:"current_streak"`
	TotalCompletions int                  `json:"total_completions"`
	TodayCompletions int                  `json:"today_completions"`
	Unlocked         []domain.Achievement `json:"unlocked"`
	Locked           []domain.Achievement `json:"locked"`
}

// BuildSnapshot composes the engines into one stats snapshot. Total XP
// is summed from the all-time logs via the completed/partial reward
// rule — not read from the cached profile, whose xp field is
// level-relative. The combined streak counts a day if ANY non-resistance
// habit has a completed log that day. Today is the logical today from
// the caller's clock.
func BuildSnapshot(habits []domain.Habit, logs []domain.HabitLog, today string) Snapshot {
	byID := make(map[string]domain.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	var snap Snapshot
	var streakLogs []domain.HabitLog
	earliest := today

	for _, l := range logs {
		habit, ok := byID[l.HabitID]
		if !ok {
			continue // log for a deleted/foreign habit — ignore
		}
		snap.TotalXP += habit.XPForStatus(l.Status)
		if l.Status == domain.StatusCompleted {
			snap.TotalCompletions++
			if l.Date == today {
				snap.TodayCompletions++
			}
		}
		if !habit.IsBadHabit {
			streakLogs = append(streakLogs, l)
		}
		if l.Date != "" && l.Date < earliest {
			earliest = l.Date
		}
	}

	snap.Level, snap.XPInLevel = LevelFromTotalXP(snap.TotalXP)
	snap.XPToNextLevel = XPToNextLevel(snap.XPInLevel, snap.Level)

	dates := datesBetween(earliest, today)
	snap.CurrentStreak = Streak(streakLogs, dates).Current

	stats := domain.AchievementStats{
		TotalCompletions: snap.TotalCompletions,
		CurrentStreak:    snap.CurrentStreak,
		TodayCompletions: snap.TodayCompletions,
	}
	for _, a := range Catalog() {
		if a.Condition.Met(stats) {
			snap.Unlocked = append(snap.Unlocked, a)
		} else {
			snap.Locked = append(snap.Locked, a)
		}
	}

	return snap
}

// datesBetween returns every date in [from, to] ascending.
func datesBetween(from, to string) []string {
	if from == "" || to == "" || from > to {
		return []string{to}
	}
	var dates []string
	for d := from; d != "" && d <= to; d = domain.AddDays(d, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ─── Achievement Catalog ────────────────────────────────────────────────────
// Unlock state is recomputed from current stats on every evaluation:
// completion-count unlocks are effectively permanent (the stat only
// grows), streak unlocks re-lock when the streak resets.

// Catalog returns the static achievement list in display order.
func Catalog() []domain.Achievement {
	return []domain.Achievement{
		{
			ID: "first_step", Title: "First Step", Icon: "✨",
			Description: "Complete your first habit",
			Condition:   domain.Condition{Kind: domain.TotalCompletionsAtLeast, Threshold: 1},
		},
		{
			ID: "week_warrior", Title: "Week Warrior", Icon: "🔥",
			Description: "Keep a 7-day streak",
			Condition:   domain.Condition{Kind: domain.StreakAtLeast, Threshold: 7},
		},
		{
			ID: "month_master", Title: "Month Master", Icon: "💪",
			Description: "Keep a 30-day streak",
			Condition:   domain.Condition{Kind: domain.StreakAtLeast, Threshold: 30},
		},
		{
			ID: "century_club", Title: "Century Club", Icon: "💯",
			Description: "Keep a 100-day streak",
			Condition:   domain.Condition{Kind: domain.StreakAtLeast, Threshold: 100},
		},
		{
			ID: "perfect_day", Title: "Perfect Day", Icon: "🌟",
			Description: "Complete 7 habits in a single day",
			Condition:   domain.Condition{Kind: domain.DailyCompletionsAtLeast, Threshold: 7},
		},
		{
			ID: "habit_builder", Title: "Habit Builder", Icon: "🏆",
			Description: "Complete 50 habits all time",
			Condition:   domain.Condition{Kind: domain.TotalCompletionsAtLeast, Threshold: 50},
		},
	}
}

// VerifyCatalog checks the static achievement list: unique IDs and
// known condition kinds. Like the rank table, a failure is a bug in
// the table, not user data.
func VerifyCatalog() error {
	seen := make(map[string]bool)
	for _, a := range Catalog() {
		if a.ID == "" {
			return fmt.Errorf("achievement with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if err := a.Condition.Validate(); err != nil {
			return fmt.Errorf("achievement %q: %w", a.ID, err)
		}
	}
	return nil
}
