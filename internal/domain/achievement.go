package domain

import "fmt"

// ConditionKind is the closed set of achievement condition types.
// Adding a kind means extending Validate and Met; both dispatch
// exhaustively.
type ConditionKind string

const (
	TotalCompletionsAtLeast ConditionKind = "total_completions"
	StreakAtLeast           ConditionKind = "streak"
	DailyCompletionsAtLeast ConditionKind = "daily_completions"
)

// Condition is a single unlock requirement.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold int           `json:"threshold"`
}

// Validate fails loudly on an unknown kind — a static-data bug,
// not user noise.
func (c Condition) Validate() error {
	switch c.Kind {
	case TotalCompletionsAtLeast, StreakAtLeast, DailyCompletionsAtLeast:
		return nil
	}
	return fmt.Errorf("achievement condition: unknown kind %q", c.Kind)
}

// Met evaluates the condition against a stats snapshot.
func (c Condition) Met(stats AchievementStats) bool {
	switch c.Kind {
	case TotalCompletionsAtLeast:
		return stats.TotalCompletions >= c.Threshold
	case StreakAtLeast:
		return stats.CurrentStreak >= c.Threshold
	case DailyCompletionsAtLeast:
		return stats.TodayCompletions >= c.Threshold
	default:
		return false
	}
}

// AchievementStats is the snapshot achievement conditions read from.
type AchievementStats struct {
	TotalCompletions int
	CurrentStreak    int
	TodayCompletions int
}

// Achievement is a catalog entry. Unlocked state is recomputed from
// current stats on every evaluation, never persisted: total-completion
// unlocks are effectively permanent because the stat is monotonic, but
// streak unlocks re-lock if the streak later drops. Live status display,
// not a one-way ratchet.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Condition   Condition `json:"condition"`
}
