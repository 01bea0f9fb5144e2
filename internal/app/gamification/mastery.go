package gamification

import "math"

// masteryXPPerLevel: 100 mastery XP = 1 mastery level.
const masteryXPPerLevel = 100

// MasteryInfo is the per-habit mastery state.
type MasteryInfo struct {
	Level           int     `json:"level"`
	CurrentXP       int     `json:"current_xp"`
	MaxXP           int     `json:"max_xp"`
	ProgressPercent float64 `json:"progress_percent"`
}

// MasteryXPPerCompletion normalizes mastery XP by due-day frequency so
// a weekly habit (1 due day) and a daily habit (7 due days) reach level
// 1 after comparable real-world effort: one week of perfect completion.
// A habit due on zero weekdays cannot be completed and earns nothing —
// the degenerate case for pure resistance counters.
func MasteryXPPerCompletion(frequencyCount int) int {
	if frequencyCount <= 0 {
		return 0
	}
	return int(math.Round(100 / float64(frequencyCount)))
}

// Mastery computes the mastery level from completion counts. Partial
// completions earn half the per-completion value, rounded.
func Mastery(totalCompletions, partialCompletions, frequencyCount int) MasteryInfo {
	perFull := MasteryXPPerCompletion(frequencyCount)
	perPartial := int(math.Round(float64(perFull) * 0.5))

	totalXP := totalCompletions*perFull + partialCompletions*perPartial

	return MasteryInfo{
		Level:           totalXP / masteryXPPerLevel,
		CurrentXP:       totalXP % masteryXPPerLevel,
		MaxXP:           masteryXPPerLevel,
		ProgressPercent: float64(totalXP%masteryXPPerLevel) / masteryXPPerLevel * 100,
	}
}
