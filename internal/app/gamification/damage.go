package gamification

import "github.com/lifeos-sh/lifeos/internal/domain"

// DamageResult is the character state after applying HP damage.
type DamageResult struct {
	Level int `json:"level"`
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
}

// HPDamage returns the HP cost of one logical day: 10 per missed habit,
// 5 per incomplete for-today task. Inputs are non-negative counts.
func HPDamage(missedHabits, incompleteTasks int) int {
	return missedHabits*domain.HPPerMissedHabit + incompleteTasks*domain.HPPerIncompleteTask
}

// ApplyDamage subtracts damage from HP. Dropping to 0 or below demotes
// one level and resets HP to full — except at level 1, where HP floors
// at 1 instead: level-1 characters cannot die. Pure over its inputs, so
// applying the same (level, hp, damage) triple twice yields the same
// result; the review boundary relies on that for safe reruns.
func ApplyDamage(currentLevel, currentHP, damage int) DamageResult {
	newHP := currentHP - damage

	if newHP <= 0 && currentLevel > 1 {
		return DamageResult{Level: currentLevel - 1, HP: domain.MaxHP, MaxHP: domain.MaxHP}
	}

	if newHP < 1 {
		newHP = 1
	}
	return DamageResult{Level: currentLevel, HP: newHP, MaxHP: domain.MaxHP}
}
