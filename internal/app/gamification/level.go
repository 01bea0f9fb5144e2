// Package gamification implements the Life OS progression engines:
// XP/level curve, rank tiers, streaks, per-habit mastery, HP damage, and
// the aggregated stats snapshot. Everything here is a pure function over
// records already fetched from storage — no I/O, no clocks, no mutation.
package gamification

import "math"

// MaxLevel caps the progression. ZENITH rank is pinned to this level.
const MaxLevel = 1000

// LevelThreshold returns the XP required to complete the given level.
// 1.1x curve: level 1 = 100 XP, level 2 = 110 XP, and so on.
func LevelThreshold(level int) int {
	return int(math.Floor(100 * math.Pow(1.1, float64(level-1))))
}

// LevelProgressPercent returns progress through the current level as a
// percentage, clamped at 100. XP here is level-relative; rolling excess
// into the next level is the caller's job.
func LevelProgressPercent(xp, level int) float64 {
	pct := float64(xp) / float64(LevelThreshold(level)) * 100
	return math.Min(pct, 100)
}

// ShouldLevelUp reports whether level-relative XP has crossed the
// threshold for the current level.
func ShouldLevelUp(xp, level int) bool {
	return xp >= LevelThreshold(level)
}

// LevelFromTotalXP converts a lifetime XP total into a level and the XP
// accumulated within that level, walking the threshold curve from level 1.
// O(level) with levels capped at MaxLevel, so bounded.
func LevelFromTotalXP(totalXP int) (level, xp int) {
	level = 1
	xp = totalXP
	for level < MaxLevel && xp >= LevelThreshold(level) {
		xp -= LevelThreshold(level)
		level++
	}
	return level, xp
}

// XPToNextLevel returns the XP remaining until the next level.
func XPToNextLevel(xp, level int) int {
	remaining := LevelThreshold(level) - xp
	if remaining < 0 {
		return 0
	}
	return remaining
}
