package gamification

import (
	"fmt"
	"math"
)

// Rank is one tier of the F→ZENITH ladder. Windows are inclusive,
// contiguous, and cover levels 1..1000 exactly; ZENITH is pinned to
// level 1000.
type Rank struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MinLevel    int    `json:"min_level"`
	MaxLevel    int    `json:"max_level"`
	Badge       string `json:"badge"`
	Description string `json:"description"`
}

// RankStatus is a rank annotated with unlock/progress state for a
// specific level.
type RankStatus struct {
	Rank
	IsUnlocked    bool `json:"is_unlocked"`
	IsCurrentRank bool `json:"is_current_rank"`
	Progress      int  `json:"progress"`
}

// ranks is the static tier table. Early ranks are short (building the
// foundation), mid ranks are the long grind, ZENITH is the single
// terminal level.
var ranks = []Rank{
	{ID: "F", Name: "F", MinLevel: 1, MaxLevel: 8, Badge: "🔴", Description: "Foundational - Building habit foundations"},
	{ID: "D", Name: "D", MinLevel: 9, MaxLevel: 22, Badge: "🟠", Description: "Developing - Consistency is emerging"},
	{ID: "C", Name: "C", MinLevel: 23, MaxLevel: 42, Badge: "🟡", Description: "Capable - Strong patterns forming"},
	{ID: "B", Name: "B", MinLevel: 43, MaxLevel: 68, Badge: "🟢", Description: "Brilliant - Mastery beginning"},
	{ID: "A", Name: "A", MinLevel: 69, MaxLevel: 100, Badge: "🔵", Description: "Advanced - Expert territory"},
	{ID: "S", Name: "S", MinLevel: 101, MaxLevel: 165, Badge: "🟣", Description: "Superior - Transcendent habits"},
	{ID: "SS", Name: "SS", MinLevel: 166, MaxLevel: 276, Badge: "⭐", Description: "Super Superior - Legendary status"},
	{ID: "SSS", Name: "SSS", MinLevel: 277, MaxLevel: 412, Badge: "✨", Description: "Supreme - Mythical mastery"},
	{ID: "EX", Name: "EX", MinLevel: 413, MaxLevel: 582, Badge: "👑", Description: "Exalted - Approaching transcendence"},
	{ID: "ALPHA", Name: "ALPHA", MinLevel: 583, MaxLevel: 772, Badge: "👑✨", Description: "Alpha - Beyond mortal limits"},
	{ID: "APEX", Name: "APEX", MinLevel: 773, MaxLevel: 999, Badge: "👑⭐", Description: "Apex - One step from eternity"},
	{ID: "ZENITH", Name: "ZENITH", MinLevel: 1000, MaxLevel: 1000, Badge: "💎", Description: "Zenith - The ultimate goal achieved"},
}

// Ranks returns the full tier table in ascending order.
func Ranks() []Rank {
	out := make([]Rank, len(ranks))
	copy(out, ranks)
	return out
}

// VerifyRankTable checks the static invariants: contiguous,
// non-overlapping windows covering 1..MaxLevel. A failure here is a bug
// in the table itself and the daemon refuses to start on it.
func VerifyRankTable() error {
	if len(ranks) == 0 {
		return fmt.Errorf("rank table is empty")
	}
	if ranks[0].MinLevel != 1 {
		return fmt.Errorf("rank table must start at level 1, starts at %d", ranks[0].MinLevel)
	}
	for i, r := range ranks {
		if r.MinLevel > r.MaxLevel {
			return fmt.Errorf("rank %s: inverted window [%d,%d]", r.ID, r.MinLevel, r.MaxLevel)
		}
		if i > 0 && r.MinLevel != ranks[i-1].MaxLevel+1 {
			return fmt.Errorf("gap between rank %s (max %d) and %s (min %d)",
				ranks[i-1].ID, ranks[i-1].MaxLevel, r.ID, r.MinLevel)
		}
	}
	if last := ranks[len(ranks)-1]; last.MaxLevel != MaxLevel {
		return fmt.Errorf("rank table must end at level %d, ends at %d", MaxLevel, last.MaxLevel)
	}
	return nil
}

// RankForLevel returns the rank whose window contains the level.
// Falls back to the lowest rank for out-of-table levels; given the
// verified contiguous coverage this only triggers for level < 1.
func RankForLevel(level int) Rank {
	for _, r := range ranks {
		if level >= r.MinLevel && level <= r.MaxLevel {
			return r
		}
	}
	return ranks[0]
}

// RanksWithStatus annotates every rank with unlock and progress state
// for the given level. Progress through the current rank counts the
// current level as attained: entering a rank shows partial progress,
// not zero.
func RanksWithStatus(currentLevel int) []RankStatus {
	out := make([]RankStatus, len(ranks))
	for i, r := range ranks {
		rs := RankStatus{
			Rank:          r,
			IsUnlocked:    currentLevel >= r.MinLevel,
			IsCurrentRank: currentLevel >= r.MinLevel && currentLevel <= r.MaxLevel,
		}
		switch {
		case currentLevel >= r.MaxLevel:
			rs.Progress = 100
		case currentLevel < r.MinLevel:
			rs.Progress = 0
		default:
			span := r.MaxLevel - r.MinLevel + 1
			rs.Progress = int(math.Round(float64(currentLevel-r.MinLevel+1) / float64(span) * 100))
		}
		out[i] = rs
	}
	return out
}

// NextRank returns the tier after the current one, or false when
// already at ZENITH.
func NextRank(currentLevel int) (Rank, bool) {
	current := RankForLevel(currentLevel)
	for i, r := range ranks {
		if r.ID == current.ID && i < len(ranks)-1 {
			return ranks[i+1], true
		}
	}
	return Rank{}, false
}

// LevelsToNextRank returns how many levels remain until the next tier,
// 0 at the terminal tier.
func LevelsToNextRank(currentLevel int) int {
	next, ok := NextRank(currentLevel)
	if !ok {
		return 0
	}
	return next.MinLevel - currentLevel
}
