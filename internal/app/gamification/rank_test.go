package gamification

import "testing"

func TestVerifyRankTable(t *testing.T) {
	if err := VerifyRankTable(); err != nil {
		t.Fatalf("static rank table is invalid: %v", err)
	}
}

func TestRankForLevel_Anchors(t *testing.T) {
	if got := RankForLevel(1); got.ID != "F" {
		t.Errorf("level 1 = %s, want F", got.ID)
	}
	if got := RankForLevel(1000); got.ID != "ZENITH" {
		t.Errorf("level 1000 = %s, want ZENITH", got.ID)
	}
	if got := RankForLevel(100); got.ID != "A" {
		t.Errorf("level 100 = %s, want A", got.ID)
	}
	if got := RankForLevel(101); got.ID != "S" {
		t.Errorf("level 101 = %s, want S", got.ID)
	}
}

// Every level in 1..1000 must land in exactly one rank window.
func TestRankForLevel_ExactlyOneMatch(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		matches := 0
		for _, r := range Ranks() {
			if level >= r.MinLevel && level <= r.MaxLevel {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("level %d matches %d rank windows, want exactly 1", level, matches)
		}
	}
}

func TestRanksWithStatus_ExactlyOneCurrent(t *testing.T) {
	for _, level := range []int{1, 8, 9, 100, 500, 999, 1000} {
		current := 0
		for _, rs := range RanksWithStatus(level) {
			if rs.IsCurrentRank {
				current++
			}
		}
		if current != 1 {
			t.Errorf("level %d: %d current ranks, want 1", level, current)
		}
	}
}

func TestRanksWithStatus_Progress(t *testing.T) {
	// F spans 1..8; at level 4 progress is round(4/8*100) = 50
	statuses := RanksWithStatus(4)
	if statuses[0].Progress != 50 {
		t.Errorf("F progress at level 4 = %d, want 50", statuses[0].Progress)
	}
	// Ranks below the level are complete, ranks above are untouched
	statuses = RanksWithStatus(50)
	for _, rs := range statuses {
		switch {
		case 50 >= rs.MaxLevel && rs.Progress != 100:
			t.Errorf("%s should be 100%%, got %d", rs.ID, rs.Progress)
		case 50 < rs.MinLevel && rs.Progress != 0:
			t.Errorf("%s should be 0%%, got %d", rs.ID, rs.Progress)
		}
	}
}

func TestRanksWithStatus_Unlocks(t *testing.T) {
	statuses := RanksWithStatus(23) // first level of C
	wantUnlocked := map[string]bool{"F": true, "D": true, "C": true}
	for _, rs := range statuses {
		if rs.IsUnlocked != wantUnlocked[rs.ID] {
			t.Errorf("%s unlocked = %v, want %v", rs.ID, rs.IsUnlocked, wantUnlocked[rs.ID])
		}
	}
}

func TestNextRank(t *testing.T) {
	next, ok := NextRank(5)
	if !ok || next.ID != "D" {
		t.Errorf("next after F = %s (%v), want D", next.ID, ok)
	}
	next, ok = NextRank(999)
	if !ok || next.ID != "ZENITH" {
		t.Errorf("next after APEX = %s (%v), want ZENITH", next.ID, ok)
	}
	if _, ok := NextRank(1000); ok {
		t.Error("ZENITH must have no next rank")
	}
}

func TestLevelsToNextRank(t *testing.T) {
	if got := LevelsToNextRank(5); got != 4 {
		t.Errorf("level 5 to D (min 9) = %d, want 4", got)
	}
	if got := LevelsToNextRank(1000); got != 0 {
		t.Errorf("at ZENITH = %d, want 0", got)
	}
}
