package review

import (
	"errors"
	"testing"
	"time"

	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/sqlite"
)

var everyDay = []int{0, 1, 2, 3, 4, 5, 6}

func testService(t *testing.T) (*Service, *sqlite.DB) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := domain.Clock{
		DayStartHour: 4,
		Now:          func() time.Time { return time.Date(2026, 1, 10, 22, 0, 0, 0, time.UTC) },
	}
	return NewService(db, clock), db
}

func TestRun_MarksDueUnsetAsMissed(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "read", Title: "Read", FrequencyDays: everyDay, XPReward: 10}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveHabit(domain.Habit{ID: "gym", Title: "Gym", FrequencyDays: everyDay, XPReward: 20}); err != nil {
		t.Fatal(err)
	}
	if err := db.SetLogStatus("gym", "2026-01-10", domain.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Run(Input{Date: "2026-01-10", MoodScore: 4, Notes: "solid day"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.MissedHabits != 1 {
		t.Errorf("missed = %d, want 1", res.MissedHabits)
	}
	if res.XPEarned != 20 {
		t.Errorf("xp = %d, want 20", res.XPEarned)
	}
	if res.HPLost != 10 {
		t.Errorf("hp lost = %d, want 10", res.HPLost)
	}

	// The untouched habit now carries a missed log
	logs, err := db.LogsForDate("2026-01-10")
	if err != nil {
		t.Fatal(err)
	}
	statuses := map[string]domain.Status{}
	for _, l := range logs {
		statuses[l.HabitID] = l.Status
	}
	if statuses["read"] != domain.StatusMissed {
		t.Errorf("read status = %q, want missed", statuses["read"])
	}

	sum, err := db.Summary("2026-01-10")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.XPEarned != 20 || sum.HPLost != 10 || sum.MoodScore != 4 || sum.Notes != "solid day" {
		t.Errorf("summary = %+v", sum)
	}

	p, err := db.Profile()
	if err != nil {
		t.Fatal(err)
	}
	if p.HP != 90 || p.Level != 1 || p.XP != 20 {
		t.Errorf("profile = %+v, want 90 HP, level 1, 20 XP", p)
	}
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "read", Title: "Read", FrequencyDays: everyDay, XPReward: 10}); err != nil {
		t.Fatal(err)
	}

	first, err := svc.Run(Input{Date: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Run(Input{Date: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}

	if first.HPLost != second.HPLost || first.XPEarned != second.XPEarned {
		t.Errorf("rerun diverged: %+v vs %+v", first, second)
	}
	p, err := db.Profile()
	if err != nil {
		t.Fatal(err)
	}
	if p.HP != 90 {
		t.Errorf("HP = %d after rerun, want 90 (charged once)", p.HP)
	}

	sums, err := db.Summaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 1 {
		t.Errorf("summaries = %d, want 1", len(sums))
	}
}

// A rerun after the user back-fills the missed habit must refund the HP
// and credit the XP: the previous run's effects are reversed, not
// stacked.
func TestRun_RerunReversesPreviousOutcome(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "read", Title: "Read", FrequencyDays: everyDay, XPReward: 10}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Run(Input{Date: "2026-01-10"}); err != nil {
		t.Fatal(err)
	}
	p, _ := db.Profile()
	if p.HP != 90 {
		t.Fatalf("HP after miss = %d, want 90", p.HP)
	}

	// User corrects the record
	if err := db.SetLogStatus("read", "2026-01-10", domain.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Run(Input{Date: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MissedHabits != 0 || res.XPEarned != 10 || res.HPLost != 0 {
		t.Errorf("corrected run = %+v", res)
	}

	p, _ = db.Profile()
	if p.HP != 100 {
		t.Errorf("HP = %d, want 100 (damage refunded)", p.HP)
	}
	if p.XP != 10 {
		t.Errorf("XP = %d, want 10", p.XP)
	}
}

func TestRun_LevelUpOnBigDay(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "epic", Title: "Epic", FrequencyDays: everyDay, XPReward: 120}); err != nil {
		t.Fatal(err)
	}
	if err := db.SetLogStatus("epic", "2026-01-10", domain.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Run(Input{Date: "2026-01-10"}); err != nil {
		t.Fatal(err)
	}
	p, err := db.Profile()
	if err != nil {
		t.Fatal(err)
	}
	// 120 XP crosses the level-1 threshold of 100
	if p.Level != 2 || p.XP != 20 {
		t.Errorf("profile = %+v, want level 2 with 20 XP", p)
	}
}

func TestRun_DemotionOnHPDeath(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveProfile(domain.Profile{Level: 3, XP: 0, HP: 10, MaxHP: 100, DayStartHour: 4}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveHabit(domain.Habit{ID: "read", Title: "Read", FrequencyDays: everyDay, XPReward: 10}); err != nil {
		t.Fatal(err)
	}

	// One missed habit: 10 damage kills the 10 HP
	if _, err := svc.Run(Input{Date: "2026-01-10"}); err != nil {
		t.Fatal(err)
	}
	p, _ := db.Profile()
	if p.Level != 2 || p.HP != 100 {
		t.Errorf("profile = %+v, want demotion to level 2 at full HP", p)
	}

	// Rerun with the same inputs is a no-op: no second demotion
	if _, err := svc.Run(Input{Date: "2026-01-10"}); err != nil {
		t.Fatal(err)
	}
	p, _ = db.Profile()
	if p.Level != 2 || p.HP != 100 {
		t.Errorf("profile after rerun = %+v, want stable level 2", p)
	}
}

// flakySummaryStore fails summary reads on demand while delegating
// everything else to the real store.
type flakySummaryStore struct {
	*sqlite.DB
	summaryErr error
}

func (f *flakySummaryStore) Summary(date string) (domain.DailySummary, error) {
	if f.summaryErr != nil {
		return domain.DailySummary{}, f.summaryErr
	}
	return f.DB.Summary(date)
}

// A failure loading the previous summary must abort the run. Treating
// it as "no prior run" would skip the reversal and charge the day's
// damage a second time.
func TestRun_AbortsWhenPreviousSummaryUnreadable(t *testing.T) {
	_, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "read", Title: "Read", FrequencyDays: everyDay, XPReward: 10}); err != nil {
		t.Fatal(err)
	}

	flaky := &flakySummaryStore{DB: db}
	clock := domain.Clock{
		DayStartHour: 4,
		Now:          func() time.Time { return time.Date(2026, 1, 10, 22, 0, 0, 0, time.UTC) },
	}
	svc := NewService(flaky, clock)

	if _, err := svc.Run(Input{Date: "2026-01-10"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	p, _ := db.Profile()
	if p.HP != 90 {
		t.Fatalf("HP after first run = %d, want 90", p.HP)
	}

	flaky.summaryErr = errors.New("disk I/O error")
	if _, err := svc.Run(Input{Date: "2026-01-10"}); err == nil {
		t.Fatal("rerun succeeded despite unreadable previous summary")
	}

	p, _ = db.Profile()
	if p.HP != 90 {
		t.Errorf("HP = %d after aborted rerun, want 90 (not double-charged)", p.HP)
	}
}

func TestRun_SkippedIsNotMissed(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "read", Title: "Read", FrequencyDays: everyDay, XPReward: 10}); err != nil {
		t.Fatal(err)
	}
	if err := db.SetLogStatus("read", "2026-01-10", domain.StatusSkipped); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Run(Input{Date: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MissedHabits != 0 || res.HPLost != 0 || res.XPEarned != 0 {
		t.Errorf("skipped day = %+v, want no damage and no xp", res)
	}
}

func TestRun_ResistanceHabitsNeverMissed(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveHabit(domain.Habit{ID: "nosugar", Title: "No sugar", IsBadHabit: true, XPReward: 10}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Run(Input{Date: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MissedHabits != 0 || res.HPLost != 0 {
		t.Errorf("resistance habit charged damage: %+v", res)
	}
	logs, _ := db.LogsForDate("2026-01-10")
	if len(logs) != 0 {
		t.Errorf("resistance habit got a log: %+v", logs)
	}
}

func TestRun_IncompleteTasksCostHP(t *testing.T) {
	svc, db := testService(t)
	for _, tk := range []domain.Task{
		{ID: "t1", Title: "Ship", Priority: domain.PriorityHigh, IsForToday: true},
		{ID: "t2", Title: "Call", Priority: domain.PriorityLow, IsForToday: true},
		{ID: "t3", Title: "Done", Priority: domain.PriorityLow, IsForToday: true, Completed: true},
	} {
		if err := db.SaveTask(tk); err != nil {
			t.Fatal(err)
		}
	}

	res, err := svc.Run(Input{Date: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if res.IncompleteTasks != 2 || res.HPLost != 10 {
		t.Errorf("result = %+v, want 2 incomplete tasks costing 10 HP", res)
	}
}

func TestRun_DefaultsToLogicalToday(t *testing.T) {
	svc, db := testService(t)
	res, err := svc.Run(Input{})
	if err != nil {
		t.Fatal(err)
	}
	// Clock fixture: 22:00 on Jan 10, after the 4 AM boundary
	if res.Date != "2026-01-10" {
		t.Errorf("date = %s, want 2026-01-10", res.Date)
	}
	if _, err := db.Summary("2026-01-10"); err != nil {
		t.Errorf("summary missing: %v", err)
	}
}

func TestRun_RejectsBadDate(t *testing.T) {
	svc, _ := testService(t)
	if _, err := svc.Run(Input{Date: "10-01-2026"}); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

// ─── Recalculation ──────────────────────────────────────────────────────────

func TestRecalculate_FromSummaries(t *testing.T) {
	svc, db := testService(t)
	for _, s := range []domain.DailySummary{
		{Date: "2026-01-08", XPEarned: 60},
		{Date: "2026-01-09", XPEarned: 90},
		{Date: "2026-01-10", XPEarned: 65},
	} {
		if err := db.SaveSummary(s); err != nil {
			t.Fatal(err)
		}
	}

	res, err := svc.Recalculate()
	if err != nil {
		t.Fatal(err)
	}
	// 215 total: level 1 costs 100, level 2 costs 110, 5 left over
	if res.TotalXP != 215 || !res.Changed {
		t.Errorf("result = %+v", res)
	}
	if res.Profile.Level != 3 || res.Profile.XP != 5 {
		t.Errorf("profile = %+v, want level 3 with 5 XP", res.Profile)
	}
}

func TestRecalculate_NoWriteWhenUnchanged(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveSummary(domain.DailySummary{Date: "2026-01-10", XPEarned: 50}); err != nil {
		t.Fatal(err)
	}

	first, err := svc.Recalculate()
	if err != nil {
		t.Fatal(err)
	}
	if !first.Changed {
		t.Errorf("first recalc should change the default profile")
	}
	second, err := svc.Recalculate()
	if err != nil {
		t.Fatal(err)
	}
	if second.Changed {
		t.Errorf("second recalc reported a change with identical inputs")
	}
}

// Recalculation overrides HP-death demotions: level is a pure function
// of lifetime XP afterwards.
func TestRecalculate_OverridesDemotion(t *testing.T) {
	svc, db := testService(t)
	if err := db.SaveProfile(domain.Profile{Level: 1, XP: 0, HP: 40, MaxHP: 100, DayStartHour: 4}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSummary(domain.DailySummary{Date: "2026-01-10", XPEarned: 215}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Recalculate()
	if err != nil {
		t.Fatal(err)
	}
	if res.Profile.Level != 3 {
		t.Errorf("level = %d, want 3", res.Profile.Level)
	}
	if res.Profile.HP != 40 {
		t.Errorf("HP = %d, recalculation must not touch HP", res.Profile.HP)
	}
}

func TestApplyXPDelta(t *testing.T) {
	tests := []struct {
		level, xp, delta  int
		wantLevel, wantXP int
	}{
		{1, 0, 50, 1, 50},
		{1, 90, 20, 2, 10},  // crosses the 100 threshold
		{1, 0, 210, 3, 0},   // two levels at once
		{2, 10, -20, 1, 90}, // reversal crosses back down
		{1, 5, -20, 1, 0},   // floor at level 1, 0 XP
	}
	for _, tt := range tests {
		level, xp := applyXPDelta(tt.level, tt.xp, tt.delta)
		if level != tt.wantLevel || xp != tt.wantXP {
			t.Errorf("applyXPDelta(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.level, tt.xp, tt.delta, level, xp, tt.wantLevel, tt.wantXP)
		}
	}
}
