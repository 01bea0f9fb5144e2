package sqlite

import (
	"errors"
	"testing"

	"github.com/lifeos-sh/lifeos/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAndMigrate(t *testing.T) {
	db := testDB(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestProfile_DefaultOnFirstAccess(t *testing.T) {
	db := testDB(t)
	p, err := db.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Level != 1 || p.HP != 100 || p.MaxHP != 100 || p.DayStartHour != 4 {
		t.Errorf("default profile = %+v", p)
	}
}

func TestProfile_SaveAndReload(t *testing.T) {
	db := testDB(t)
	p := domain.Profile{Level: 12, XP: 42, HP: 77, MaxHP: 100, DayStartHour: 5}
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.Profile()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got != p {
		t.Errorf("reloaded %+v, want %+v", got, p)
	}
}

func TestHabit_SaveAndGet(t *testing.T) {
	db := testDB(t)
	h := domain.Habit{
		ID: "h1", Title: "Read", Description: "20 pages",
		FrequencyDays: []int{1, 3, 5}, SortOrder: 2, XPReward: 15,
	}
	if err := db.SaveHabit(h); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.Habit("h1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Read" || got.XPReward != 15 {
		t.Errorf("got %+v", got)
	}
	if len(got.FrequencyDays) != 3 || got.FrequencyDays[1] != 3 {
		t.Errorf("frequency days = %v, want [1 3 5]", got.FrequencyDays)
	}
}

func TestHabit_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Habit("nope")
	if !errors.Is(err, domain.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
}

func TestHabit_InvalidRejected(t *testing.T) {
	db := testDB(t)
	err := db.SaveHabit(domain.Habit{ID: "h1", Title: "", XPReward: 10})
	if !errors.Is(err, domain.ErrInvalidHabit) {
		t.Errorf("err = %v, want ErrInvalidHabit", err)
	}
}

func TestHabit_ByTitle(t *testing.T) {
	db := testDB(t)
	if err := db.SaveHabit(domain.Habit{ID: "h1", Title: "Gym", XPReward: 10}); err != nil {
		t.Fatal(err)
	}
	got, err := db.HabitByTitle("Gym")
	if err != nil {
		t.Fatalf("by title: %v", err)
	}
	if got.ID != "h1" {
		t.Errorf("id = %s, want h1", got.ID)
	}
}

func TestHabits_ArchiveFiltering(t *testing.T) {
	db := testDB(t)
	for _, h := range []domain.Habit{
		{ID: "a", Title: "Active", SortOrder: 1, XPReward: 10},
		{ID: "b", Title: "Old", SortOrder: 0, XPReward: 10},
	} {
		if err := db.SaveHabit(h); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.ArchiveHabit("b"); err != nil {
		t.Fatalf("archive: %v", err)
	}

	active, err := db.Habits(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != "a" {
		t.Errorf("active habits = %+v", active)
	}

	all, err := db.Habits(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all habits = %d, want 2", len(all))
	}
	// SortOrder 0 first
	if all[0].ID != "b" {
		t.Errorf("sort order not honored: %+v", all)
	}
}

func TestArchiveHabit_NotFound(t *testing.T) {
	db := testDB(t)
	if err := db.ArchiveHabit("ghost"); !errors.Is(err, domain.ErrHabitNotFound) {
		t.Errorf("err = %v, want ErrHabitNotFound", err)
	}
}

func TestSetLogStatus_UpsertAndClear(t *testing.T) {
	db := testDB(t)
	if err := db.SaveHabit(domain.Habit{ID: "h1", Title: "Read", XPReward: 10}); err != nil {
		t.Fatal(err)
	}

	if err := db.SetLogStatus("h1", "2026-01-10", domain.StatusCompleted); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Same key again cycles to partial: one row, new status
	if err := db.SetLogStatus("h1", "2026-01-10", domain.StatusPartial); err != nil {
		t.Fatalf("update: %v", err)
	}
	logs, err := db.LogsForDate("2026-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Status != domain.StatusPartial {
		t.Errorf("logs = %+v", logs)
	}

	// Clearing back to unset removes the row entirely
	if err := db.SetLogStatus("h1", "2026-01-10", domain.StatusNone); err != nil {
		t.Fatalf("clear: %v", err)
	}
	logs, err = db.LogsForDate("2026-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Errorf("cleared log still present: %+v", logs)
	}
}

func TestSetLogStatus_InvalidStatus(t *testing.T) {
	db := testDB(t)
	err := db.SetLogStatus("h1", "2026-01-10", domain.Status("bogus"))
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestLogsInRange(t *testing.T) {
	db := testDB(t)
	if err := db.SaveHabit(domain.Habit{ID: "h1", Title: "Read", XPReward: 10}); err != nil {
		t.Fatal(err)
	}
	for _, date := range []string{"2026-01-08", "2026-01-09", "2026-01-10", "2026-01-11"} {
		if err := db.SetLogStatus("h1", date, domain.StatusCompleted); err != nil {
			t.Fatal(err)
		}
	}
	logs, err := db.LogsInRange("2026-01-09", "2026-01-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 || logs[0].Date != "2026-01-09" || logs[1].Date != "2026-01-10" {
		t.Errorf("range logs = %+v", logs)
	}
}

func TestTasks_SaveListCount(t *testing.T) {
	db := testDB(t)
	tasks := []domain.Task{
		{ID: "t1", Title: "Ship release", Priority: domain.PriorityHigh, IsForToday: true},
		{ID: "t2", Title: "Water plants", Priority: domain.PriorityLow, IsForToday: true, Completed: true, CompletedAt: "2026-01-10"},
		{ID: "t3", Title: "Someday", Priority: domain.PriorityMedium},
	}
	for _, tk := range tasks {
		if err := db.SaveTask(tk); err != nil {
			t.Fatalf("save %s: %v", tk.ID, err)
		}
	}

	got, err := db.Tasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("tasks = %d, want 3", len(got))
	}
	// For-today first, high priority before low
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("ordering = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[1].CompletedAt != "2026-01-10" {
		t.Errorf("completed_at = %q", got[1].CompletedAt)
	}

	n, err := db.IncompleteTodayTasks()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("incomplete today = %d, want 1", n)
	}
}

func TestTask_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Task("ghost")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestSummary_UpsertOnePerDate(t *testing.T) {
	db := testDB(t)
	if err := db.SaveSummary(domain.DailySummary{Date: "2026-01-10", XPEarned: 30, HPLost: 10}); err != nil {
		t.Fatal(err)
	}
	// Rerun for the same date replaces, never duplicates
	if err := db.SaveSummary(domain.DailySummary{Date: "2026-01-10", XPEarned: 35, HPLost: 5, MoodScore: 4}); err != nil {
		t.Fatal(err)
	}

	all, err := db.Summaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("summaries = %d, want 1", len(all))
	}
	if all[0].XPEarned != 35 || all[0].HPLost != 5 || all[0].MoodScore != 4 {
		t.Errorf("summary = %+v", all[0])
	}
}

func TestSummary_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Summary("2026-01-10")
	if !errors.Is(err, domain.ErrSummaryNotFound) {
		t.Errorf("err = %v, want ErrSummaryNotFound", err)
	}
}

func TestTotalXPEarned(t *testing.T) {
	db := testDB(t)
	total, err := db.TotalXPEarned()
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("empty total = %d, want 0", total)
	}
	for i, s := range []domain.DailySummary{
		{Date: "2026-01-08", XPEarned: 20},
		{Date: "2026-01-09", XPEarned: 30},
		{Date: "2026-01-10", XPEarned: 15},
	} {
		if err := db.SaveSummary(s); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	total, err = db.TotalXPEarned()
	if err != nil {
		t.Fatal(err)
	}
	if total != 65 {
		t.Errorf("total = %d, want 65", total)
	}
}

func TestMetricLogs_RoundTrip(t *testing.T) {
	db := testDB(t)
	m := domain.MetricLog{MetricID: "sleep", Date: "2026-01-10", Value: 7.5}
	if err := db.SaveMetricLog(m); err != nil {
		t.Fatal(err)
	}
	// Upsert replaces the same (metric, date)
	m.Value = 8.0
	if err := db.SaveMetricLog(m); err != nil {
		t.Fatal(err)
	}
	got, err := db.MetricLogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Value != 8.0 {
		t.Errorf("metric logs = %+v", got)
	}
}
