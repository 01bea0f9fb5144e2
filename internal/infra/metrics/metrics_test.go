package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestReviewMetrics(t *testing.T) {
	ReviewsRun.Inc()
	ReviewXPEarned.Add(30)
	ReviewHPLost.Add(10)
	Recalculations.Inc()

	names := gatheredNames(t)
	for _, name := range []string{
		"lifeos_reviews_run_total",
		"lifeos_review_xp_earned_total",
		"lifeos_review_hp_lost_total",
		"lifeos_recalculations_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestHabitAndProfileMetrics(t *testing.T) {
	LogsRecorded.WithLabelValues("completed").Inc()
	LogsRecorded.WithLabelValues("partial").Inc()
	HabitsActive.Set(5)
	ProfileLevel.Set(12)
	ProfileHP.Set(80)

	names := gatheredNames(t)
	for _, name := range []string{
		"lifeos_habit_logs_recorded_total",
		"lifeos_habits_active",
		"lifeos_profile_level",
		"lifeos_profile_hp",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestTransferMetrics(t *testing.T) {
	ImportRowsApplied.WithLabelValues("habits").Inc()
	ImportRowsSkipped.WithLabelValues("habit_logs").Inc()
	Exports.WithLabelValues("csv").Inc()

	names := gatheredNames(t)
	for _, name := range []string{
		"lifeos_import_rows_applied_total",
		"lifeos_import_rows_skipped_total",
		"lifeos_exports_total",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	count := 0
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "lifeos_") {
			count++
		}
	}
	if count < 10 {
		t.Errorf("expected at least 10 lifeos_ metric families, got %d", count)
	}
}
