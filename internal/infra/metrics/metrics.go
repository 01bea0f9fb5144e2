// Package metrics provides Prometheus metrics for Life OS: counters and
// gauges for habit logging, nightly reviews, HP damage, and data
// transfer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Habit logging ──────────────────────────────────────────────────────────

// LogsRecorded tracks habit log writes by resulting status.
var LogsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "habit_logs_recorded_total",
	Help:      "Total habit log status writes by status.",
}, []string{"status"})

// HabitsActive tracks the number of non-archived habits.
var HabitsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "lifeos",
	Name:      "habits_active",
	Help:      "Number of active (non-archived) habits.",
})

// ─── Nightly review ─────────────────────────────────────────────────────────

// ReviewsRun tracks completed nightly reviews, including reruns.
var ReviewsRun = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "reviews_run_total",
	Help:      "Total nightly reviews executed.",
})

// ReviewXPEarned tracks XP credited by reviews.
var ReviewXPEarned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "review_xp_earned_total",
	Help:      "Total XP credited by nightly reviews.",
})

// ReviewHPLost tracks HP charged by reviews.
var ReviewHPLost = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "review_hp_lost_total",
	Help:      "Total HP charged by nightly reviews.",
})

// Recalculations tracks full profile recalculations.
var Recalculations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "recalculations_total",
	Help:      "Total profile recalculations from summary history.",
})

// ─── Character ──────────────────────────────────────────────────────────────

// ProfileLevel tracks the character's current level.
var ProfileLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "lifeos",
	Name:      "profile_level",
	Help:      "Current character level.",
})

// ProfileHP tracks the character's current HP.
var ProfileHP = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "lifeos",
	Name:      "profile_hp",
	Help:      "Current character HP.",
})

// ─── Import / export ────────────────────────────────────────────────────────

// ImportRowsApplied tracks imported records by section.
var ImportRowsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "import_rows_applied_total",
	Help:      "Total imported records by archive section.",
}, []string{"section"})

// ImportRowsSkipped tracks malformed import rows dropped with a warning.
var ImportRowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "import_rows_skipped_total",
	Help:      "Total malformed import rows skipped.",
}, []string{"section"})

// Exports tracks archive exports by format.
var Exports = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lifeos",
	Name:      "exports_total",
	Help:      "Total archive exports by format.",
}, []string{"format"})
