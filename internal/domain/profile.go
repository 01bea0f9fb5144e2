package domain

// MaxHP is the HP ceiling. There is no max-HP growth across levels.
const MaxHP = 100

// Profile is the single per-user character sheet. XP is the amount
// accumulated WITHIN the current level, not a lifetime total — the
// lifetime figure is the sum of DailySummary.XPEarned and the cached
// level/xp pair is periodically reconciled against it.
type Profile struct {
	Level        int `json:"level"`
	XP           int `json:"xp"`
	HP           int `json:"hp"`
	MaxHP        int `json:"max_hp"`
	DayStartHour int `json:"day_start_hour"`
}

// DefaultProfile returns a fresh level-1 character.
func DefaultProfile() Profile {
	return Profile{
		Level:        1,
		XP:           0,
		HP:           MaxHP,
		MaxHP:        MaxHP,
		DayStartHour: DefaultDayStartHour,
	}
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Task is a one-off todo. Unlike habits, tasks have no recurrence;
// an incomplete for-today task costs HP at the nightly review.
type Task struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Priority    TaskPriority `json:"priority"`
	Completed   bool         `json:"completed"`
	CompletedAt string       `json:"completed_at,omitempty"`
	IsForToday  bool         `json:"is_for_today"`
	DueDate     string       `json:"due_date,omitempty"`
	Archived    bool         `json:"archived"`
}

// DailySummary is the per-date review record: exactly one per logical
// date, upserted on conflict. XPEarned and HPLost are what the nightly
// review computed for that day.
type DailySummary struct {
	Date      string `json:"date"`
	MoodScore int    `json:"mood_score,omitempty"`
	Notes     string `json:"notes,omitempty"`
	XPEarned  int    `json:"xp_earned"`
	HPLost    int    `json:"hp_lost"`
}

// MetricLog is a free-form numeric measurement (steps, sleep hours)
// for one date. Carried through import/export untouched.
type MetricLog struct {
	MetricID string  `json:"metric_id"`
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
}
