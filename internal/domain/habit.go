package domain

import "fmt"

// XP constants. A habit's own XPReward overrides the base value;
// partial completions always earn half, rounded down.
const (
	DefaultXPReward = 10

	HPPerMissedHabit    = 10
	HPPerIncompleteTask = 5
)

// Status is the state of one habit on one logical day.
// The empty string means unset: the user has not touched the habit yet.
type Status string

const (
	StatusNone      Status = ""
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusSkipped   Status = "skipped"
	StatusMissed    Status = "missed"
)

// ValidStatus reports whether s is a known log status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNone, StatusCompleted, StatusPartial, StatusSkipped, StatusMissed:
		return true
	}
	return false
}

// NextStatus advances a habit-log status one step through its cycle.
// Normal habits: unset → completed → partial → skipped → unset.
// Resistance habits toggle: unset → completed (resisted) → unset.
// "missed" is never reachable by user action — it is assigned
// retrospectively by the nightly review for days that were due but
// left unset.
func NextStatus(current Status, isBadHabit bool) Status {
	if isBadHabit {
		if current == StatusNone {
			return StatusCompleted
		}
		return StatusNone
	}

	switch current {
	case StatusNone:
		return StatusCompleted
	case StatusCompleted:
		return StatusPartial
	case StatusPartial:
		return StatusSkipped
	default:
		return StatusNone
	}
}

// Habit is a tracked behavior. FrequencyDays holds the weekday indices
// (Sunday=0) on which the habit is due. A resistance ("bad") habit is
// completed by NOT doing it. Habits are archived, never deleted, once
// log history references them.
type Habit struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	FrequencyDays []int  `json:"frequency_days"`
	SortOrder     int    `json:"sort_order"`
	Archived      bool   `json:"archived"`
	IsBadHabit    bool   `json:"is_bad_habit"`
	XPReward      int    `json:"xp_reward"`
}

// Validate checks the static invariants of a habit definition.
// Out-of-range weekday indices indicate corrupt data, not user noise,
// and fail loudly.
func (h Habit) Validate() error {
	if h.Title == "" {
		return fmt.Errorf("habit %s: %w: empty title", h.ID, ErrInvalidHabit)
	}
	if h.XPReward < 0 {
		return fmt.Errorf("habit %q: %w: negative xp_reward %d", h.Title, ErrInvalidHabit, h.XPReward)
	}
	seen := [7]bool{}
	for _, d := range h.FrequencyDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("habit %q: %w: weekday index %d out of range", h.Title, ErrInvalidHabit, d)
		}
		if seen[d] {
			return fmt.Errorf("habit %q: %w: duplicate weekday index %d", h.Title, ErrInvalidHabit, d)
		}
		seen[d] = true
	}
	return nil
}

// DueOn reports whether the habit is due on the given logical date.
// Resistance habits are never "due" — missing them costs nothing.
func (h Habit) DueOn(date string) bool {
	if h.IsBadHabit || h.Archived {
		return false
	}
	wd, err := WeekdayOf(date)
	if err != nil {
		return false
	}
	for _, d := range h.FrequencyDays {
		if d == wd {
			return true
		}
	}
	return false
}

// Reward returns the habit's XP reward, falling back to the default.
func (h Habit) Reward() int {
	if h.XPReward > 0 {
		return h.XPReward
	}
	return DefaultXPReward
}

// XPForStatus returns the XP a log status earns for this habit.
// Resisting a bad habit pays the full reward; skipped and missed
// days earn nothing.
func (h Habit) XPForStatus(s Status) int {
	switch s {
	case StatusCompleted:
		return h.Reward()
	case StatusPartial:
		if h.IsBadHabit {
			return 0
		}
		return h.Reward() / 2
	default:
		return 0
	}
}

// HabitLog records the status of one habit on one logical date.
// At most one log exists per (habit, date) pair.
type HabitLog struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
	Status  Status `json:"status"`
}
