// Package domain defines the Life OS data model: habits, logs, the
// profile, daily summaries, and the logical-day clock shared by every
// engine. All derived numbers (level, rank, streak, mastery) are computed
// from these records on demand — the engines never read wall-clock time
// or touch storage themselves.
package domain

import "time"

// DateFormat is the canonical calendar-date layout used everywhere:
// storage keys, the wire archive, and engine inputs.
const DateFormat = "2006-01-02"

// DefaultDayStartHour is when a new logical day begins if the profile
// does not say otherwise. Life OS days roll over at 4 AM, not midnight,
// so a 1 AM log still counts toward the previous evening.
const DefaultDayStartHour = 4

// Clock resolves wall-clock instants to logical calendar dates.
// It is passed explicitly into every computation that needs "today",
// which keeps the engines deterministic and testable without time mocks.
type Clock struct {
	DayStartHour int // 0-23
	Now          func() time.Time
}

// NewClock creates a clock with the given day-start hour.
func NewClock(dayStartHour int) Clock {
	return Clock{DayStartHour: dayStartHour, Now: time.Now}
}

// LogicalDate maps an instant to its logical calendar date. Instants
// before the day-start hour belong to the previous day.
func (c Clock) LogicalDate(t time.Time) string {
	if t.Hour() < c.DayStartHour {
		t = t.AddDate(0, 0, -1)
	}
	return t.Format(DateFormat)
}

// Today returns the current logical date.
func (c Clock) Today() string {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return c.LogicalDate(now())
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// AddDays shifts an ISO date by n calendar days. Invalid input returns
// the empty string; callers validate dates before arithmetic.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(DateFormat)
}

// WeekdayOf returns the weekday index (Sunday=0) of an ISO date.
func WeekdayOf(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// DateRange returns the n dates ending at end, inclusive, ascending.
func DateRange(end string, n int) []string {
	if n <= 0 {
		return nil
	}
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, AddDays(end, -i))
	}
	return dates
}
