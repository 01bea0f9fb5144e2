package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Habit errors
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidHabit  = errors.New("invalid habit definition")
	ErrInvalidStatus = errors.New("invalid habit log status")

	// Task errors
	ErrTaskNotFound = errors.New("task not found")

	// Summary errors
	ErrSummaryNotFound = errors.New("daily summary not found")

	// Import/export errors
	ErrBadArchive        = errors.New("archive missing required fields")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
