// Package review implements the nightly review and the profile
// recalculation: the only two places where habit history mutates the
// character sheet.
package review

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/lifeos-sh/lifeos/internal/app/gamification"
	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/metrics"
)

// Store is the persistence the review needs. *sqlite.DB satisfies it.
type Store interface {
	Profile() (domain.Profile, error)
	SaveProfile(domain.Profile) error
	Habits(includeArchived bool) ([]domain.Habit, error)
	LogsForDate(date string) ([]domain.HabitLog, error)
	SetLogStatus(habitID, date string, status domain.Status) error
	IncompleteTodayTasks() (int, error)
	Summary(date string) (domain.DailySummary, error)
	SaveSummary(domain.DailySummary) error
	TotalXPEarned() (int, error)
}

// Service runs reviews. Reviews for the same date are serialized by a
// per-date mutex so a double-submitted review cannot interleave its
// read-modify-write on the profile.
type Service struct {
	store Store
	clock domain.Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a review service over the given store and clock.
func NewService(store Store, clock domain.Clock) *Service {
	return &Service{
		store: store,
		clock: clock,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) dateLock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[date]
	if !ok {
		l = &sync.Mutex{}
		s.locks[date] = l
	}
	return l
}

// Input is one review submission. An empty Date means the logical
// today from the service clock.
type Input struct {
	Date      string
	MoodScore int
	Notes     string
}

// Result reports what one review run computed and the profile after it.
type Result struct {
	Date            string         `json:"date"`
	XPEarned        int            `json:"xp_earned"`
	HPLost          int            `json:"hp_lost"`
	MissedHabits    int            `json:"missed_habits"`
	IncompleteTasks int            `json:"incomplete_tasks"`
	Profile         domain.Profile `json:"profile"`
}

// Run executes the nightly review for one logical date:
//
//  1. Every due habit left unset is marked missed.
//  2. The day's XP is summed from its logs and the HP cost from its
//     missed habits plus incomplete for-today tasks.
//  3. The daily summary is upserted and the profile adjusted.
//
// Reruns are safe: the previous summary's xp_earned/hp_lost are
// reversed out of the profile before the fresh values are applied, and
// an unchanged outcome skips the profile write entirely.
func (s *Service) Run(in Input) (Result, error) {
	date := in.Date
	if date == "" {
		date = s.clock.Today()
	}
	if _, err := domain.ParseDate(date); err != nil {
		return Result{}, err
	}

	l := s.dateLock(date)
	l.Lock()
	defer l.Unlock()

	habits, err := s.store.Habits(false)
	if err != nil {
		return Result{}, fmt.Errorf("list habits: %w", err)
	}
	logs, err := s.store.LogsForDate(date)
	if err != nil {
		return Result{}, fmt.Errorf("load logs: %w", err)
	}

	byHabit := make(map[string]domain.HabitLog, len(logs))
	for _, lg := range logs {
		byHabit[lg.HabitID] = lg
	}

	// Due habits the user never touched are retroactively missed.
	missed := 0
	for _, h := range habits {
		if !h.DueOn(date) {
			continue
		}
		lg, ok := byHabit[h.ID]
		if !ok {
			if err := s.store.SetLogStatus(h.ID, date, domain.StatusMissed); err != nil {
				return Result{}, fmt.Errorf("mark missed: %w", err)
			}
			byHabit[h.ID] = domain.HabitLog{HabitID: h.ID, Date: date, Status: domain.StatusMissed}
			missed++
		} else if lg.Status == domain.StatusMissed {
			missed++
		}
	}

	habitByID := make(map[string]domain.Habit, len(habits))
	for _, h := range habits {
		habitByID[h.ID] = h
	}
	xpEarned := 0
	for _, lg := range byHabit {
		if h, ok := habitByID[lg.HabitID]; ok {
			xpEarned += h.XPForStatus(lg.Status)
		}
	}

	incomplete, err := s.store.IncompleteTodayTasks()
	if err != nil {
		return Result{}, fmt.Errorf("count tasks: %w", err)
	}
	hpLost := gamification.HPDamage(missed, incomplete)

	// Previous run for this date, if any: its effects get reversed
	// before the fresh ones apply. Only a confirmed absence counts as
	// a first run; any other failure aborts, because proceeding
	// without the reversal would charge the day's damage twice.
	prevXP, prevHP := 0, 0
	hadPrev := false
	prev, err := s.store.Summary(date)
	switch {
	case err == nil:
		prevXP, prevHP = prev.XPEarned, prev.HPLost
		hadPrev = true
	case !errors.Is(err, domain.ErrSummaryNotFound):
		return Result{}, fmt.Errorf("load previous summary: %w", err)
	}

	if err := s.store.SaveSummary(domain.DailySummary{
		Date:      date,
		MoodScore: in.MoodScore,
		Notes:     in.Notes,
		XPEarned:  xpEarned,
		HPLost:    hpLost,
	}); err != nil {
		return Result{}, fmt.Errorf("save summary: %w", err)
	}

	profile, err := s.store.Profile()
	if err != nil {
		return Result{}, fmt.Errorf("load profile: %w", err)
	}

	// Unchanged outcome on a rerun: nothing to re-apply. This keeps a
	// demotion from an earlier run stable across reruns.
	if hadPrev && prevXP == xpEarned && prevHP == hpLost {
		log.Printf("[review] %s: rerun unchanged (xp=%d hp=-%d)", date, xpEarned, hpLost)
		return s.result(date, xpEarned, hpLost, missed, incomplete, profile), nil
	}

	level, xp := applyXPDelta(profile.Level, profile.XP, xpEarned-prevXP)

	hp := profile.HP + prevHP
	if hp > profile.MaxHP {
		hp = profile.MaxHP
	}
	dmg := gamification.ApplyDamage(level, hp, hpLost)

	profile.Level = dmg.Level
	profile.XP = xp
	profile.HP = dmg.HP
	profile.MaxHP = dmg.MaxHP
	if err := s.store.SaveProfile(profile); err != nil {
		return Result{}, fmt.Errorf("save profile: %w", err)
	}

	metrics.ReviewsRun.Inc()
	metrics.ReviewXPEarned.Add(float64(xpEarned))
	metrics.ReviewHPLost.Add(float64(hpLost))
	metrics.ProfileLevel.Set(float64(profile.Level))
	metrics.ProfileHP.Set(float64(profile.HP))
	log.Printf("[review] %s: xp=%d hp=-%d missed=%d tasks=%d -> level %d, %d HP",
		date, xpEarned, hpLost, missed, incomplete, profile.Level, profile.HP)

	return s.result(date, xpEarned, hpLost, missed, incomplete, profile), nil
}

func (s *Service) result(date string, xp, hp, missed, tasks int, p domain.Profile) Result {
	return Result{
		Date: date, XPEarned: xp, HPLost: hp,
		MissedHabits: missed, IncompleteTasks: tasks, Profile: p,
	}
}

// applyXPDelta shifts in-level XP by delta, carrying level-ups forward
// and level-downs backward. XP never goes below 0 at level 1.
func applyXPDelta(level, xp, delta int) (int, int) {
	xp += delta
	for level < gamification.MaxLevel && xp >= gamification.LevelThreshold(level) {
		xp -= gamification.LevelThreshold(level)
		level++
	}
	for xp < 0 && level > 1 {
		level--
		xp += gamification.LevelThreshold(level)
	}
	if xp < 0 {
		xp = 0
	}
	return level, xp
}

// ─── Recalculation ──────────────────────────────────────────────────────────

// RecalcResult reports a profile recalculation.
type RecalcResult struct {
	TotalXP int            `json:"total_xp"`
	Changed bool           `json:"changed"`
	Profile domain.Profile `json:"profile"`
}

// Recalculate rebuilds level and in-level XP from the summed xp_earned
// of every daily summary, discarding the cached pair. HP is untouched.
// The write is skipped when the derived values already match, so
// repeated recalculations are no-ops.
func (s *Service) Recalculate() (RecalcResult, error) {
	total, err := s.store.TotalXPEarned()
	if err != nil {
		return RecalcResult{}, fmt.Errorf("sum xp: %w", err)
	}
	level, xp := gamification.LevelFromTotalXP(total)

	profile, err := s.store.Profile()
	if err != nil {
		return RecalcResult{}, fmt.Errorf("load profile: %w", err)
	}

	if profile.Level == level && profile.XP == xp {
		return RecalcResult{TotalXP: total, Changed: false, Profile: profile}, nil
	}

	log.Printf("[review] recalculate: total=%d, level %d/%d xp -> level %d/%d xp",
		total, profile.Level, profile.XP, level, xp)
	profile.Level = level
	profile.XP = xp
	if err := s.store.SaveProfile(profile); err != nil {
		return RecalcResult{}, fmt.Errorf("save profile: %w", err)
	}

	metrics.Recalculations.Inc()
	metrics.ProfileLevel.Set(float64(profile.Level))
	return RecalcResult{TotalXP: total, Changed: true, Profile: profile}, nil
}
