// Package transfer implements backup and restore: a versioned JSON
// archive plus a sectioned CSV rendition of the same data. Import is
// forgiving — malformed records are skipped with a warning rather than
// failing the whole restore.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/metrics"
)

// ArchiveVersion is the wire version this build reads and writes.
const ArchiveVersion = "1.0"

// Archive is the complete backup payload.
type Archive struct {
	Version    string                `json:"version"`
	ExportedAt string                `json:"exported_at,omitempty"`
	Profile    *domain.Profile       `json:"profile"`
	Habits     []domain.Habit        `json:"habits"`
	HabitLogs  []domain.HabitLog     `json:"habit_logs"`
	Tasks      []domain.Task         `json:"tasks"`
	Summaries  []domain.DailySummary `json:"daily_summaries"`
	Metrics    []domain.MetricLog    `json:"metric_logs"`
}

// Store is the persistence surface transfer reads and writes.
// *sqlite.DB satisfies it.
type Store interface {
	Profile() (domain.Profile, error)
	SaveProfile(domain.Profile) error
	Habits(includeArchived bool) ([]domain.Habit, error)
	SaveHabit(domain.Habit) error
	AllLogs() ([]domain.HabitLog, error)
	LogsInRange(from, to string) ([]domain.HabitLog, error)
	SetLogStatus(habitID, date string, status domain.Status) error
	Tasks() ([]domain.Task, error)
	SaveTask(domain.Task) error
	Summaries() ([]domain.DailySummary, error)
	SaveSummary(domain.DailySummary) error
	MetricLogs() ([]domain.MetricLog, error)
	SaveMetricLog(domain.MetricLog) error
}

// ExportOptions narrows the exported history. Empty bounds mean
// everything; habits, tasks, and the profile are always included in
// full since they are definitions, not history.
type ExportOptions struct {
	From string
	To   string
}

func (o ExportOptions) includes(date string) bool {
	if o.From != "" && date < o.From {
		return false
	}
	if o.To != "" && date > o.To {
		return false
	}
	return true
}

// Export reads the full state into an archive.
func Export(store Store, opts ExportOptions) (Archive, error) {
	a := Archive{
		Version:    ArchiveVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	profile, err := store.Profile()
	if err != nil {
		return a, fmt.Errorf("export profile: %w", err)
	}
	a.Profile = &profile

	if a.Habits, err = store.Habits(true); err != nil {
		return a, fmt.Errorf("export habits: %w", err)
	}

	logs, err := store.AllLogs()
	if err != nil {
		return a, fmt.Errorf("export logs: %w", err)
	}
	for _, l := range logs {
		if opts.includes(l.Date) {
			a.HabitLogs = append(a.HabitLogs, l)
		}
	}

	if a.Tasks, err = store.Tasks(); err != nil {
		return a, fmt.Errorf("export tasks: %w", err)
	}

	summaries, err := store.Summaries()
	if err != nil {
		return a, fmt.Errorf("export summaries: %w", err)
	}
	for _, s := range summaries {
		if opts.includes(s.Date) {
			a.Summaries = append(a.Summaries, s)
		}
	}

	mlogs, err := store.MetricLogs()
	if err != nil {
		return a, fmt.Errorf("export metrics: %w", err)
	}
	for _, m := range mlogs {
		if opts.includes(m.Date) {
			a.Metrics = append(a.Metrics, m)
		}
	}

	return a, nil
}

// Report summarizes one import: how many records landed per section
// and the human-readable warnings for everything skipped.
type Report struct {
	Habits    int      `json:"habits"`
	HabitLogs int      `json:"habit_logs"`
	Tasks     int      `json:"tasks"`
	Summaries int      `json:"summaries"`
	Metrics   int      `json:"metrics"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (r *Report) warnf(section, format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
	metrics.ImportRowsSkipped.WithLabelValues(section).Inc()
}

// Import applies an archive to the store. Existing records with the
// same key are overwritten; logs that reference a habit the archive
// does not define are skipped. Archive habit IDs are not trusted —
// each habit is matched to an existing one by title or assigned a
// fresh ID, and logs are rewritten accordingly.
func Import(store Store, a Archive) (Report, error) {
	var rep Report
	if a.Version == "" {
		return rep, fmt.Errorf("no version field: %w", domain.ErrBadArchive)
	}
	if a.Version != ArchiveVersion {
		return rep, fmt.Errorf("archive version %q: %w", a.Version, domain.ErrUnsupportedFormat)
	}

	if a.Profile != nil {
		p := *a.Profile
		if p.Level < 1 {
			p.Level = 1
		}
		if p.MaxHP <= 0 {
			p.MaxHP = domain.MaxHP
		}
		if p.HP < 1 || p.HP > p.MaxHP {
			p.HP = p.MaxHP
		}
		if err := store.SaveProfile(p); err != nil {
			return rep, fmt.Errorf("import profile: %w", err)
		}
	}

	existing, err := store.Habits(true)
	if err != nil {
		return rep, fmt.Errorf("list habits: %w", err)
	}
	idByTitle := make(map[string]string, len(existing))
	for _, h := range existing {
		idByTitle[h.Title] = h.ID
	}

	// Archive habit ID -> stored habit ID
	idMap := make(map[string]string, len(a.Habits))
	for _, h := range a.Habits {
		archiveID := h.ID
		if id, ok := idByTitle[h.Title]; ok {
			h.ID = id
		} else {
			h.ID = uuid.NewString()
		}
		if err := h.Validate(); err != nil {
			rep.warnf("habits", "habit %q skipped: %v", h.Title, err)
			continue
		}
		if err := store.SaveHabit(h); err != nil {
			return rep, fmt.Errorf("import habit %q: %w", h.Title, err)
		}
		if archiveID != "" {
			idMap[archiveID] = h.ID
		}
		idByTitle[h.Title] = h.ID
		rep.Habits++
		metrics.ImportRowsApplied.WithLabelValues("habits").Inc()
	}

	for _, l := range a.HabitLogs {
		id, ok := idMap[l.HabitID]
		if !ok {
			rep.warnf("habit_logs", "log %s/%s skipped: unknown habit %q", l.HabitID, l.Date, l.HabitID)
			continue
		}
		if _, err := domain.ParseDate(l.Date); err != nil {
			rep.warnf("habit_logs", "log for %s skipped: %v", id, err)
			continue
		}
		if !domain.ValidStatus(l.Status) || l.Status == domain.StatusNone {
			rep.warnf("habit_logs", "log %s/%s skipped: bad status %q", id, l.Date, l.Status)
			continue
		}
		if err := store.SetLogStatus(id, l.Date, l.Status); err != nil {
			return rep, fmt.Errorf("import log: %w", err)
		}
		rep.HabitLogs++
		metrics.ImportRowsApplied.WithLabelValues("habit_logs").Inc()
	}

	for _, t := range a.Tasks {
		if t.Title == "" {
			rep.warnf("tasks", "task with empty title skipped")
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		if err := store.SaveTask(t); err != nil {
			return rep, fmt.Errorf("import task %q: %w", t.Title, err)
		}
		rep.Tasks++
		metrics.ImportRowsApplied.WithLabelValues("tasks").Inc()
	}

	for _, s := range a.Summaries {
		if _, err := domain.ParseDate(s.Date); err != nil {
			rep.warnf("summaries", "summary skipped: %v", err)
			continue
		}
		if err := store.SaveSummary(s); err != nil {
			return rep, fmt.Errorf("import summary %s: %w", s.Date, err)
		}
		rep.Summaries++
		metrics.ImportRowsApplied.WithLabelValues("summaries").Inc()
	}

	for _, m := range a.Metrics {
		if m.MetricID == "" {
			rep.warnf("metrics", "metric log with empty id skipped")
			continue
		}
		if _, err := domain.ParseDate(m.Date); err != nil {
			rep.warnf("metrics", "metric %s skipped: %v", m.MetricID, err)
			continue
		}
		if err := store.SaveMetricLog(m); err != nil {
			return rep, fmt.Errorf("import metric %s: %w", m.MetricID, err)
		}
		rep.Metrics++
		metrics.ImportRowsApplied.WithLabelValues("metrics").Inc()
	}

	sort.Strings(rep.Warnings)
	return rep, nil
}

// ─── JSON ───────────────────────────────────────────────────────────────────

// WriteJSON renders the archive as indented JSON.
func WriteJSON(w io.Writer, a Archive) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	metrics.Exports.WithLabelValues("json").Inc()
	return nil
}

// ReadJSON parses a JSON archive and checks its version.
func ReadJSON(r io.Reader) (Archive, error) {
	var a Archive
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return a, fmt.Errorf("decode archive: %w", err)
	}
	if a.Version != ArchiveVersion {
		return a, fmt.Errorf("archive version %q: %w", a.Version, domain.ErrUnsupportedFormat)
	}
	return a, nil
}
