package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/metrics"
)

// Section marker rows. A marker is a single-field CSV record; each
// section is followed by its header row and then data rows.
const (
	sectionProfile   = "=== PROFILE ==="
	sectionHabits    = "=== HABITS ==="
	sectionHabitLogs = "=== HABIT LOGS ==="
	sectionTasks     = "=== TASKS ==="
	sectionSummaries = "=== DAILY SUMMARIES ==="
	sectionMetrics   = "=== METRICS ==="
)

// wireDate converts an ISO date to the DD-MM-YYYY wire form.
func wireDate(iso string) string {
	p := strings.Split(iso, "-")
	if len(p) != 3 {
		return iso
	}
	return p[2] + "-" + p[1] + "-" + p[0]
}

// isoDate converts a DD-MM-YYYY wire date back to ISO, validating the
// result.
func isoDate(wire string) (string, error) {
	p := strings.Split(strings.TrimSpace(wire), "-")
	if len(p) != 3 {
		return "", fmt.Errorf("date %q: not DD-MM-YYYY", wire)
	}
	iso := p[2] + "-" + p[1] + "-" + p[0]
	if _, err := domain.ParseDate(iso); err != nil {
		return "", err
	}
	return iso, nil
}

// encodeCSVFrequency renders weekday indices for the wire: the full
// week collapses to "Daily", no days at all to "None" (an empty field
// would read back as daily), anything else is pipe-joined indices.
func encodeCSVFrequency(days []int) string {
	if len(days) == 0 {
		return "None"
	}
	if len(days) == 7 {
		return "Daily"
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "|")
}

// decodeCSVFrequency accepts "Daily", "Always", "None", pipe-joined
// indices, or empty (meaning every day, the legacy converter's rule).
func decodeCSVFrequency(s string) []int {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "None") {
		return nil
	}
	if s == "" || s == "Daily" || s == "Always" {
		return []int{0, 1, 2, 3, 4, 5, 6}
	}
	var days []int
	for _, p := range strings.Split(s, "|") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return []int{0, 1, 2, 3, 4, 5, 6}
		}
		days = append(days, n)
	}
	return days
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func isYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}

// WriteCSV renders the archive as sectioned CSV. Fields containing
// commas, quotes, or newlines get standard CSV quoting.
func WriteCSV(w io.Writer, a Archive) error {
	cw := csv.NewWriter(w)

	write := func(record ...string) {
		cw.Write(record)
	}

	if a.Profile != nil {
		write(sectionProfile)
		write("Level", "XP", "HP", "Max HP", "Day Start Hour")
		p := a.Profile
		write(strconv.Itoa(p.Level), strconv.Itoa(p.XP), strconv.Itoa(p.HP),
			strconv.Itoa(p.MaxHP), strconv.Itoa(p.DayStartHour))
	}

	write(sectionHabits)
	write("Title", "Type", "Frequency", "XP Reward", "Description", "Archived")
	for _, h := range a.Habits {
		typ := "Normal"
		if h.IsBadHabit {
			typ = "Resistance"
		}
		write(h.Title, typ, encodeCSVFrequency(h.FrequencyDays),
			strconv.Itoa(h.Reward()), h.Description, yesNo(h.Archived))
	}

	titleByID := make(map[string]string, len(a.Habits))
	for _, h := range a.Habits {
		titleByID[h.ID] = h.Title
	}

	write(sectionHabitLogs)
	write("Habit", "Date", "Status")
	for _, l := range a.HabitLogs {
		title, ok := titleByID[l.HabitID]
		if !ok {
			continue // orphan log: nothing to name it by
		}
		write(title, wireDate(l.Date), string(l.Status))
	}

	write(sectionTasks)
	write("Title", "Priority", "Completed", "Completed At", "For Today", "Due Date", "Archived")
	for _, t := range a.Tasks {
		due := ""
		if t.DueDate != "" {
			due = wireDate(t.DueDate)
		}
		write(t.Title, string(t.Priority), yesNo(t.Completed), t.CompletedAt,
			yesNo(t.IsForToday), due, yesNo(t.Archived))
	}

	write(sectionSummaries)
	write("Date", "Mood", "Notes", "XP Earned", "HP Lost")
	for _, s := range a.Summaries {
		mood := ""
		if s.MoodScore != 0 {
			mood = strconv.Itoa(s.MoodScore)
		}
		write(wireDate(s.Date), mood, s.Notes,
			strconv.Itoa(s.XPEarned), strconv.Itoa(s.HPLost))
	}

	write(sectionMetrics)
	write("Metric", "Date", "Value")
	for _, m := range a.Metrics {
		write(m.MetricID, wireDate(m.Date), strconv.FormatFloat(m.Value, 'f', -1, 64))
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	metrics.Exports.WithLabelValues("csv").Inc()
	return nil
}

// ReadCSV parses a sectioned CSV backup into an archive. Habits get
// synthetic sequential IDs and logs are matched to them by title; a
// log naming an unknown habit, or any otherwise malformed row, is
// skipped with a warning. The returned archive always carries the
// current version so it can be handed straight to Import.
func ReadCSV(r io.Reader) (Archive, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // sections have different widths

	a := Archive{Version: ArchiveVersion}
	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	section := ""
	headerSeen := false
	idByTitle := make(map[string]string)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return a, warnings, fmt.Errorf("read csv: %w", err)
		}

		if len(row) == 1 && strings.HasPrefix(row[0], "===") {
			section = strings.TrimSpace(row[0])
			headerSeen = false
			continue
		}
		if allEmpty(row) || section == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		switch section {
		case sectionProfile:
			if len(row) < 5 {
				warnf("profile row skipped: %d fields", len(row))
				continue
			}
			a.Profile = &domain.Profile{
				Level:        atoiOr(row[0], 1),
				XP:           atoiOr(row[1], 0),
				HP:           atoiOr(row[2], domain.MaxHP),
				MaxHP:        atoiOr(row[3], domain.MaxHP),
				DayStartHour: atoiOr(row[4], domain.DefaultDayStartHour),
			}

		case sectionHabits:
			if len(row) < 4 || row[0] == "" {
				warnf("habit row skipped: missing title")
				continue
			}
			h := domain.Habit{
				ID:            fmt.Sprintf("habit_%d", len(a.Habits)),
				Title:         row[0],
				IsBadHabit:    strings.EqualFold(row[1], "resistance"),
				FrequencyDays: decodeCSVFrequency(row[2]),
				XPReward:      atoiOr(row[3], domain.DefaultXPReward),
				SortOrder:     len(a.Habits),
			}
			if len(row) > 4 {
				h.Description = row[4]
			}
			if len(row) > 5 {
				h.Archived = isYes(row[5])
			}
			idByTitle[h.Title] = h.ID
			a.Habits = append(a.Habits, h)

		case sectionHabitLogs:
			if len(row) < 3 || row[0] == "" {
				warnf("habit log row skipped: missing habit")
				continue
			}
			id, ok := idByTitle[row[0]]
			if !ok {
				warnf("habit log skipped: unknown habit %q", row[0])
				continue
			}
			date, err := isoDate(row[1])
			if err != nil {
				warnf("habit log for %q skipped: %v", row[0], err)
				continue
			}
			status := domain.Status(strings.ToLower(strings.TrimSpace(row[2])))
			if status == domain.StatusNone {
				status = domain.StatusSkipped
			}
			if !domain.ValidStatus(status) {
				warnf("habit log %q/%s skipped: bad status %q", row[0], date, row[2])
				continue
			}
			a.HabitLogs = append(a.HabitLogs, domain.HabitLog{HabitID: id, Date: date, Status: status})

		case sectionTasks:
			if len(row) < 7 || row[0] == "" {
				warnf("task row skipped: missing title")
				continue
			}
			t := domain.Task{
				Title:      row[0],
				Priority:   domain.TaskPriority(strings.ToLower(row[1])),
				Completed:  isYes(row[2]),
				IsForToday: isYes(row[4]),
				Archived:   isYes(row[6]),
			}
			if t.Priority == "" {
				t.Priority = domain.PriorityMedium
			}
			if row[3] != "" {
				// Timestamps are stored date-only
				t.CompletedAt, _, _ = strings.Cut(row[3], "T")
			}
			if row[5] != "" {
				if due, err := isoDate(row[5]); err == nil {
					t.DueDate = due
				}
			}
			a.Tasks = append(a.Tasks, t)

		case sectionSummaries:
			if len(row) < 5 || row[0] == "" {
				warnf("summary row skipped: missing date")
				continue
			}
			date, err := isoDate(row[0])
			if err != nil {
				warnf("summary skipped: %v", err)
				continue
			}
			a.Summaries = append(a.Summaries, domain.DailySummary{
				Date:      date,
				MoodScore: atoiOr(row[1], 0),
				Notes:     row[2],
				XPEarned:  atoiOr(row[3], 0),
				HPLost:    atoiOr(row[4], 0),
			})

		case sectionMetrics:
			if len(row) < 3 || row[0] == "" {
				warnf("metric row skipped: missing id")
				continue
			}
			date, err := isoDate(row[1])
			if err != nil {
				warnf("metric %q skipped: %v", row[0], err)
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				warnf("metric %q skipped: bad value %q", row[0], row[2])
				continue
			}
			a.Metrics = append(a.Metrics, domain.MetricLog{MetricID: row[0], Date: date, Value: value})
		}
	}

	return a, warnings, nil
}

func allEmpty(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
