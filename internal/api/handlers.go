package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lifeos-sh/lifeos/internal/app/gamification"
	"github.com/lifeos-sh/lifeos/internal/app/review"
	"github.com/lifeos-sh/lifeos/internal/domain"
	"github.com/lifeos-sh/lifeos/internal/infra/metrics"
	"github.com/lifeos-sh/lifeos/internal/transfer"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrSummaryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidHabit),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrBadArchive),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// ─── Profile & stats ────────────────────────────────────────────────────────

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Profile()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	habits, err := s.store.Habits(true)
	if err != nil {
		s.fail(w, err)
		return
	}
	logs, err := s.store.AllLogs()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gamification.BuildSnapshot(habits, logs, s.clock.Today()))
}

func (s *Server) handleRanks(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Profile()
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := map[string]interface{}{
		"current": gamification.RankForLevel(p.Level),
		"ranks":   gamification.RanksWithStatus(p.Level),
	}
	if next, ok := gamification.NextRank(p.Level); ok {
		resp["next"] = next
		resp["levels_to_next"] = gamification.LevelsToNextRank(p.Level)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─── Habits ─────────────────────────────────────────────────────────────────

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"
	habits, err := s.store.Habits(includeArchived)
	if err != nil {
		s.fail(w, err)
		return
	}
	if habits == nil {
		habits = []domain.Habit{}
	}
	metrics.HabitsActive.Set(float64(countActive(habits)))
	writeJSON(w, http.StatusOK, habits)
}

func countActive(habits []domain.Habit) int {
	n := 0
	for _, h := range habits {
		if !h.Archived {
			n++
		}
	}
	return n
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var h domain.Habit
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.XPReward == 0 {
		h.XPReward = domain.DefaultXPReward
	}
	if err := s.store.SaveHabit(h); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleArchiveHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ArchiveHabit(chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

type logRequest struct {
	Date   string        `json:"date,omitempty"`
	Status domain.Status `json:"status,omitempty"`
}

// handleLogHabit records a status for one habit and date. With no
// explicit status the current one is advanced through the tap cycle;
// an empty date means the logical today.
func (s *Server) handleLogHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	habit, err := s.store.Habit(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	var req logRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}
	if req.Date == "" {
		req.Date = s.clock.Today()
	}
	if _, err := domain.ParseDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := req.Status
	if status == domain.StatusNone {
		current := domain.StatusNone
		logs, err := s.store.LogsForDate(req.Date)
		if err != nil {
			s.fail(w, err)
			return
		}
		for _, l := range logs {
			if l.HabitID == id {
				current = l.Status
				break
			}
		}
		status = domain.NextStatus(current, habit.IsBadHabit)
	}

	if err := s.store.SetLogStatus(id, req.Date, status); err != nil {
		s.fail(w, err)
		return
	}
	metrics.LogsRecorded.WithLabelValues(string(status)).Inc()
	writeJSON(w, http.StatusOK, domain.HabitLog{HabitID: id, Date: req.Date, Status: status})
}

func (s *Server) handleHabitStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	habit, err := s.store.Habit(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	logs, err := s.store.LogsForHabit(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	today := s.clock.Today()
	earliest := today
	completions, partials := 0, 0
	for _, l := range logs {
		if l.Date < earliest {
			earliest = l.Date
		}
		switch l.Status {
		case domain.StatusCompleted:
			completions++
		case domain.StatusPartial:
			partials++
		}
	}

	var dates []string
	for d := earliest; d != "" && d <= today; d = domain.AddDays(d, 1) {
		dates = append(dates, d)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":   gamification.StatsForHabit(habit, logs, dates),
		"mastery": gamification.Mastery(completions, partials, len(habit.FrequencyDays)),
	})
}

// ─── Tasks ──────────────────────────────────────────────────────────────────

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.Tasks()
	if err != nil {
		s.fail(w, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var t domain.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if t.Title == "" {
		writeError(w, http.StatusBadRequest, "task title is required")
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if err := s.store.SaveTask(t); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Task(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = s.clock.Today()
	} else {
		t.CompletedAt = ""
	}
	if err := s.store.SaveTask(t); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ─── Review & recalculation ─────────────────────────────────────────────────

type reviewRequest struct {
	Date      string `json:"date,omitempty"`
	MoodScore int    `json:"mood_score,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}
	if req.Date != "" {
		if _, err := domain.ParseDate(req.Date); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	res, err := s.reviews.Run(review.Input{Date: req.Date, MoodScore: req.MoodScore, Notes: req.Notes})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	res, err := s.reviews.Recalculate()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Import / export ────────────────────────────────────────────────────────

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := transfer.ExportOptions{From: q.Get("from"), To: q.Get("to")}
	archive, err := transfer.Export(s.store, opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	switch format := q.Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="lifeos-backup.json"`)
		if err := transfer.WriteJSON(w, archive); err != nil {
			s.fail(w, err)
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="lifeos-backup.csv"`)
		if err := transfer.WriteCSV(w, archive); err != nil {
			s.fail(w, err)
		}
	default:
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("format %q: %v", format, domain.ErrUnsupportedFormat))
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var (
		archive  transfer.Archive
		warnings []string
		err      error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		archive, err = transfer.ReadJSON(r.Body)
	case "csv":
		archive, warnings, err = transfer.ReadCSV(r.Body)
	default:
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("format %q: %v", format, domain.ErrUnsupportedFormat))
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	rep, err := transfer.Import(s.store, archive)
	if err != nil {
		s.fail(w, err)
		return
	}
	rep.Warnings = append(warnings, rep.Warnings...)
	writeJSON(w, http.StatusOK, rep)
}
