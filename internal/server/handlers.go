package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/gain/internal/analytics"
	"github.com/claude/gain/internal/models"
	"github.com/claude/gain/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.provider.Ingest(r.Context(), r.Body, 1)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	observability.RecordIngest(result.WorkoutsInserted, result.WorkoutsSkipped)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	workouts, err := s.db.QueryWorkoutRecords(r.Context(), start, end, 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	workoutID, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	rec, err := s.db.GetWorkoutRecord(r.Context(), workoutID, 1)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	workoutID, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	deleted, err := s.db.DeleteWorkoutRecord(r.Context(), workoutID, 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSessionQuality(w http.ResponseWriter, r *http.Request) {
	window := s.analytics.RecentWindow
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid window parameter"})
			return
		}
		window = n
	}

	sessions, ok := s.loadSessions(w, r)
	if !ok {
		return
	}

	metrics, err := analytics.ScoreAllSessions(sessions, window)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	observability.RecordAnalyticsRun("session_quality")
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleMuscleBalance(w http.ResponseWriter, r *http.Request) {
	sessions, ok := s.loadSessions(w, r)
	if !ok {
		return
	}

	observability.RecordAnalyticsRun("muscle_balance")
	writeJSON(w, http.StatusOK, analytics.WeeklyBalance(sessions))
}

func (s *Server) handleWeeklyFatigue(w http.ResponseWriter, r *http.Request) {
	high := s.analytics.HighFatigueThreshold
	deload := s.analytics.DeloadThreshold
	if v := r.URL.Query().Get("high"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid high parameter"})
			return
		}
		high = f
	}
	if v := r.URL.Query().Get("deload"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid deload parameter"})
			return
		}
		deload = f
	}

	sessions, ok := s.loadSessions(w, r)
	if !ok {
		return
	}

	scored, err := analytics.ScoreAllSessions(sessions, s.analytics.RecentWindow)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	scores := make(map[uuid.UUID]float64, len(scored))
	for _, m := range scored {
		scores[m.WorkoutID] = m.SessionScore
	}

	weeks, err := analytics.WeeklyFatigue(sessions, scores, high, deload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	observability.RecordAnalyticsRun("weekly_fatigue")
	writeJSON(w, http.StatusOK, weeks)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecentImports(w http.ResponseWriter, r *http.Request) {
	logs, err := s.db.RecentImportLogs(r.Context(), 1, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// loadSessions fetches the workout history for the analytics endpoints.
// Without an explicit start the full history is used so that the weekly
// engines see every bucket.
func (s *Server) loadSessions(w http.ResponseWriter, r *http.Request) ([]models.WorkoutRecord, bool) {
	start := time.Time{}
	end := time.Now()

	var err error
	if v := r.URL.Query().Get("start"); v != "" {
		start, err = parseStartTime(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return nil, false
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		end, err = parseEndTime(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return nil, false
		}
	}

	sessions, err := s.db.QueryWorkoutRecords(r.Context(), start, end, 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return sessions, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = parseStartTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = parseEndTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return
}

// parseStartTime accepts RFC3339 timestamps or bare dates.
func parseStartTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseEndTime is like parseStartTime, but a bare date covers the
// whole day.
func parseEndTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24 * time.Hour), nil
}
