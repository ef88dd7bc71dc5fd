package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/formula"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"catalog_loading": s.workouts.Loading(),
	})
}

// handleListExercises applies the q / muscle_group query params as the
// store's filter state, then returns the derived projection.
func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	s.workouts.SetSearchTerm(r.URL.Query().Get("q"))

	group := models.MuscleGroupAll
	if v := r.URL.Query().Get("muscle_group"); v != "" {
		group = models.MuscleGroup(v)
		if group != models.MuscleGroupAll && !group.Valid() {
			writeError(w, http.StatusBadRequest, "unknown muscle group: "+v)
			return
		}
	}
	s.workouts.SetMuscleGroupFilter(group)

	writeJSON(w, http.StatusOK, s.workouts.FilteredExercises())
}

func (s *Server) handleActivityLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.ActivityLevels)
}

func (s *Server) handleGoals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Goals)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.workouts.Workouts())
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}
	workout, ok := s.workouts.Workout(id)
	if !ok {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleWorkoutCalories(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}
	workout, ok := s.workouts.Workout(id)
	if !ok {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"estimatedCalories": s.workouts.EstimatedCalories(workout),
	})
}

func (s *Server) handleAddWorkout(w http.ResponseWriter, r *http.Request) {
	var draft store.WorkoutDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	workout, err := s.workouts.AddWorkout(r.Context(), draft)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("add workout", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}

	var workout models.Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	workout.ID = id

	if !s.workouts.UpdateWorkout(r.Context(), workout) {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}
	if !s.workouts.DeleteWorkout(r.Context(), id) {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logSessionRequest is the POST /sessions payload. CompletedAt accepts
// RFC 3339 or plain YYYY-MM-DD; empty means "now".
type logSessionRequest struct {
	WorkoutID   int64  `json:"workoutId"`
	Duration    int    `json:"duration"`
	Notes       string `json:"notes"`
	CompletedAt string `json:"completedAt"`
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var req logSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var completedAt time.Time
	if req.CompletedAt != "" {
		var err error
		completedAt, err = parseFlexTime(req.CompletedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid completedAt: "+req.CompletedAt)
			return
		}
	}

	session, err := s.progress.LogSession(r.Context(), req.WorkoutID, req.Duration, req.Notes, completedAt)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrWorkoutNotFound):
			writeError(w, http.StatusNotFound, "workout not found")
		case errors.Is(err, store.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.log.Error("log session", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.progress.Sessions())
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var session models.WorkoutSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	session.ID = id

	if !s.progress.UpdateSession(r.Context(), session) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	if !s.progress.DeleteSession(r.Context(), id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.progress.UserStats())
}

func (s *Server) handleUpdateStats(w http.ResponseWriter, r *http.Request) {
	var update store.StatsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.progress.UpdateUserStats(r.Context(), update))
}

func (s *Server) handleWeeklySummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.progress.WeeklySummary())
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.progress.MonthlySummary())
}

// handleTargets derives the daily calorie/macro prescription from the
// current profile. Gender is a query param because it is a formula input,
// not part of the stored profile.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	gender := models.Gender(r.URL.Query().Get("gender"))
	if gender == "" {
		gender = models.GenderMale
	}

	targets := formula.CalorieTargets(s.progress.UserStats(), gender)
	writeJSON(w, http.StatusOK, map[string]any{
		"targets":     targets,
		"bmiCategory": formula.BMICategory(targets.BMI),
	})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
