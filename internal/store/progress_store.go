package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/meltforce/fittrack/internal/formula"
	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/models"
)

// WorkoutLookup resolves a workout id to its current definition. Normally
// backed by WorkoutStore.Workout.
type WorkoutLookup func(id int64) (models.Workout, bool)

// StatsUpdate is a partial UserStats edit; nil fields are left untouched.
type StatsUpdate struct {
	Weight        *float64              `json:"weight,omitempty"`
	Height        *int                  `json:"height,omitempty"`
	Age           *int                  `json:"age,omitempty"`
	ActivityLevel *models.ActivityLevel `json:"activityLevel,omitempty"`
	Goal          *models.Goal          `json:"goal,omitempty"`
}

// Summary aggregates the sessions inside a trailing time window.
type Summary struct {
	SessionCount              int `json:"sessionCount"`
	TotalCalories             int `json:"totalCalories"`
	TotalDurationMinutes      int `json:"totalDurationMinutes"`
	AverageCaloriesPerSession int `json:"averageCaloriesPerSession"`
}

// ProgressStore holds the completed-session log and the user profile.
type ProgressStore struct {
	mu     sync.RWMutex
	kv     kv.Store
	lookup WorkoutLookup
	log    *slog.Logger
	now    func() time.Time

	sessions []models.WorkoutSession
	stats    models.UserStats
}

// NewProgressStore creates the store and restores the persisted session log
// and profile. Corrupt or missing data degrades to the defaults.
func NewProgressStore(ctx context.Context, kvStore kv.Store, lookup WorkoutLookup, log *slog.Logger) *ProgressStore {
	s := &ProgressStore{
		kv:     kvStore,
		lookup: lookup,
		log:    log,
		now:    time.Now,
		stats:  models.DefaultUserStats(),
	}

	if data, ok, err := kvStore.Load(ctx, kv.KeyProgress); err != nil {
		log.Warn("loading persisted sessions failed, starting empty", "error", err)
	} else if ok {
		if err := json.Unmarshal(data, &s.sessions); err != nil {
			log.Warn("persisted sessions corrupt, starting empty", "error", err)
			s.sessions = nil
		}
	}

	if data, ok, err := kvStore.Load(ctx, kv.KeyUserStats); err != nil {
		log.Warn("loading persisted user stats failed, using defaults", "error", err)
	} else if ok {
		stats := models.DefaultUserStats()
		if err := json.Unmarshal(data, &stats); err != nil {
			log.Warn("persisted user stats corrupt, using defaults", "error", err)
			stats = models.DefaultUserStats()
		}
		s.stats = stats
	}

	return s
}

// LogSession records a completed workout. The workout's name and exercises
// are snapshotted by value and the calorie burn is computed once, here; the
// session stays intact even if the workout is later changed or deleted.
// A zero completedAt defaults to the current instant.
func (s *ProgressStore) LogSession(ctx context.Context, workoutID int64, duration int, notes string, completedAt time.Time) (models.WorkoutSession, error) {
	if duration <= 0 {
		return models.WorkoutSession{}, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}

	workout, ok := s.lookup(workoutID)
	if !ok {
		return models.WorkoutSession{}, ErrWorkoutNotFound
	}

	exercises := make([]models.WorkoutExercise, len(workout.Exercises))
	copy(exercises, workout.Exercises)

	if completedAt.IsZero() {
		completedAt = s.now()
	}

	s.mu.Lock()
	session := models.WorkoutSession{
		ID:             s.now().UnixMilli(),
		WorkoutID:      workout.ID,
		WorkoutName:    workout.Name,
		Duration:       duration,
		Notes:          notes,
		CaloriesBurned: formula.SessionCalories(exercises, duration),
		Exercises:      exercises,
		CompletedAt:    completedAt,
	}
	s.sessions = append(s.sessions, session)
	s.mu.Unlock()

	s.persistSessions(ctx)
	return session, nil
}

// UpdateSession replaces the session with a matching id. No-op when absent.
func (s *ProgressStore) UpdateSession(ctx context.Context, session models.WorkoutSession) bool {
	s.mu.Lock()
	replaced := false
	for i := range s.sessions {
		if s.sessions[i].ID == session.ID {
			s.sessions[i] = session
			replaced = true
			break
		}
	}
	s.mu.Unlock()

	if replaced {
		s.persistSessions(ctx)
	}
	return replaced
}

// DeleteSession removes the session with the given id. No-op when absent.
func (s *ProgressStore) DeleteSession(ctx context.Context, id int64) bool {
	s.mu.Lock()
	removed := false
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.persistSessions(ctx)
	}
	return removed
}

// Sessions returns the session log in insertion order.
func (s *ProgressStore) Sessions() []models.WorkoutSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WorkoutSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// UserStats returns the current profile.
func (s *ProgressStore) UserStats() models.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// UpdateUserStats shallow-merges the set fields of the update into the
// profile and persists the result.
func (s *ProgressStore) UpdateUserStats(ctx context.Context, update StatsUpdate) models.UserStats {
	s.mu.Lock()
	if update.Weight != nil {
		s.stats.Weight = *update.Weight
	}
	if update.Height != nil {
		s.stats.Height = *update.Height
	}
	if update.Age != nil {
		s.stats.Age = *update.Age
	}
	if update.ActivityLevel != nil {
		s.stats.ActivityLevel = *update.ActivityLevel
	}
	if update.Goal != nil {
		s.stats.Goal = *update.Goal
	}
	stats := s.stats
	s.mu.Unlock()

	data, err := json.Marshal(stats)
	if err != nil {
		s.log.Warn("encoding user stats failed", "error", err)
		return stats
	}
	if err := s.kv.Save(ctx, kv.KeyUserStats, data); err != nil {
		s.log.Warn("persisting user stats failed", "error", err)
	}
	return stats
}

// WeeklySummary aggregates the sessions completed in the trailing 7 days.
func (s *ProgressStore) WeeklySummary() Summary {
	return s.summarize(s.now().AddDate(0, 0, -7))
}

// MonthlySummary aggregates the sessions completed in the trailing calendar
// month.
func (s *ProgressStore) MonthlySummary() Summary {
	return s.summarize(s.now().AddDate(0, -1, 0))
}

// summarize folds the sessions whose completion time is at or after cutoff.
func (s *ProgressStore) summarize(cutoff time.Time) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum Summary
	for _, session := range s.sessions {
		if session.CompletedAt.Before(cutoff) {
			continue
		}
		sum.SessionCount++
		sum.TotalCalories += session.CaloriesBurned
		sum.TotalDurationMinutes += session.Duration
	}
	if sum.SessionCount > 0 {
		sum.AverageCaloriesPerSession = int(math.Round(float64(sum.TotalCalories) / float64(sum.SessionCount)))
	}
	return sum
}

func (s *ProgressStore) persistSessions(ctx context.Context) {
	s.mu.RLock()
	data, err := json.Marshal(s.sessions)
	s.mu.RUnlock()
	if err != nil {
		s.log.Warn("encoding sessions failed", "error", err)
		return
	}
	if err := s.kv.Save(ctx, kv.KeyProgress, data); err != nil {
		s.log.Warn("persisting sessions failed", "error", err)
	}
}
