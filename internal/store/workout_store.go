// Package store holds the two application state stores: the workout/catalog
// store and the progress store. Each store is the sole writer of its state;
// callers mutate only through the operations here. State is persisted through
// the kv adapter after every successful mutation and reloaded at startup.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/meltforce/fittrack/internal/catalog"
	"github.com/meltforce/fittrack/internal/formula"
	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/models"
)

var (
	// ErrValidation marks a rejected mutation: no state changed, the caller
	// should re-prompt.
	ErrValidation = errors.New("validation failed")

	// ErrWorkoutNotFound marks a session log referencing a workout id that
	// does not exist (or was deleted).
	ErrWorkoutNotFound = errors.New("workout not found")
)

// WorkoutDraft is the caller-supplied input to AddWorkout. ID and CreatedAt
// are assigned by the store.
type WorkoutDraft struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Duration    int                      `json:"duration"`
	Difficulty  models.Difficulty        `json:"difficulty"`
	Exercises   []models.WorkoutExercise `json:"exercises"`
}

// WorkoutStore holds the workout programs, the read-only exercise catalog,
// and the current search/filter state.
type WorkoutStore struct {
	mu       sync.RWMutex
	kv       kv.Store
	provider catalog.Provider
	log      *slog.Logger
	now      func() time.Time

	workouts      []models.Workout
	exercises     []models.Exercise
	searchTerm    string
	muscleGroup   models.MuscleGroup
	loading       bool
	catalogLoaded bool
}

// NewWorkoutStore creates the store and restores persisted workouts. Corrupt
// or missing persisted data degrades to an empty list.
func NewWorkoutStore(ctx context.Context, kvStore kv.Store, provider catalog.Provider, log *slog.Logger) *WorkoutStore {
	s := &WorkoutStore{
		kv:          kvStore,
		provider:    provider,
		log:         log,
		now:         time.Now,
		muscleGroup: models.MuscleGroupAll,
	}

	data, ok, err := kvStore.Load(ctx, kv.KeyWorkouts)
	if err != nil {
		log.Warn("loading persisted workouts failed, starting empty", "error", err)
		return s
	}
	if ok {
		if err := json.Unmarshal(data, &s.workouts); err != nil {
			log.Warn("persisted workouts corrupt, starting empty", "error", err)
			s.workouts = nil
		}
	}
	return s
}

// LoadCatalog populates the exercise catalog from the provider. One-shot:
// repeated calls after a successful load are no-ops. The loading flag is
// observable through Loading while the fetch runs.
func (s *WorkoutStore) LoadCatalog(ctx context.Context) error {
	s.mu.Lock()
	if s.catalogLoaded {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	exercises, err := s.provider.Exercises(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Warn("exercise catalog load failed", "error", err)
		return err
	}
	s.exercises = exercises
	s.catalogLoaded = true
	s.log.Info("exercise catalog loaded", "exercises", len(exercises))
	return nil
}

// AddWorkout validates the draft, assigns an id and creation time, appends
// the workout and persists. The draft's exercises are copied by value; later
// catalog changes never alter the stored workout.
func (s *WorkoutStore) AddWorkout(ctx context.Context, draft WorkoutDraft) (models.Workout, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return models.Workout{}, fmt.Errorf("%w: workout name is required", ErrValidation)
	}
	if len(draft.Exercises) == 0 {
		return models.Workout{}, fmt.Errorf("%w: workout needs at least one exercise", ErrValidation)
	}
	if draft.Duration <= 0 {
		return models.Workout{}, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	for _, ex := range draft.Exercises {
		if ex.Sets <= 0 || ex.Reps <= 0 {
			return models.Workout{}, fmt.Errorf("%w: sets and reps must be positive", ErrValidation)
		}
	}

	exercises := make([]models.WorkoutExercise, len(draft.Exercises))
	copy(exercises, draft.Exercises)

	s.mu.Lock()
	workout := models.Workout{
		ID:          s.now().UnixMilli(),
		Name:        draft.Name,
		Description: draft.Description,
		Duration:    draft.Duration,
		Difficulty:  draft.Difficulty,
		Exercises:   exercises,
		CreatedAt:   s.now(),
	}
	s.workouts = append(s.workouts, workout)
	s.mu.Unlock()

	s.persist(ctx)
	return workout, nil
}

// UpdateWorkout replaces the workout with a matching id. No-op when absent;
// returns whether a replacement happened.
func (s *WorkoutStore) UpdateWorkout(ctx context.Context, workout models.Workout) bool {
	s.mu.Lock()
	replaced := false
	for i := range s.workouts {
		if s.workouts[i].ID == workout.ID {
			s.workouts[i] = workout
			replaced = true
			break
		}
	}
	s.mu.Unlock()

	if replaced {
		s.persist(ctx)
	}
	return replaced
}

// DeleteWorkout removes the workout with the given id. No-op when absent;
// returns whether anything was removed.
func (s *WorkoutStore) DeleteWorkout(ctx context.Context, id int64) bool {
	s.mu.Lock()
	removed := false
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.persist(ctx)
	}
	return removed
}

// Workout looks up a workout by id.
func (s *WorkoutStore) Workout(id int64) (models.Workout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}

// Workouts returns the workout list in creation order.
func (s *WorkoutStore) Workouts() []models.Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Workout, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// Exercises returns the full catalog in source order.
func (s *WorkoutStore) Exercises() []models.Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Exercise, len(s.exercises))
	copy(out, s.exercises)
	return out
}

// SetSearchTerm updates the free-text exercise filter.
func (s *WorkoutStore) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
}

// SetMuscleGroupFilter updates the muscle-group filter. MuscleGroupAll
// disables it.
func (s *WorkoutStore) SetMuscleGroupFilter(group models.MuscleGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muscleGroup = group
}

// SearchTerm returns the current free-text filter.
func (s *WorkoutStore) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// MuscleGroupFilter returns the current muscle-group filter.
func (s *WorkoutStore) MuscleGroupFilter() models.MuscleGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muscleGroup
}

// Loading reports whether the catalog load is in flight.
func (s *WorkoutStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// FilteredExercises projects the catalog through the current search term and
// muscle-group filter, recomputed at call time. The term matches the
// exercise name or muscle group case-insensitively as a substring; the
// muscle-group filter is an exact match unless set to MuscleGroupAll.
// Catalog order is preserved.
func (s *WorkoutStore) FilteredExercises() []models.Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(s.searchTerm)
	out := make([]models.Exercise, 0, len(s.exercises))
	for _, ex := range s.exercises {
		if term != "" &&
			!strings.Contains(strings.ToLower(ex.Name), term) &&
			!strings.Contains(strings.ToLower(string(ex.MuscleGroup)), term) {
			continue
		}
		if s.muscleGroup != models.MuscleGroupAll && ex.MuscleGroup != s.muscleGroup {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// EstimatedCalories is the derived total-calorie estimate for a workout:
// average per-minute burn across its exercises times its duration. Never
// stored, always recomputed.
func (s *WorkoutStore) EstimatedCalories(workout models.Workout) int {
	return formula.SessionCalories(workout.Exercises, workout.Duration)
}

// persist writes the workout list through the kv adapter. Fire-and-forget
// from the store's perspective: a failed write is logged, not surfaced.
func (s *WorkoutStore) persist(ctx context.Context) {
	s.mu.RLock()
	data, err := json.Marshal(s.workouts)
	s.mu.RUnlock()
	if err != nil {
		s.log.Warn("encoding workouts failed", "error", err)
		return
	}
	if err := s.kv.Save(ctx, kv.KeyWorkouts, data); err != nil {
		s.log.Warn("persisting workouts failed", "error", err)
	}
}
