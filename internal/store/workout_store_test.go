package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/meltforce/fittrack/internal/catalog"
	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock hands out strictly increasing instants so timestamp-derived ids
// never collide inside a test.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestWorkoutStore(t *testing.T, kvStore kv.Store) *WorkoutStore {
	t.Helper()
	ctx := context.Background()
	s := NewWorkoutStore(ctx, kvStore, catalog.Static(), discardLogger())
	s.now = (&fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}).Now
	if err := s.LoadCatalog(ctx); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return s
}

func draftWith(exercises ...models.Exercise) WorkoutDraft {
	wes := make([]models.WorkoutExercise, len(exercises))
	for i, ex := range exercises {
		wes[i] = models.WorkoutExercise{Exercise: ex, Sets: 3, Reps: 12}
	}
	return WorkoutDraft{
		Name:       "Morning routine",
		Duration:   30,
		Difficulty: models.DifficultyBeginner,
		Exercises:  wes,
	}
}

func TestAddWorkout(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())
	exercises := s.Exercises()

	workout, err := s.AddWorkout(context.Background(), draftWith(exercises[0], exercises[1]))
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}
	if workout.ID == 0 {
		t.Error("workout id was not assigned")
	}
	if workout.CreatedAt.IsZero() {
		t.Error("createdAt was not assigned")
	}
	if got := s.Workouts(); len(got) != 1 || got[0].ID != workout.ID {
		t.Errorf("Workouts() = %v, want the one added workout", got)
	}
}

// TestAddWorkoutRejections verifies the rejection law: an invalid draft
// leaves the workout sequence untouched.
func TestAddWorkoutRejections(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())
	exercises := s.Exercises()

	tests := []struct {
		name  string
		draft WorkoutDraft
	}{
		{"empty name", WorkoutDraft{Name: "  ", Duration: 30, Exercises: draftWith(exercises[0]).Exercises}},
		{"no exercises", WorkoutDraft{Name: "Empty", Duration: 30}},
		{"zero duration", WorkoutDraft{Name: "Quick", Duration: 0, Exercises: draftWith(exercises[0]).Exercises}},
		{"zero sets", WorkoutDraft{Name: "Bad sets", Duration: 30, Exercises: []models.WorkoutExercise{{Exercise: exercises[0], Sets: 0, Reps: 10}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddWorkout(context.Background(), tt.draft)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if len(s.Workouts()) != 0 {
				t.Errorf("workout list length = %d after rejection, want 0", len(s.Workouts()))
			}
		})
	}
}

func TestDeleteWorkout(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())
	ctx := context.Background()
	exercises := s.Exercises()

	workout, err := s.AddWorkout(ctx, draftWith(exercises[0]))
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}

	if !s.DeleteWorkout(ctx, workout.ID) {
		t.Error("DeleteWorkout = false for existing workout")
	}
	if len(s.Workouts()) != 0 {
		t.Errorf("workout list length = %d after delete, want 0", len(s.Workouts()))
	}
	// No-op on a missing id.
	if s.DeleteWorkout(ctx, workout.ID) {
		t.Error("DeleteWorkout = true for absent workout")
	}
}

func TestUpdateWorkout(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())
	ctx := context.Background()
	exercises := s.Exercises()

	workout, err := s.AddWorkout(ctx, draftWith(exercises[0]))
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}

	workout.Name = "Evening routine"
	workout.Duration = 45
	if !s.UpdateWorkout(ctx, workout) {
		t.Fatal("UpdateWorkout = false for existing workout")
	}
	got, ok := s.Workout(workout.ID)
	if !ok || got.Name != "Evening routine" || got.Duration != 45 {
		t.Errorf("Workout after update = %+v", got)
	}

	missing := workout
	missing.ID = 42
	if s.UpdateWorkout(ctx, missing) {
		t.Error("UpdateWorkout = true for absent workout")
	}
}

// TestWorkoutSnapshotIsolation verifies that a workout's embedded exercises
// are copies: mutating the caller's slice afterwards must not reach the
// stored workout.
func TestWorkoutSnapshotIsolation(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())
	exercises := s.Exercises()

	draft := draftWith(exercises[0])
	workout, err := s.AddWorkout(context.Background(), draft)
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}

	draft.Exercises[0].Name = "Mutated"
	draft.Exercises[0].CaloriesPerMinute = 999

	got, _ := s.Workout(workout.ID)
	if got.Exercises[0].Name == "Mutated" {
		t.Error("stored workout shares memory with the caller's draft")
	}
}

func TestFilteredExercises(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())

	// Case-insensitive substring match against name.
	s.SetSearchTerm("squat")
	got := s.FilteredExercises()
	if len(got) != 1 || got[0].Name != "Squats" {
		t.Errorf("search %q = %v, want exactly Squats", "squat", names(got))
	}

	// Term also matches the muscle group.
	s.SetSearchTerm("LEGS")
	got = s.FilteredExercises()
	if len(got) != 2 {
		t.Errorf("search %q = %v, want Squats and Lunges", "LEGS", names(got))
	}

	// Muscle-group filter with empty term.
	s.SetSearchTerm("")
	s.SetMuscleGroupFilter(models.MuscleChest)
	got = s.FilteredExercises()
	if len(got) != 1 || got[0].Name != "Push-ups" {
		t.Errorf("filter chest = %v, want exactly Push-ups", names(got))
	}

	// Term and group intersect.
	s.SetSearchTerm("pull")
	got = s.FilteredExercises()
	if len(got) != 0 {
		t.Errorf("search pull + filter chest = %v, want none", names(got))
	}

	// "all" sentinel disables the group filter; catalog order preserved.
	s.SetSearchTerm("")
	s.SetMuscleGroupFilter(models.MuscleGroupAll)
	got = s.FilteredExercises()
	if len(got) != len(s.Exercises()) {
		t.Errorf("unfiltered = %d exercises, want %d", len(got), len(s.Exercises()))
	}
	for i, ex := range s.Exercises() {
		if got[i].ID != ex.ID {
			t.Fatalf("catalog order not preserved at %d", i)
		}
	}
}

func names(exercises []models.Exercise) []string {
	out := make([]string, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Name
	}
	return out
}

func TestEstimatedCalories(t *testing.T) {
	s := newTestWorkoutStore(t, kv.NewMemory())
	exercises := s.Exercises()

	// Push-ups (8/min) + Squats (10/min), 30 minutes: avg 9 × 30 = 270.
	workout, err := s.AddWorkout(context.Background(), draftWith(exercises[0], exercises[1]))
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}
	if got := s.EstimatedCalories(workout); got != 270 {
		t.Errorf("EstimatedCalories = %d, want 270", got)
	}

	if got := s.EstimatedCalories(models.Workout{Duration: 30}); got != 0 {
		t.Errorf("EstimatedCalories with no exercises = %d, want 0", got)
	}
}

// TestWorkoutPersistenceRoundTrip verifies the round-trip law: a fresh store
// over the same kv backend sees the previously persisted workouts.
func TestWorkoutPersistenceRoundTrip(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()

	s := newTestWorkoutStore(t, mem)
	exercises := s.Exercises()
	workout, err := s.AddWorkout(ctx, draftWith(exercises[0], exercises[3]))
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}

	reloaded := NewWorkoutStore(ctx, mem, catalog.Static(), discardLogger())
	got := reloaded.Workouts()
	if len(got) != 1 {
		t.Fatalf("reloaded store has %d workouts, want 1", len(got))
	}
	if got[0].ID != workout.ID || got[0].Name != workout.Name || len(got[0].Exercises) != 2 {
		t.Errorf("reloaded workout = %+v, want %+v", got[0], workout)
	}
	if got[0].Exercises[1].Sets != 3 || got[0].Exercises[1].Reps != 12 {
		t.Errorf("reloaded sets/reps = %d/%d, want 3/12", got[0].Exercises[1].Sets, got[0].Exercises[1].Reps)
	}
	if !got[0].CreatedAt.Equal(workout.CreatedAt) {
		t.Errorf("reloaded createdAt = %v, want %v", got[0].CreatedAt, workout.CreatedAt)
	}
}

// TestWorkoutCorruptPersistedData verifies the store starts empty rather than
// failing when the persisted payload is not valid JSON.
func TestWorkoutCorruptPersistedData(t *testing.T) {
	mem := kv.NewMemory()
	mem.Seed(kv.KeyWorkouts, []byte("{not json"))

	s := NewWorkoutStore(context.Background(), mem, catalog.Static(), discardLogger())
	if len(s.Workouts()) != 0 {
		t.Errorf("store with corrupt data has %d workouts, want 0", len(s.Workouts()))
	}

	// The store keeps operating after the fallback.
	if err := s.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("LoadCatalog after corrupt load: %v", err)
	}
	if _, err := s.AddWorkout(context.Background(), draftWith(s.Exercises()[0])); err != nil {
		t.Errorf("AddWorkout after corrupt load: %v", err)
	}
}

// TestLoadCatalogOnce verifies the catalog load is one-shot and clears the
// loading flag.
func TestLoadCatalogOnce(t *testing.T) {
	ctx := context.Background()
	s := NewWorkoutStore(ctx, kv.NewMemory(), catalog.Static(), discardLogger())

	if err := s.LoadCatalog(ctx); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if s.Loading() {
		t.Error("loading flag still set after load")
	}
	first := len(s.Exercises())
	if first == 0 {
		t.Fatal("catalog empty after load")
	}

	if err := s.LoadCatalog(ctx); err != nil {
		t.Fatalf("second LoadCatalog: %v", err)
	}
	if len(s.Exercises()) != first {
		t.Errorf("second load changed catalog size: %d -> %d", first, len(s.Exercises()))
	}
}

// TestAddWorkoutSurvivesSaveFailure verifies persistence is best-effort:
// a failing backend must not fail or roll back the mutation.
func TestAddWorkoutSurvivesSaveFailure(t *testing.T) {
	mem := kv.NewMemory()
	mem.SaveErr = errors.New("disk full")
	s := newTestWorkoutStore(t, mem)

	workout, err := s.AddWorkout(context.Background(), draftWith(s.Exercises()[0]))
	if err != nil {
		t.Fatalf("AddWorkout: %v", err)
	}
	if _, ok := s.Workout(workout.ID); !ok {
		t.Error("workout missing from store after save failure")
	}
}
