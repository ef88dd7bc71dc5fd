// Package catalog supplies the read-only exercise library. Providers are
// queried exactly once at startup; the returned entries never change.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meltforce/fittrack/internal/models"
)

// Provider supplies the full exercise catalog. No pagination; the library
// is small and loaded whole.
type Provider interface {
	Exercises(ctx context.Context) ([]models.Exercise, error)
}

// Static returns the built-in exercise catalog.
func Static() Provider {
	return staticProvider{}
}

type staticProvider struct{}

func (staticProvider) Exercises(_ context.Context) ([]models.Exercise, error) {
	out := make([]models.Exercise, len(builtin))
	copy(out, builtin)
	return out, nil
}

// FileProvider reads the catalog from a JSON file, so deployments can extend
// the exercise library without recompiling.
type FileProvider struct {
	Path string
}

func (p FileProvider) Exercises(_ context.Context) ([]models.Exercise, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	for i := range exercises {
		exercises[i].MuscleGroup = normalizeMuscleGroup(exercises[i].MuscleGroup)
		exercises[i].Equipment = normalizeEquipment(exercises[i].Equipment)
		if !exercises[i].MuscleGroup.Valid() {
			return nil, fmt.Errorf("catalog entry %d: unknown muscle group %q", exercises[i].ID, exercises[i].MuscleGroup)
		}
		if exercises[i].CaloriesPerMinute <= 0 {
			return nil, fmt.Errorf("catalog entry %d: caloriesPerMinute must be positive", exercises[i].ID)
		}
	}
	return exercises, nil
}

// Older catalog exports use spaced/hyphenated spellings for a few values.
func normalizeMuscleGroup(g models.MuscleGroup) models.MuscleGroup {
	if g == "full body" {
		return models.MuscleFullBody
	}
	return g
}

func normalizeEquipment(e models.Equipment) models.Equipment {
	if e == "pull-up bar" {
		return models.EquipmentPullUpBar
	}
	return e
}

var builtin = []models.Exercise{
	{
		ID:                1,
		Name:              "Push-ups",
		MuscleGroup:       models.MuscleChest,
		Equipment:         models.EquipmentBodyweight,
		Instructions:      "Start in plank position, lower body to ground, push back up",
		VideoURL:          "https://www.youtube.com/watch?v=IODxDxX7oi4",
		CaloriesPerMinute: 8,
	},
	{
		ID:                2,
		Name:              "Squats",
		MuscleGroup:       models.MuscleLegs,
		Equipment:         models.EquipmentBodyweight,
		Instructions:      "Stand with feet shoulder-width apart, lower into squat position, return to standing",
		VideoURL:          "https://www.youtube.com/watch?v=YaXPRqUwItQ",
		CaloriesPerMinute: 10,
	},
	{
		ID:                3,
		Name:              "Plank",
		MuscleGroup:       models.MuscleCore,
		Equipment:         models.EquipmentBodyweight,
		Instructions:      "Hold plank position with straight body line",
		VideoURL:          "https://www.youtube.com/watch?v=pSHjTRCQxIw",
		CaloriesPerMinute: 5,
	},
	{
		ID:                4,
		Name:              "Pull-ups",
		MuscleGroup:       models.MuscleBack,
		Equipment:         models.EquipmentPullUpBar,
		Instructions:      "Hang from bar, pull body up until chin over bar, lower slowly",
		VideoURL:          "https://www.youtube.com/watch?v=eGo4IYlbE5g",
		CaloriesPerMinute: 12,
	},
	{
		ID:                5,
		Name:              "Lunges",
		MuscleGroup:       models.MuscleLegs,
		Equipment:         models.EquipmentBodyweight,
		Instructions:      "Step forward into lunge position, return to starting position",
		VideoURL:          "https://www.youtube.com/watch?v=QOVaHwm-Q6U",
		CaloriesPerMinute: 9,
	},
	{
		ID:                6,
		Name:              "Burpees",
		MuscleGroup:       models.MuscleFullBody,
		Equipment:         models.EquipmentBodyweight,
		Instructions:      "Squat down, jump back to plank, do push-up, jump forward, jump up",
		VideoURL:          "https://www.youtube.com/watch?v=TU8QYVW0gDU",
		CaloriesPerMinute: 15,
	},
}
