package models

import "time"

// MuscleGroup classifies which muscles an exercise targets.
type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleLegs      MuscleGroup = "legs"
	MuscleArms      MuscleGroup = "arms"
	MuscleCore      MuscleGroup = "core"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleFullBody  MuscleGroup = "full_body"

	// MuscleGroupAll is the filter sentinel meaning "no muscle group filter".
	MuscleGroupAll MuscleGroup = "all"
)

// Equipment is the gear an exercise requires.
type Equipment string

const (
	EquipmentBodyweight     Equipment = "bodyweight"
	EquipmentDumbbells      Equipment = "dumbbells"
	EquipmentBarbell        Equipment = "barbell"
	EquipmentKettlebell     Equipment = "kettlebell"
	EquipmentResistanceBand Equipment = "resistance_band"
	EquipmentPullUpBar      Equipment = "pull_up_bar"
	EquipmentMachine        Equipment = "machine"
)

// Difficulty rates a workout program.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ActivityLevel describes how active a user is outside logged workouts.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal is what the user wants their weight to do.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Gender is the two-value input to the Mifflin-St Jeor equation. A known
// simplification of the formula itself, not an extensibility point.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Exercise is a read-only catalog entry. Loaded once at startup and never
// mutated afterwards.
type Exercise struct {
	ID                int         `json:"id"`
	Name              string      `json:"name"`
	MuscleGroup       MuscleGroup `json:"muscleGroup"`
	Equipment         Equipment   `json:"equipment"`
	Instructions      string      `json:"instructions"`
	VideoURL          string      `json:"videoUrl"`
	CaloriesPerMinute float64     `json:"caloriesPerMinute"`
}

// WorkoutExercise embeds an Exercise by value plus a sets/reps prescription.
// Copied into a Workout at creation time; later catalog changes never reach
// the embedded copy.
type WorkoutExercise struct {
	Exercise
	Sets int `json:"sets"`
	Reps int `json:"reps"`
}

// Workout is a user-built program of exercises.
type Workout struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Duration    int               `json:"duration"`
	Difficulty  Difficulty        `json:"difficulty"`
	Exercises   []WorkoutExercise `json:"exercises"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// WorkoutSession is a completed-workout log entry. WorkoutID is a weak
// reference: the workout may be deleted later without invalidating history,
// since name and exercises are snapshotted here and CaloriesBurned is fixed
// at logging time.
type WorkoutSession struct {
	ID             int64             `json:"id"`
	WorkoutID      int64             `json:"workoutId"`
	WorkoutName    string            `json:"workoutName"`
	Duration       int               `json:"duration"`
	Notes          string            `json:"notes,omitempty"`
	CaloriesBurned int               `json:"caloriesBurned"`
	Exercises      []WorkoutExercise `json:"exercises"`
	CompletedAt    time.Time         `json:"completedAt"`
}

// UserStats is the single mutable profile record.
type UserStats struct {
	Weight        float64       `json:"weight"`
	Height        int           `json:"height"`
	Age           int           `json:"age"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Goal          Goal          `json:"goal"`
}

// DefaultUserStats is the profile used when nothing has been persisted yet.
func DefaultUserStats() UserStats {
	return UserStats{
		Weight:        70,
		Height:        170,
		Age:           25,
		ActivityLevel: ActivityModerate,
		Goal:          GoalMaintain,
	}
}

// ActivityLevelInfo carries presentation metadata for an activity level.
type ActivityLevelInfo struct {
	Level       ActivityLevel `json:"level"`
	Label       string        `json:"label"`
	Multiplier  float64       `json:"multiplier"`
	Description string        `json:"description"`
}

// ActivityLevels lists the supported levels with their TDEE multipliers,
// in ascending intensity order.
var ActivityLevels = []ActivityLevelInfo{
	{ActivitySedentary, "Sedentary", 1.2, "little or no exercise"},
	{ActivityLight, "Lightly active", 1.375, "exercise 1-3 times/week"},
	{ActivityModerate, "Moderately active", 1.55, "exercise 3-5 times/week"},
	{ActivityActive, "Active", 1.725, "exercise 6-7 times/week"},
	{ActivityVeryActive, "Very active", 1.9, "hard exercise twice a day"},
}

// GoalInfo carries presentation metadata for a weight goal.
type GoalInfo struct {
	Goal    Goal   `json:"goal"`
	Label   string `json:"label"`
	Deficit int    `json:"deficit"`
}

// Goals lists the supported goals with their daily calorie deficits
// (negative deficit = surplus).
var Goals = []GoalInfo{
	{GoalLose, "Lose weight", 500},
	{GoalMaintain, "Maintain weight", 0},
	{GoalGain, "Gain weight", -500},
}

// Valid reports whether g is one of the seven catalog muscle groups.
// The "all" sentinel is a filter value, not a valid exercise attribute.
func (g MuscleGroup) Valid() bool {
	switch g {
	case MuscleChest, MuscleBack, MuscleLegs, MuscleArms, MuscleCore, MuscleShoulders, MuscleFullBody:
		return true
	}
	return false
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Valid reports whether a is a known activity level.
func (a ActivityLevel) Valid() bool {
	for _, info := range ActivityLevels {
		if info.Level == a {
			return true
		}
	}
	return false
}

// Valid reports whether g is a known goal.
func (g Goal) Valid() bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}
