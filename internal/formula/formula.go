// Package formula holds the pure numeric formulas behind the calorie
// calculator and progress tracking: BMI, Mifflin-St Jeor BMR, TDEE, session
// calorie burn, and daily calorie/macro targets. No state, no I/O.
package formula

import (
	"math"

	"github.com/meltforce/fittrack/internal/models"
)

// activityMultipliers maps activity levels to their TDEE factors.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// goalDeficits maps weight goals to the daily calorie deficit subtracted
// from TDEE. Gain is a negative deficit, i.e. a surplus.
var goalDeficits = map[models.Goal]int{
	models.GoalLose:     500,
	models.GoalMaintain: 0,
	models.GoalGain:     -500,
}

// BMI computes body mass index from weight in kg and height in cm, rounded
// to one decimal place. Returns 0 when height is not positive.
func BMI(weightKg float64, heightCm int) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := float64(heightCm) / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// BMR computes basal metabolic rate in kcal/day using the Mifflin-St Jeor
// equation. Any gender other than male uses the female constant.
func BMR(weightKg float64, heightCm int, ageYears int, gender models.Gender) float64 {
	base := 10*weightKg + 6.25*float64(heightCm) - 5*float64(ageYears)
	if gender == models.GenderMale {
		return base + 5
	}
	return base - 161
}

// TDEE computes total daily energy expenditure by scaling BMR with the
// activity-level multiplier. Unknown levels fall back to the moderate
// multiplier rather than failing.
func TDEE(bmr float64, level models.ActivityLevel) int {
	mult, ok := activityMultipliers[level]
	if !ok {
		mult = activityMultipliers[models.ActivityModerate]
	}
	return int(math.Round(bmr * mult))
}

// SessionCalories estimates calories burned over duration minutes as the
// average per-minute burn across the exercises. An empty exercise list
// yields 0; there is nothing meaningful to average.
func SessionCalories(exercises []models.WorkoutExercise, durationMinutes int) int {
	if len(exercises) == 0 {
		return 0
	}
	var perMinute float64
	for _, ex := range exercises {
		perMinute += ex.CaloriesPerMinute
	}
	avg := perMinute / float64(len(exercises))
	return int(math.Round(avg * float64(durationMinutes)))
}

// Targets is a daily calorie and macro prescription derived from body stats.
type Targets struct {
	BMR            float64 `json:"bmr"`
	TDEE           int     `json:"tdee"`
	BMI            float64 `json:"bmi"`
	TargetCalories int     `json:"targetCalories"`
	ProteinGrams   int     `json:"proteinGrams"`
	CarbGrams      int     `json:"carbGrams"`
	FatGrams       int     `json:"fatGrams"`
}

// CalorieTargets derives daily calorie and macro targets from the user's
// stats: TDEE adjusted by the goal deficit, protein at 1.6 g/kg, 45% of
// target calories from carbs (4 kcal/g) and 25% from fat (9 kcal/g).
// Unknown goals are treated as maintain.
func CalorieTargets(stats models.UserStats, gender models.Gender) Targets {
	bmr := BMR(stats.Weight, stats.Height, stats.Age, gender)
	tdee := TDEE(bmr, stats.ActivityLevel)
	target := tdee - goalDeficits[stats.Goal]

	return Targets{
		BMR:            bmr,
		TDEE:           tdee,
		BMI:            BMI(stats.Weight, stats.Height),
		TargetCalories: target,
		ProteinGrams:   int(math.Round(stats.Weight * 1.6)),
		CarbGrams:      int(math.Round(float64(target) * 0.45 / 4)),
		FatGrams:       int(math.Round(float64(target) * 0.25 / 9)),
	}
}

// BMICategory buckets a BMI value using Asian-population cutoffs
// (WHO expert consultation thresholds).
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 23:
		return "normal"
	case bmi < 25:
		return "overweight"
	case bmi < 30:
		return "obese class 1"
	default:
		return "obese class 2"
	}
}
