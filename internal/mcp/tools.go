package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fittrack/internal/formula"
	"github.com/meltforce/fittrack/internal/models"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("Browse the exercise catalog with optional filtering. Returns exercises with muscle group, equipment, instructions, and calories burned per minute."),
	mcp.WithString("query", mcp.Description("Case-insensitive search against exercise name or muscle group")),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group"), mcp.Enum("all", "chest", "back", "legs", "arms", "core", "shoulders", "full_body")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the user's workout programs with their exercises and an estimated calorie burn per run."),
)

var toolLogSession = mcp.NewTool("log_session",
	mcp.WithDescription("Log a completed workout session. Snapshots the workout's exercises and computes calories burned from the given duration."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("ID of the workout that was performed")),
	mcp.WithString("duration", mcp.Required(), mcp.Description("Session duration in minutes")),
	mcp.WithString("notes", mcp.Description("Free-form session notes")),
	mcp.WithString("completed_at", mcp.Description("Completion date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetProgressSummary = mcp.NewTool("get_progress_summary",
	mcp.WithDescription("Aggregate the session log over a trailing window: session count, total calories, total minutes, average calories per session."),
	mcp.WithString("period", mcp.Description("Summary window. Defaults to weekly."), mcp.Enum("weekly", "monthly")),
)

var toolGetCalorieTargets = mcp.NewTool("get_calorie_targets",
	mcp.WithDescription("Derive daily calorie and macro targets (protein/carbs/fat) from the stored body stats: BMR, TDEE, BMI, and goal-adjusted calories."),
	mcp.WithString("gender", mcp.Description("Formula input for the Mifflin-St Jeor equation. Defaults to male."), mcp.Enum("male", "female")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.workouts.SetSearchTerm(req.GetString("query", ""))

	group := models.MuscleGroup(req.GetString("muscle_group", string(models.MuscleGroupAll)))
	if group != models.MuscleGroupAll && !group.Valid() {
		return mcp.NewToolResultError("unknown muscle group: " + string(group)), nil
	}
	h.workouts.SetMuscleGroupFilter(group)

	result, err := mcp.NewToolResultJSON(h.workouts.FilteredExercises())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type workoutView struct {
		models.Workout
		EstimatedCalories int `json:"estimatedCalories"`
	}

	workouts := h.workouts.Workouts()
	views := make([]workoutView, len(workouts))
	for i, w := range workouts {
		views[i] = workoutView{Workout: w, EstimatedCalories: h.workouts.EstimatedCalories(w)}
	}

	result, err := mcp.NewToolResultJSON(views)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id is required"), nil
	}
	workoutID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + idStr), nil
	}

	durationStr, err := req.RequireString("duration")
	if err != nil {
		return mcp.NewToolResultError("duration is required"), nil
	}
	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return mcp.NewToolResultError("invalid duration: " + durationStr), nil
	}

	var completedAt time.Time
	if v := req.GetString("completed_at", ""); v != "" {
		completedAt, err = parseFlexTime(v)
		if err != nil {
			return mcp.NewToolResultError("invalid completed_at: " + v), nil
		}
	}

	session, err := h.progress.LogSession(ctx, workoutID, duration, req.GetString("notes", ""), completedAt)
	if err != nil {
		h.log.Error("mcp log_session", "error", err)
		return mcp.NewToolResultError("logging failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressSummary(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period := req.GetString("period", "weekly")

	var summary any
	switch period {
	case "weekly":
		summary = h.progress.WeeklySummary()
	case "monthly":
		summary = h.progress.MonthlySummary()
	default:
		return mcp.NewToolResultError("period must be weekly or monthly"), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCalorieTargets(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gender := models.Gender(req.GetString("gender", string(models.GenderMale)))

	targets := formula.CalorieTargets(h.progress.UserStats(), gender)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"targets":     targets,
		"bmiCategory": formula.BMICategory(targets.BMI),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
