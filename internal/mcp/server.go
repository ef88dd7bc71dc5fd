// Package mcp exposes the workout catalog and progress log to LLM tooling
// over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/store"
)

// New creates an MCP server with all tools and resources registered.
func New(workouts *store.WorkoutStore, progress *store.ProgressStore, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitTrack workout tracker. Browse the exercise catalog and workout programs, log completed sessions, and query progress summaries and calorie targets."),
	)

	h := &handlers{workouts: workouts, progress: progress, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolLogSession, Handler: h.logSession},
		server.ServerTool{Tool: toolGetProgressSummary, Handler: h.getProgressSummary},
		server.ServerTool{Tool: toolGetCalorieTargets, Handler: h.getCalorieTargets},
	)

	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	workouts *store.WorkoutStore
	progress *store.ProgressStore
	log      *slog.Logger
}

var resCatalog = mcp.NewResource(
	"fittrack://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("The full exercise library with muscle groups, equipment, instructions, and per-minute calorie burn"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) catalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.workouts.Exercises())
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
