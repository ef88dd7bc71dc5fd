// fittrack-mcp serves the FitTrack MCP tools over stdio, operating directly
// on the local data directory. Point an MCP-capable client at this binary to
// browse the catalog, log sessions, and query progress.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/catalog"
	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/mcp"
	"github.com/meltforce/fittrack/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dataDir := flag.String("data-dir", "data", "data directory holding fittrack.db")
	catalogPath := flag.String("catalog", "", "optional JSON exercise catalog")
	flag.Parse()

	// Log to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	kvStore, err := kv.OpenSQLite(*dataDir)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kvStore.Close()

	var provider catalog.Provider = catalog.Static()
	if *catalogPath != "" {
		provider = catalog.FileProvider{Path: *catalogPath}
	}

	ctx := context.Background()
	workouts := store.NewWorkoutStore(ctx, kvStore, provider, log)
	if err := workouts.LoadCatalog(ctx); err != nil {
		log.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	progress := store.NewProgressStore(ctx, kvStore, workouts.Workout, log)

	srv := mcp.New(workouts, progress, Version, log)

	log.Info("FitTrack MCP server starting", "version", Version, "data_dir", *dataDir)
	if err := mcpserver.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
