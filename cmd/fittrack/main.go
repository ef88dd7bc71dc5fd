package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/fittrack/internal/catalog"
	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/kv"
	"github.com/meltforce/fittrack/internal/server"
	"github.com/meltforce/fittrack/internal/store"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres driver)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FitTrack starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the persistence backend
	var kvStore kv.Store
	switch cfg.Storage.Driver {
	case "postgres":
		if err := kv.RunMigrations(cfg.Storage.DSN, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}
		kvStore, err = kv.OpenPostgres(ctx, cfg.Storage.DSN)
	default:
		kvStore, err = kv.OpenSQLite(cfg.Storage.DataDir)
	}
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer kvStore.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver)

	// Catalog provider
	var provider catalog.Provider = catalog.Static()
	if cfg.Catalog.Path != "" {
		provider = catalog.FileProvider{Path: cfg.Catalog.Path}
	}

	// Build the stores and load the catalog
	workouts := store.NewWorkoutStore(ctx, kvStore, provider, log)
	if err := workouts.LoadCatalog(ctx); err != nil {
		log.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	progress := store.NewProgressStore(ctx, kvStore, workouts.Workout, log)

	srv := server.New(workouts, progress, cfg.Auth.APIKey, log)

	// Start listener, tsnet or plain TCP.
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
