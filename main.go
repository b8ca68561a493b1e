package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vibealong/onboarding/cliparse"
	"github.com/vibealong/onboarding/db"
	"github.com/vibealong/onboarding/middleware"
	"github.com/vibealong/onboarding/router"
	"github.com/vibealong/onboarding/wizard"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Optional .env for local development
	if err := cliparse.LoadEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Signup flavors
	catalog := wizard.DefaultCatalog()
	if cfg.FlavorsFile != "" {
		catalog, err = wizard.LoadCatalogFile(cfg.FlavorsFile)
		if err != nil {
			slog.Error("failed to load flavors", "file", cfg.FlavorsFile, "error", err)
			os.Exit(1)
		}
	}
	if _, err := catalog.Lookup(cfg.Flavor); err != nil {
		slog.Error("default flavor not in catalog", "flavor", cfg.Flavor, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := wizard.NewStore(cfg.SessionTTL)

	// Create router
	mux := router.NewRouter(dbConn, cfg, catalog, sessions)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	// Signup sessions, swept in the background
	eg.Go(func() error {
		sessions.Run(egCtx, time.Minute)
		return nil
	})

	eg.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "flavor", cfg.Flavor)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		// Wait for Ctrl-C signal or a failed listener
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
