package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ringside/wrestling-pulse/internal/analytics"
	"github.com/ringside/wrestling-pulse/internal/cache"
	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/ringside/wrestling-pulse/internal/monitoring"
	"github.com/ringside/wrestling-pulse/internal/notifications"
	"github.com/ringside/wrestling-pulse/internal/scheduler"
	"github.com/ringside/wrestling-pulse/internal/server"
	"github.com/ringside/wrestling-pulse/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Wrestling Pulse")

	ctx := context.Background()

	snapshots, err := newSnapshotStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	roster, err := newRosterStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize roster store: %v", err)
	}
	defer roster.Close()

	notificationService := notifications.NewService(cfg)

	monitoringService := monitoring.NewService(
		cfg,
		monitoring.DefaultSources(cfg),
		roster,
		cache.New[[]models.TextRecord](cfg.CacheTTL),
		snapshots,
		notificationService,
	)

	schedulerService, err := scheduler.NewService(cfg, monitoringService)
	if err != nil {
		logrus.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	httpServer := server.NewServer(cfg, monitoringService, roster)
	go func() {
		if err := httpServer.Start(); err != nil {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newSnapshotStorage uses Azure Blob Storage when an account is configured and
// a local directory otherwise
func newSnapshotStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount == "" {
		logrus.Infof("No storage account configured, archiving snapshots under %s", cfg.SnapshotDir)
		return storage.NewLocalStorage(cfg.SnapshotDir)
	}
	return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
}

// newRosterStore opens the roster database and seeds it with the built-in roster
func newRosterStore(ctx context.Context, cfg *config.Config) (*storage.RosterStore, error) {
	path := cfg.RosterDBPath
	if path == "" {
		path = ":memory:"
	}

	roster, err := storage.NewRosterStore(path)
	if err != nil {
		return nil, err
	}

	seed := cfg.Roster
	if len(seed) == 0 {
		seed = analytics.DefaultRoster
	}
	if err := roster.Seed(ctx, seed, analytics.HomePromotion); err != nil {
		roster.Close()
		return nil, err
	}

	if cfg.RosterFile != "" {
		f, err := os.Open(cfg.RosterFile)
		if err != nil {
			roster.Close()
			return nil, fmt.Errorf("open roster file: %w", err)
		}
		defer f.Close()

		n, err := roster.ImportYAML(ctx, f)
		if err != nil {
			roster.Close()
			return nil, err
		}
		logrus.Infof("Imported %d wrestlers from %s", n, cfg.RosterFile)
	}
	return roster, nil
}
