package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ubuygold/recordkeeper/internal/admin"
	"github.com/ubuygold/recordkeeper/internal/api"
	"github.com/ubuygold/recordkeeper/internal/config"
	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/logger"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, warning, err := config.LoadConfig("config.yaml")
	if err != nil {
		// Use a temporary logger for startup errors
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(cfg.Debug)
	log.Info("Logger initialized", "debug_mode", cfg.Debug)
	if warning != "" {
		log.Warn(warning)
	}

	// Initialize database
	dbService, err := db.NewService(cfg.Database)
	if err != nil {
		log.Error("Error initializing database", "error", err)
		os.Exit(1)
	}
	log.Info("Database initialized", "type", cfg.Database.Type)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := setupAndRunServer(ctx, cfg, log, dbService)
	if err := dbService.Close(); err != nil {
		log.Error("Error closing database", "error", err)
	}
	if runErr != nil {
		log.Error("Server stopped with error", "error", runErr)
		os.Exit(1)
	}
	log.Info("Server exiting")
}

func setupRouter(cfg *config.Config, log *slog.Logger, dbService db.Service) *gin.Engine {
	router := gin.New()
	router.Use(api.Recovery(log))
	router.Use(logger.RequestLogger(log))

	// If debug mode is enabled, add the gin access log as well
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	api.SetupRoutes(router, dbService, cfg, log)
	if admin.SetupRoutes(router, dbService, cfg, log) {
		log.Info("Admin routes enabled")
	}
	return router
}

// setupAndRunServer serves until ctx is done, then drains in-flight requests.
func setupAndRunServer(ctx context.Context, cfg *config.Config, log *slog.Logger, dbService db.Service) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: setupRouter(cfg, log, dbService),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
