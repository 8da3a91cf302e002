package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darkstation/chronicles/internal/config"
	"github.com/darkstation/chronicles/internal/handlers"
	"github.com/darkstation/chronicles/internal/logger"
	"github.com/darkstation/chronicles/internal/middleware"
	"github.com/darkstation/chronicles/internal/services"
	"github.com/darkstation/chronicles/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Dark Station Chronicles API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"default_backend", cfg.DefaultBackend)

	// Probe the configured backends once at startup. Sessions build their
	// own registries later; this catches a fully unconfigured deployment
	// before the server accepts traffic.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	registry, err := services.NewRegistry(probeCtx, cfg, log)
	probeCancel()
	if err != nil {
		if errors.Is(err, services.ErrNoBackendsAvailable) {
			log.Error("No AI backends are available. Configure at least one provider credential.")
		} else {
			log.Error("Failed to initialize AI backends", "error", err)
		}
		os.Exit(1)
	}
	log.Info("AI backends initialized",
		"backends", registry.Names(),
		"active", registry.Current())

	var store storage.Storage = storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	sessions := services.NewSessionService(cfg, store, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(sessions, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset; AI responses can take longer than any
		// sensible fixed write deadline.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
