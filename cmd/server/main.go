// Package main implements the entry point for the Listo API server,
// a multi-user task manager with scheduled email reminders.
package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires the application together and serves until
// a shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"profile", cfg.Server.Profile)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	app.start()

	if err := app.serveHTTP(); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}

	return nil
}
