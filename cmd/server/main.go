// Package main implements the entry point for the Scribe API server, which
// accepts topic submissions over HTTP and turns them into generated articles
// with a background poller.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scribe-api/internal/config"
	"github.com/phrazzld/scribe-api/internal/platform/logger"
)

func main() {
	mode := flag.String("mode", "", "process role: all, api or worker (overrides server.mode)")
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(*mode, *migrateCmd); err != nil {
		log.Fatalf("scribe-api: %v", err)
	}
}

// run loads configuration, connects to the database and either executes a
// migration command or runs the application until SIGINT or SIGTERM.
func run(mode, migrateCmd string) error {
	cfg, err := loadConfig(mode)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("mode", cfg.Server.Mode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, l)
		return runMigrations(ctx, db, migrateCmd, l)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, "up", l); err != nil {
			closeDB(db, l)
			return err
		}
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadConfig loads configuration and applies the -mode flag on top of it.
func loadConfig(mode string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if mode != "" {
		cfg.Server.Mode = mode
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
