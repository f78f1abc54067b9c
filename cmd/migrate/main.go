package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/stock-tracker/internal/app/api"
	"github.com/Apurer/stock-tracker/internal/platform/migrations"
	platformobservability "github.com/Apurer/stock-tracker/internal/platform/observability"
	platformpostgres "github.com/Apurer/stock-tracker/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "stock-tracker-migrate")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	logger := instruments.Logger

	runErr := run(ctx, cfg, logger)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
	}
	if runErr != nil {
		logger.Error("migration failed", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	logger.Info("inventory schema is up to date")
}

func run(ctx context.Context, cfg api.Config, logger *slog.Logger) error {
	db, closeDB, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return err
	}
	defer closeDB()
	if db == nil {
		return errors.New("POSTGRES_DSN or DATABASE_URL must be set to migrate")
	}
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
