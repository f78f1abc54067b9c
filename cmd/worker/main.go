package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	"github.com/Apurer/stock-tracker/internal/app/api"
	alertworkflows "github.com/Apurer/stock-tracker/internal/durable/temporal/workflows/alerts"
	platformobservability "github.com/Apurer/stock-tracker/internal/platform/observability"
	platformtemporal "github.com/Apurer/stock-tracker/internal/platform/temporal"
	alertactivities "github.com/Apurer/stock-tracker/internal/platform/temporal/activities/alerts"
)

func main() {
	ctx := context.Background()
	const serviceName = "stock-tracker-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	sender, err := api.NewAlertSender(cfg.SMTP, logger)
	if err != nil {
		logger.Error("failed to configure alert transport", slog.String("error", err.Error()))
		os.Exit(1)
	}
	alertLog, closeDB, err := api.OpenAlertLog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open alert log", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeDB()
	activities := alertactivities.NewActivities(sender, alertLog, cfg.SMTP.Recipient)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-worker"), logger)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, alertworkflows.LowStockAlertTaskQueue, worker.Options{})
	alertworkflows.Register(w)
	w.RegisterActivityWithOptions(activities.SendLowStockAlert, activity.RegisterOptions{Name: alertactivities.SendLowStockAlertActivityName})

	logger.Info("worker listening", slog.String("taskQueue", alertworkflows.LowStockAlertTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
