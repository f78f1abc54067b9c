package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/Apurer/stock-tracker/internal/app/api"
	platformobservability "github.com/Apurer/stock-tracker/internal/platform/observability"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "stock-tracker-low-stock-check")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	service, cleanup, err := api.BuildService(ctx, cfg, instruments)
	if err != nil {
		log.Fatalf("failed to wire inventory service: %v", err)
	}
	defer cleanup()

	report, err := service.CheckLowStock(ctx)
	if err != nil {
		log.Fatalf("low stock check failed: %v", err)
	}
	logger.Info("low stock check completed",
		slog.Int("stock.low.count", len(report.Items)),
		slog.String("alert.status", string(report.Notification.Status)),
	)
	if totals, err := instruments.CounterTotals(ctx); err == nil {
		logger.Info("low stock check metrics", slog.Int64("low_stock_alerts", totals["inventory.service.low_stock_alerts"]))
	}
}
