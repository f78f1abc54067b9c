package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	stockserver "github.com/Apurer/stock-tracker/go"

	stockmemory "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/memory"
	stocksmtp "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/notifier/smtp"
	stockobs "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/observability"
	stockpostgres "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/persistence/postgres"
	stockworkflows "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/workflows"
	inventoryapp "github.com/Apurer/stock-tracker/internal/domains/inventory/application"
	inventoryports "github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
	"github.com/Apurer/stock-tracker/internal/platform/migrations"
	platformobservability "github.com/Apurer/stock-tracker/internal/platform/observability"
	platformpostgres "github.com/Apurer/stock-tracker/internal/platform/postgres"
	platformtemporal "github.com/Apurer/stock-tracker/internal/platform/temporal"
)

const (
	serviceName     = "stock-tracker-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the inventory HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	service, cleanup, err := BuildService(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           NewHandler(service),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("stock tracker API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("stock tracker API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down stock tracker API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// NewHandler builds the gin engine serving the stock API.
func NewHandler(service inventoryports.Service) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	return stockserver.NewRouterWithGinEngine(engine, stockserver.ApiHandleFunctions{
		StockAPI: stockserver.NewStockAPI(service),
	})
}

// BuildService wires storage, alert delivery, and observability into the inventory service.
// The returned cleanup releases the database and Temporal connections.
func BuildService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (inventoryports.Service, func(), error) {
	logger := instruments.Logger
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repo, alertLog, closeDB, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	cleanups = append(cleanups, closeDB)

	sender, err := NewAlertSender(cfg.SMTP, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	var dispatcher inventoryports.AlertDispatcher = stockworkflows.NewInlineAlertDispatcher(sender, cfg.SMTP.Timeout)
	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
	}, instruments.Tracer("temporal-client"), logger)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, sending low stock alerts inline", slog.String("error", err.Error()))
	} else {
		cleanups = append(cleanups, temporalClient.Close)
		dispatcher = stockworkflows.NewTemporalAlertDispatcher(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	notifier := inventoryapp.NewNotifier(dispatcher,
		inventoryapp.WithAlertLog(alertLog, cfg.SuppressionWindow),
		inventoryapp.WithRecipient(cfg.SMTP.Recipient),
	)
	core := inventoryapp.NewService(repo, inventoryapp.WithNotifier(notifier))
	service := stockobs.New(
		core,
		stockobs.WithLogger(logger),
		stockobs.WithTracer(instruments.Tracer("internal.inventory.application")),
		stockobs.WithMeter(instruments.Meter("internal.inventory.application")),
	)
	return service, cleanup, nil
}

// NewAlertSender returns the SMTP transport when configured, otherwise the logging outbox.
func NewAlertSender(cfg SMTPConfig, logger *slog.Logger) (inventoryports.AlertSender, error) {
	if !cfg.Enabled() {
		if logger != nil {
			logger.Warn("SMTP_HOST not set, low stock alerts are kept in the in-memory outbox")
		}
		return stockmemory.NewOutbox(logger), nil
	}
	sender, err := stocksmtp.NewSender(cfg.SenderConfig())
	if err != nil {
		return nil, fmt.Errorf("configure smtp sender: %w", err)
	}
	return sender, nil
}

// OpenAlertLog returns the alert log the worker records deliveries in.
// Without POSTGRES_DSN the log is process-local and cannot suppress API checks.
func OpenAlertLog(ctx context.Context, cfg Config, logger *slog.Logger) (inventoryports.AlertLog, func(), error) {
	_, alertLog, closeDB, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return nil, func() {}, err
	}
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, delivered alerts are only recorded in worker memory")
	}
	return alertLog, closeDB, nil
}

func buildStorage(ctx context.Context, cfg Config, logger *slog.Logger) (inventoryports.Repository, inventoryports.AlertLog, func(), error) {
	db, closeDB, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return nil, nil, func() {}, err
	}
	if db == nil {
		return stockmemory.NewRepository(), stockmemory.NewAlertLog(), closeDB, nil
	}
	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			closeDB()
			return nil, nil, func() {}, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("inventory schema migrated")
	}
	logger.Info("inventory repository configured with postgres")
	return stockpostgres.NewRepository(db), stockpostgres.NewAlertLog(db), closeDB, nil
}
