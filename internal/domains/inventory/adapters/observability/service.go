package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	inventorytypes "github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	inventorydomain "github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

const tracerName = "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/observability/service"

// Service decorates the inventory service with tracing, logging, and metrics.
type Service struct {
	inner   inventoryports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core inventory service.
func New(inner inventoryports.Service, opts ...Option) inventoryports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) AddStock(ctx context.Context, input inventorytypes.AddStockInput) (*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.AddStock",
		trace.WithAttributes(attribute.String("stock.name", input.Name), attribute.String("stock.category", input.Category)))
	defer span.End()

	s.logInfo(ctx, "adding stock item", slog.String("stock.name", input.Name), slog.Int64("stock.quantity", input.Quantity))
	result, err := s.inner.AddStock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add stock item", slog.String("stock.name", input.Name))
	}
	span.SetAttributes(attribute.Int64("stock.id", result.ID))
	s.metrics.recordAdded(ctx)
	s.logInfo(ctx, "stock item added", slog.Int64("stock.id", result.ID))
	return result, nil
}

func (s *Service) ListStock(ctx context.Context) ([]*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.ListStock")
	defer span.End()

	result, err := s.inner.ListStock(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list stock")
	}
	span.SetAttributes(attribute.Int("stock.count", len(result)))
	return result, nil
}

func (s *Service) GetStock(ctx context.Context, input inventorytypes.StockIdentifier) (*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.GetStock", trace.WithAttributes(attribute.Int64("stock.id", input.ID)))
	defer span.End()

	result, err := s.inner.GetStock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load stock item", slog.Int64("stock.id", input.ID))
	}
	return result, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, input inventorytypes.UpdateQuantityInput) (*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.UpdateQuantity",
		trace.WithAttributes(attribute.Int64("stock.id", input.ID), attribute.Int64("stock.quantity", input.Quantity)))
	defer span.End()

	s.logInfo(ctx, "updating stock quantity", slog.Int64("stock.id", input.ID), slog.Int64("stock.quantity", input.Quantity))
	result, err := s.inner.UpdateQuantity(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update stock quantity", slog.Int64("stock.id", input.ID))
	}
	s.logInfo(ctx, "stock quantity updated", slog.Int64("stock.id", result.ID), slog.Int64("stock.quantity", result.Quantity))
	return result, nil
}

func (s *Service) UseStock(ctx context.Context, input inventorytypes.UseStockInput) (*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.UseStock",
		trace.WithAttributes(attribute.Int64("stock.id", input.ID), attribute.Int64("stock.use", input.Quantity)))
	defer span.End()

	s.logInfo(ctx, "using stock", slog.Int64("stock.id", input.ID), slog.Int64("stock.use", input.Quantity))
	result, err := s.inner.UseStock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to use stock", slog.Int64("stock.id", input.ID))
	}
	s.metrics.recordUsed(ctx, input.Quantity)
	s.logInfo(ctx, "stock used", slog.Int64("stock.id", result.ID), slog.Int64("stock.quantity", result.Quantity))
	return result, nil
}

func (s *Service) RemoveStock(ctx context.Context, input inventorytypes.StockIdentifier) (*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.RemoveStock", trace.WithAttributes(attribute.Int64("stock.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "removing stock item", slog.Int64("stock.id", input.ID))
	result, err := s.inner.RemoveStock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove stock item", slog.Int64("stock.id", input.ID))
	}
	s.metrics.recordRemoved(ctx)
	s.logInfo(ctx, "stock item removed", slog.Int64("stock.id", result.ID), slog.String("stock.name", result.Name))
	return result, nil
}

func (s *Service) FilterByCategory(ctx context.Context, input inventorytypes.FilterByCategoryInput) ([]*inventorydomain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.FilterByCategory", trace.WithAttributes(attribute.String("stock.category", input.Category)))
	defer span.End()

	result, err := s.inner.FilterByCategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to filter stock", slog.String("stock.category", input.Category))
	}
	span.SetAttributes(attribute.Int("stock.count", len(result)))
	return result, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Categories")
	defer span.End()

	result, err := s.inner.Categories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("stock.categories", len(result)))
	return result, nil
}

func (s *Service) CheckLowStock(ctx context.Context) (*inventorytypes.LowStockReport, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.CheckLowStock")
	defer span.End()

	s.logInfo(ctx, "checking low stock")
	report, err := s.inner.CheckLowStock(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to check low stock")
	}
	outcome := report.Notification
	span.SetAttributes(
		attribute.Int("stock.low.count", len(report.Items)),
		attribute.String("alert.status", string(outcome.Status)),
	)
	s.metrics.recordAlert(ctx, outcome.Status)
	attrs := []slog.Attr{
		slog.Int("stock.low.count", len(report.Items)),
		slog.String("alert.status", string(outcome.Status)),
	}
	if outcome.Fingerprint != "" {
		attrs = append(attrs, slog.String("alert.fingerprint", outcome.Fingerprint))
	}
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		s.logError(ctx, "low stock notification problem", outcome.Err, attrs...)
		return report, nil
	}
	s.logInfo(ctx, "low stock checked", attrs...)
	return report, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	itemsAdded    metric.Int64Counter
	itemsRemoved  metric.Int64Counter
	unitsUsed     metric.Int64Counter
	lowStockAlert metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("inventory.service.items_added", metric.WithDescription("Number of stock items added"))
	itemsRemoved, _ := m.Int64Counter("inventory.service.items_removed", metric.WithDescription("Number of stock items removed"))
	unitsUsed, _ := m.Int64Counter("inventory.service.units_used", metric.WithDescription("Units consumed through use_stock"))
	lowStockAlert, _ := m.Int64Counter("inventory.service.low_stock_alerts", metric.WithDescription("Low stock checks by notification outcome"))
	return serviceMetrics{itemsAdded: itemsAdded, itemsRemoved: itemsRemoved, unitsUsed: unitsUsed, lowStockAlert: lowStockAlert}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	if m.itemsRemoved != nil {
		m.itemsRemoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUsed(ctx context.Context, units int64) {
	if m.unitsUsed != nil {
		m.unitsUsed.Add(ctx, units)
	}
}

func (m serviceMetrics) recordAlert(ctx context.Context, status inventorytypes.NotificationStatus) {
	if m.lowStockAlert != nil {
		m.lowStockAlert.Add(ctx, 1, metric.WithAttributes(attribute.String("alert.status", string(status))))
	}
}

var _ inventoryports.Service = (*Service)(nil)
