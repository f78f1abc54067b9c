package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	stockmemory "github.com/Apurer/stock-tracker/internal/domains/inventory/adapters/memory"
	inventoryapp "github.com/Apurer/stock-tracker/internal/domains/inventory/application"
	inventorytypes "github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	inventorydomain "github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

type failingDispatcher struct{}

func (failingDispatcher) Dispatch(context.Context, inventorydomain.LowStockAlert) (inventoryports.Delivery, error) {
	return 0, errors.New("smtp unavailable")
}

type harness struct {
	svc    inventoryports.Service
	logs   *bytes.Buffer
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newHarness(t *testing.T, opts ...inventoryapp.Option) harness {
	t.Helper()
	logs := &bytes.Buffer{}
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	inner := inventoryapp.NewService(stockmemory.NewRepository(), opts...)
	svc := New(inner,
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	return harness{svc: svc, logs: logs, spans: spans, reader: reader}
}

func (h harness) counter(t *testing.T, name string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	values := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value("alert.status")
				values[status.AsString()] += dp.Value
			}
		}
	}
	return values
}

func TestService_RecordsSpansAndCounters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.svc.AddStock(ctx, inventorytypes.AddStockInput{Name: "Bolts", Quantity: 10, MinThreshold: 5})
	require.NoError(t, err)
	_, err = h.svc.UseStock(ctx, inventorytypes.UseStockInput{ID: item.ID, Quantity: 4})
	require.NoError(t, err)
	_, err = h.svc.RemoveStock(ctx, inventorytypes.StockIdentifier{ID: item.ID})
	require.NoError(t, err)

	require.Equal(t, map[string]int64{"": 1}, h.counter(t, "inventory.service.items_added"))
	require.Equal(t, map[string]int64{"": 4}, h.counter(t, "inventory.service.units_used"))
	require.Equal(t, map[string]int64{"": 1}, h.counter(t, "inventory.service.items_removed"))

	names := []string{}
	for _, span := range h.spans.Ended() {
		names = append(names, span.Name())
	}
	require.Equal(t, []string{"InventoryService.AddStock", "InventoryService.UseStock", "InventoryService.RemoveStock"}, names)
	require.Contains(t, h.logs.String(), `"msg":"stock item added"`)
}

func TestService_ErrorsAreLoggedAndReturned(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.UseStock(context.Background(), inventorytypes.UseStockInput{ID: 5, Quantity: 1})

	require.Error(t, err)
	require.Contains(t, h.logs.String(), `"level":"ERROR"`)
	require.Contains(t, h.logs.String(), "failed to use stock")
	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestService_CheckLowStockReportsNotificationFailure(t *testing.T) {
	h := newHarness(t, inventoryapp.WithNotifier(inventoryapp.NewNotifier(failingDispatcher{})))
	ctx := context.Background()
	_, err := h.svc.AddStock(ctx, inventorytypes.AddStockInput{Name: "Bolts", Quantity: 1, MinThreshold: 5})
	require.NoError(t, err)

	report, err := h.svc.CheckLowStock(ctx)

	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	require.Equal(t, inventorytypes.NotificationFailed, report.Notification.Status)
	require.Contains(t, h.logs.String(), "low stock notification problem")
	require.Contains(t, h.logs.String(), "smtp unavailable")
	require.Equal(t, map[string]int64{"failed": 1}, h.counter(t, "inventory.service.low_stock_alerts"))
}
