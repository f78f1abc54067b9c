package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
	alertworkflows "github.com/Apurer/stock-tracker/internal/durable/temporal/workflows/alerts"
)

var (
	_ ports.AlertDispatcher = (*TemporalAlertDispatcher)(nil)
	_ ports.AlertDispatcher = (*InlineAlertDispatcher)(nil)
)

// DefaultSendTimeout bounds an inline delivery.
const DefaultSendTimeout = 10 * time.Second

// TemporalAlertDispatcher starts alert workflows on a Temporal cluster.
type TemporalAlertDispatcher struct {
	client    client.Client
	taskQueue string
}

// NewTemporalAlertDispatcher wires a Temporal client into the dispatcher.
func NewTemporalAlertDispatcher(c client.Client) *TemporalAlertDispatcher {
	return &TemporalAlertDispatcher{client: c, taskQueue: alertworkflows.LowStockAlertTaskQueue}
}

// Dispatch starts the delivery workflow and returns once it is scheduled.
// Delivery runs on the worker, whose activity records the alert after sending.
// An identical alert that is still being delivered is not started twice.
func (d *TemporalAlertDispatcher) Dispatch(ctx context.Context, alert domain.LowStockAlert) (ports.Delivery, error) {
	if d == nil || d.client == nil {
		return 0, errors.New("temporal alert dispatcher not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                                       buildAlertWorkflowID(alert),
		TaskQueue:                                d.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	_, err := d.client.ExecuteWorkflow(
		ctx,
		options,
		alertworkflows.LowStockAlertWorkflowName,
		alertworkflows.LowStockAlertWorkflowInput{Alert: alert, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return ports.Scheduled, nil
		}
		return 0, fmt.Errorf("start low stock alert workflow: %w", err)
	}
	return ports.Scheduled, nil
}

// InlineAlertDispatcher sends through the transport directly, useful for tests or dev fallbacks.
type InlineAlertDispatcher struct {
	sender  ports.AlertSender
	timeout time.Duration
}

// NewInlineAlertDispatcher wraps a sender. A non-positive timeout uses DefaultSendTimeout.
func NewInlineAlertDispatcher(sender ports.AlertSender, timeout time.Duration) *InlineAlertDispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &InlineAlertDispatcher{sender: sender, timeout: timeout}
}

// Dispatch sends the alert under the configured timeout. Request cancellation does not abort the send.
func (d *InlineAlertDispatcher) Dispatch(ctx context.Context, alert domain.LowStockAlert) (ports.Delivery, error) {
	if d == nil || d.sender == nil {
		return 0, errors.New("inline alert dispatcher not configured")
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	if err := d.sender.Send(sendCtx, alert); err != nil {
		return 0, err
	}
	return ports.Delivered, nil
}

func buildAlertWorkflowID(alert domain.LowStockAlert) string {
	return "low-stock-alert-" + alert.Fingerprint
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
