package alerts

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/durable/temporal/sequences"
)

const (
	// LowStockAlertWorkflowName is the public identifier for registering the workflow.
	LowStockAlertWorkflowName = "inventory.workflows.LowStockAlert"
	// LowStockAlertTaskQueue is the queue consumed by the worker delivering alerts.
	LowStockAlertTaskQueue = "LOW_STOCK_ALERTS"
)

// WorkflowRegistry is satisfied by Temporal workers and test environments.
type WorkflowRegistry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
}

// Register adds the alert workflow to r under LowStockAlertWorkflowName, the
// type name dispatchers start it by.
func Register(r WorkflowRegistry) {
	r.RegisterWorkflowWithOptions(LowStockAlertWorkflow, workflow.RegisterOptions{Name: LowStockAlertWorkflowName})
}

// LowStockAlertWorkflowInput captures the alert to deliver.
type LowStockAlertWorkflowInput struct {
	Alert   domain.LowStockAlert
	TraceID string
}

// LowStockAlertWorkflow delivers a composed low-stock alert.
func LowStockAlertWorkflow(ctx workflow.Context, input LowStockAlertWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("LowStockAlertWorkflow started", withTraceID(input.TraceID, "fingerprint", input.Alert.Fingerprint)...)
	if err := sequences.RunAlertDeliverySequence(ctx, input.Alert); err != nil {
		logger.Error("LowStockAlertWorkflow failed", withTraceID(input.TraceID, "fingerprint", input.Alert.Fingerprint, "error", err)...)
		return err
	}
	logger.Info("LowStockAlertWorkflow completed", withTraceID(input.TraceID, "fingerprint", input.Alert.Fingerprint)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
