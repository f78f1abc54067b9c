package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	alertactivities "github.com/Apurer/stock-tracker/internal/platform/temporal/activities/alerts"
)

// AlertSendTimeout bounds a single delivery attempt.
const AlertSendTimeout = 30 * time.Second

// RunAlertDeliverySequence executes the delivery activity once. Failed sends are not retried.
func RunAlertDeliverySequence(ctx workflow.Context, alert domain.LowStockAlert) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("alert delivery sequence started", "fingerprint", alert.Fingerprint)
	sendOptions := workflow.ActivityOptions{
		StartToCloseTimeout: AlertSendTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, sendOptions), alertactivities.SendLowStockAlertActivityName, alert).Get(ctx, nil)
	if err != nil {
		logger.Error("alert delivery sequence failed", "fingerprint", alert.Fingerprint, "error", err)
		return err
	}
	logger.Info("alert delivery sequence delivered", "fingerprint", alert.Fingerprint)
	return nil
}
