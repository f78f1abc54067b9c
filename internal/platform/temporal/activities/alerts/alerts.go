package alerts

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

// SendLowStockAlertActivityName delivers a composed low-stock alert through the configured transport.
const SendLowStockAlertActivityName = "inventory.activities.SendLowStockAlert"

// Activities groups activities that deliver inventory alerts.
type Activities struct {
	sender    ports.AlertSender
	log       ports.AlertLog
	recipient string
	now       func() time.Time
}

// NewActivities wires the alert transport into the Temporal activities bundle.
// Delivered alerts are written to log, when set, so API checks can suppress repeats.
func NewActivities(sender ports.AlertSender, log ports.AlertLog, recipient string) *Activities {
	return &Activities{sender: sender, log: log, recipient: recipient, now: time.Now}
}

// SendLowStockAlert hands the alert to the transport and records it once accepted.
// A failing record does not fail the activity: the mail already went out.
func (a *Activities) SendLowStockAlert(ctx context.Context, alert domain.LowStockAlert) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.sender == nil {
		logger.Error("alert activity not initialized", "fingerprint", alert.Fingerprint)
		return errors.New("alert activity not initialized")
	}
	logger.Info("SendLowStockAlert activity started", "fingerprint", alert.Fingerprint, "items", len(alert.Lines))
	if err := a.sender.Send(ctx, alert); err != nil {
		logger.Error("SendLowStockAlert activity failed", "fingerprint", alert.Fingerprint, "error", err)
		return err
	}
	if a.log != nil {
		if err := a.log.Record(ctx, ports.NewAlertRecord(alert, a.recipient, a.now())); err != nil {
			logger.Warn("SendLowStockAlert could not record delivery", "fingerprint", alert.Fingerprint, "error", err)
		}
	}
	logger.Info("SendLowStockAlert activity completed", "fingerprint", alert.Fingerprint)
	return nil
}
