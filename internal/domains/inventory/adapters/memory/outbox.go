package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

var _ ports.AlertSender = (*Outbox)(nil)

// Outbox is an AlertSender that keeps alerts in memory instead of mailing them.
type Outbox struct {
	mu     sync.Mutex
	sent   []domain.LowStockAlert
	logger *slog.Logger
	err    error
}

// NewOutbox creates an outbox. A nil logger disables logging.
func NewOutbox(logger *slog.Logger) *Outbox {
	return &Outbox{logger: logger}
}

// FailWith makes subsequent sends return err. Passing nil restores delivery.
func (o *Outbox) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Send stores the alert.
func (o *Outbox) Send(ctx context.Context, alert domain.LowStockAlert) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, alert)
	if o.logger != nil {
		o.logger.LogAttrs(ctx, slog.LevelInfo, "low stock alert stored in outbox",
			slog.String("alert.fingerprint", alert.Fingerprint),
			slog.Int("alert.items", len(alert.Lines)),
		)
	}
	return nil
}

// Sent returns a copy of the delivered alerts.
func (o *Outbox) Sent() []domain.LowStockAlert {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.LowStockAlert(nil), o.sent...)
}
