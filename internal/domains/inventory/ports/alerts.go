package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
)

// AlertSender delivers a composed alert through a transport.
type AlertSender interface {
	Send(ctx context.Context, alert domain.LowStockAlert) error
}

// Delivery reports how far a dispatched alert got before Dispatch returned.
type Delivery int

const (
	// Delivered means the transport accepted the alert.
	Delivered Delivery = iota + 1
	// Scheduled means delivery continues elsewhere and records itself once done.
	Scheduled
)

// AlertDispatcher hands an alert to the delivery path (inline or durable).
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert domain.LowStockAlert) (Delivery, error)
}

// AlertRecord remembers a delivered alert.
type AlertRecord struct {
	ID          string
	Fingerprint string
	ItemCount   int
	Recipient   string
	SentAt      time.Time
}

// NewAlertRecord describes alert as delivered to recipient at sentAt.
func NewAlertRecord(alert domain.LowStockAlert, recipient string, sentAt time.Time) AlertRecord {
	return AlertRecord{
		ID:          uuid.NewString(),
		Fingerprint: alert.Fingerprint,
		ItemCount:   len(alert.Lines),
		Recipient:   recipient,
		SentAt:      sentAt,
	}
}

// AlertLog stores delivered alerts so identical alerts can be suppressed.
type AlertLog interface {
	// LastSent returns the most recent record for fingerprint, or nil when none exists.
	LastSent(ctx context.Context, fingerprint string) (*AlertRecord, error)
	Record(ctx context.Context, record AlertRecord) error
}
