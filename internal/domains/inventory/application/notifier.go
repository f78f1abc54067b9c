package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

// DefaultSuppressionWindow is how long an identical alert is held back after delivery.
const DefaultSuppressionWindow = time.Hour

// Notifier composes low-stock alerts and hands them to a dispatcher.
type Notifier struct {
	dispatcher ports.AlertDispatcher
	log        ports.AlertLog
	window     time.Duration
	recipient  string
	now        func() time.Time
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithAlertLog enables suppression of identical alerts delivered within window.
// A zero window re-sends on every check.
func WithAlertLog(log ports.AlertLog, window time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.log = log
		n.window = window
	}
}

// WithRecipient labels alert records with the configured recipient.
func WithRecipient(recipient string) NotifierOption {
	return func(n *Notifier) {
		n.recipient = recipient
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// NewNotifier wires a dispatcher into a Notifier.
func NewNotifier(dispatcher ports.AlertDispatcher, opts ...NotifierOption) *Notifier {
	n := &Notifier{dispatcher: dispatcher, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Notify sends one alert covering items unless an identical one went out recently.
func (n *Notifier) Notify(ctx context.Context, items []*domain.StockItem) types.NotificationOutcome {
	alert, ok := domain.NewLowStockAlert(items)
	if !ok {
		return types.NotificationOutcome{Status: types.NotificationSkipped}
	}
	outcome := types.NotificationOutcome{Fingerprint: alert.Fingerprint}
	if n == nil || n.dispatcher == nil {
		outcome.Status = types.NotificationDisabled
		return outcome
	}
	var lookupErr error
	if n.log != nil && n.window > 0 {
		last, err := n.log.LastSent(ctx, alert.Fingerprint)
		switch {
		case err != nil:
			lookupErr = fmt.Errorf("load alert log: %w", err)
		case last != nil && n.now().Sub(last.SentAt) < n.window:
			outcome.Status = types.NotificationSuppressed
			return outcome
		}
	}
	delivery, err := n.dispatcher.Dispatch(ctx, alert)
	if err != nil {
		outcome.Status = types.NotificationFailed
		outcome.Err = err
		return outcome
	}
	outcome.Err = lookupErr
	if delivery == ports.Scheduled {
		outcome.Status = types.NotificationScheduled
		return outcome
	}
	outcome.Status = types.NotificationSent
	if n.log != nil {
		if err := n.log.Record(ctx, ports.NewAlertRecord(alert, n.recipient, n.now())); err != nil {
			outcome.Err = fmt.Errorf("record alert: %w", err)
		}
	}
	return outcome
}
