package types

import "github.com/Apurer/stock-tracker/internal/domains/inventory/domain"

// StockIdentifier addresses a single stock item.
type StockIdentifier struct {
	ID int64
}

// FilterByCategoryInput selects items whose category contains Category, ignoring case.
type FilterByCategoryInput struct {
	Category string
}

// NotificationStatus describes what happened to the low-stock alert of a check.
type NotificationStatus string

const (
	NotificationSkipped    NotificationStatus = "skipped"
	NotificationSent       NotificationStatus = "sent"
	NotificationScheduled  NotificationStatus = "scheduled"
	NotificationSuppressed NotificationStatus = "suppressed"
	NotificationFailed     NotificationStatus = "failed"
	NotificationDisabled   NotificationStatus = "disabled"
)

// NotificationOutcome reports the side effect of a low-stock check.
type NotificationOutcome struct {
	Status      NotificationStatus
	Fingerprint string
	Err         error
}

// LowStockReport is the result of a low-stock check.
type LowStockReport struct {
	Items        []*domain.StockItem
	Notification NotificationOutcome
}
