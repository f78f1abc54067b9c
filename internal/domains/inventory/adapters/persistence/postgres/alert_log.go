package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

var _ ports.AlertLog = (*AlertLog)(nil)

// AlertLog persists delivered low-stock alerts in PostgreSQL.
type AlertLog struct {
	db *gorm.DB
}

// NewAlertLog wires a PostgreSQL-backed alert log.
func NewAlertLog(db *gorm.DB) *AlertLog {
	return &AlertLog{db: db}
}

type alertRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:36"`
	Fingerprint string    `gorm:"column:fingerprint;size:64;index:idx_low_stock_alerts_fingerprint_sent"`
	ItemCount   int       `gorm:"column:item_count"`
	Recipient   string    `gorm:"column:recipient;size:255"`
	SentAt      time.Time `gorm:"column:sent_at;index:idx_low_stock_alerts_fingerprint_sent"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (alertRecord) TableName() string { return "low_stock_alerts" }

// LastSent loads the most recent record for the fingerprint, returning nil when absent.
func (l *AlertLog) LastSent(ctx context.Context, fingerprint string) (*ports.AlertRecord, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	var record alertRecord
	err := l.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		Order("sent_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ports.AlertRecord{
		ID:          record.ID,
		Fingerprint: record.Fingerprint,
		ItemCount:   record.ItemCount,
		Recipient:   record.Recipient,
		SentAt:      record.SentAt,
	}, nil
}

// Record appends a delivered alert.
func (l *AlertLog) Record(ctx context.Context, record ports.AlertRecord) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	if record.ID == "" || record.Fingerprint == "" {
		return errors.New("alert id and fingerprint are required")
	}
	row := alertRecord{
		ID:          record.ID,
		Fingerprint: record.Fingerprint,
		ItemCount:   record.ItemCount,
		Recipient:   record.Recipient,
		SentAt:      record.SentAt,
	}
	return l.db.WithContext(ctx).Create(&row).Error
}

func (l *AlertLog) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres alert log not configured")
	}
	return nil
}
