package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the inventory schema. It is idempotent and runs outside request serving.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&stockItemRecord{},
		&alertRecord{},
	)
}

// Stock item schema mirrors the inventory Postgres adapter.
type stockItemRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	Category     string    `gorm:"column:category;type:varchar(100);not null;default:'';index"`
	Quantity     int64     `gorm:"column:quantity;not null"`
	MinThreshold int64     `gorm:"column:min_threshold;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (stockItemRecord) TableName() string { return "stock_items" }

// Alert schema mirrors the inventory alert log.
type alertRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:36"`
	Fingerprint string    `gorm:"column:fingerprint;size:64;index:idx_low_stock_alerts_fingerprint_sent"`
	ItemCount   int       `gorm:"column:item_count"`
	Recipient   string    `gorm:"column:recipient;size:255"`
	SentAt      time.Time `gorm:"column:sent_at;index:idx_low_stock_alerts_fingerprint_sent"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (alertRecord) TableName() string { return "low_stock_alerts" }
