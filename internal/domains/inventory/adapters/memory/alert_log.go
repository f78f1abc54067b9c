package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

var _ ports.AlertLog = (*AlertLog)(nil)

// AlertLog keeps the latest delivered alert per fingerprint in memory.
type AlertLog struct {
	mu      sync.RWMutex
	records map[string]ports.AlertRecord
}

// NewAlertLog creates an empty in-memory alert log.
func NewAlertLog() *AlertLog {
	return &AlertLog{records: map[string]ports.AlertRecord{}}
}

// LastSent returns the latest record for the fingerprint, or nil when unknown.
func (l *AlertLog) LastSent(_ context.Context, fingerprint string) (*ports.AlertRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.records[fingerprint]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Record stores the record, replacing older entries with the same fingerprint.
func (l *AlertLog) Record(_ context.Context, record ports.AlertRecord) error {
	if record.Fingerprint == "" {
		return errors.New("alert fingerprint is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.records[record.Fingerprint]; ok && existing.SentAt.After(record.SentAt) {
		return nil
	}
	l.records[record.Fingerprint] = record
	return nil
}
