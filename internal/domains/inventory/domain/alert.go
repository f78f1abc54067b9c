package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// LowStockSubject is the subject line of every low-stock alert.
const LowStockSubject = "Low Stock Alert"

const lowStockPreamble = "The following items are below the minimum threshold:\n\n"

// LowStockLine is one entry of a low-stock alert.
type LowStockLine struct {
	ItemID       int64
	Name         string
	Quantity     int64
	MinThreshold int64
}

// LowStockAlert is the composed notification for a set of low-stock items.
type LowStockAlert struct {
	Subject     string
	Body        string
	Lines       []LowStockLine
	Fingerprint string
}

// NewLowStockAlert composes an alert for items. It returns false when items is empty.
func NewLowStockAlert(items []*StockItem) (LowStockAlert, bool) {
	lines := make([]LowStockLine, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		lines = append(lines, LowStockLine{
			ItemID:       item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			MinThreshold: item.MinThreshold,
		})
	}
	if len(lines) == 0 {
		return LowStockAlert{}, false
	}
	var body strings.Builder
	body.WriteString(lowStockPreamble)
	for _, line := range lines {
		fmt.Fprintf(&body, "- %s: %d remaining (Minimum: %d)\n", line.Name, line.Quantity, line.MinThreshold)
	}
	return LowStockAlert{
		Subject:     LowStockSubject,
		Body:        body.String(),
		Lines:       lines,
		Fingerprint: fingerprint(lines),
	}, true
}

// fingerprint is independent of line order so the same low-stock set always hashes equally.
func fingerprint(lines []LowStockLine) string {
	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		keys = append(keys, fmt.Sprintf("%d:%d:%d", line.ItemID, line.Quantity, line.MinThreshold))
	}
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(strings.Join(keys, "|")))
	return hex.EncodeToString(sum[:16])
}
