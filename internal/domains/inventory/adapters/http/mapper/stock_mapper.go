package mapper

import (
	inventorytypes "github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	inventorydomain "github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
)

// AddStockRequest is the body of POST /add_stock.
type AddStockRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	Quantity     *int64 `json:"quantity" binding:"required"`
	MinThreshold *int64 `json:"min_threshold" binding:"required"`
}

// QuantityRequest is the body of the update and use endpoints.
type QuantityRequest struct {
	Quantity *int64 `json:"quantity"`
}

// StockItem is the transport shape of a stock record.
type StockItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int64  `json:"quantity"`
	MinThreshold int64  `json:"min_threshold"`
}

// LowStockItem is the transport shape returned by /check_low_stock.
type LowStockItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	MinThreshold int64  `json:"min_threshold"`
}

// MessageResponse confirms a mutation.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// ToAddStockInput converts the request body into the application input.
func ToAddStockInput(req AddStockRequest) inventorytypes.AddStockInput {
	input := inventorytypes.AddStockInput{Name: req.Name, Category: req.Category}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}
	if req.MinThreshold != nil {
		input.MinThreshold = *req.MinThreshold
	}
	return input
}

// QuantityOrZero returns the requested quantity, treating an absent value as zero.
func (r QuantityRequest) QuantityOrZero() int64 {
	if r.Quantity == nil {
		return 0
	}
	return *r.Quantity
}

// FromDomain converts a stock item to its transport representation.
func FromDomain(item *inventorydomain.StockItem) StockItem {
	if item == nil {
		return StockItem{}
	}
	return StockItem{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		Quantity:     item.Quantity,
		MinThreshold: item.MinThreshold,
	}
}

// FromDomainList converts items, always returning a non-nil slice.
func FromDomainList(items []*inventorydomain.StockItem) []StockItem {
	result := make([]StockItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		result = append(result, FromDomain(item))
	}
	return result
}

// FromLowStockList converts low-stock items, always returning a non-nil slice.
func FromLowStockList(items []*inventorydomain.StockItem) []LowStockItem {
	result := make([]LowStockItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		result = append(result, LowStockItem{
			ID:           item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			MinThreshold: item.MinThreshold,
		})
	}
	return result
}
