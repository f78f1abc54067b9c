package ports

import (
	"context"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
)

// Service defines the inventory use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddStock(ctx context.Context, input types.AddStockInput) (*domain.StockItem, error)
	ListStock(ctx context.Context) ([]*domain.StockItem, error)
	GetStock(ctx context.Context, input types.StockIdentifier) (*domain.StockItem, error)
	UpdateQuantity(ctx context.Context, input types.UpdateQuantityInput) (*domain.StockItem, error)
	UseStock(ctx context.Context, input types.UseStockInput) (*domain.StockItem, error)
	RemoveStock(ctx context.Context, input types.StockIdentifier) (*domain.StockItem, error)
	FilterByCategory(ctx context.Context, input types.FilterByCategoryInput) ([]*domain.StockItem, error)
	Categories(ctx context.Context) ([]string, error)
	CheckLowStock(ctx context.Context) (*types.LowStockReport, error)
}
