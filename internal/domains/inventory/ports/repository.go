package ports

import (
	"context"
	"errors"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("stock item not found")

// Repository persists stock items. Every mutation is scoped to a single row.
type Repository interface {
	Create(ctx context.Context, item *domain.StockItem) (*domain.StockItem, error)
	GetByID(ctx context.Context, id int64) (*domain.StockItem, error)
	List(ctx context.Context) ([]*domain.StockItem, error)
	SetQuantity(ctx context.Context, id int64, quantity int64) (*domain.StockItem, error)
	// Decrement subtracts amount only while the stored quantity covers it.
	// It returns domain.ErrInsufficientStock when it does not.
	Decrement(ctx context.Context, id int64, amount int64) (*domain.StockItem, error)
	// Delete removes the item and returns its last stored state.
	Delete(ctx context.Context, id int64) (*domain.StockItem, error)
	FindByCategory(ctx context.Context, fragment string) ([]*domain.StockItem, error)
	Categories(ctx context.Context) ([]string, error)
	ListLowStock(ctx context.Context) ([]*domain.StockItem, error)
}
