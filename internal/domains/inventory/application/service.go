package application

import (
	"context"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/application/types"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

// Service orchestrates the inventory use cases.
type Service struct {
	repo     ports.Repository
	notifier *Notifier
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithNotifier enables low-stock alerts on CheckLowStock.
func WithNotifier(notifier *Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// NewService wires the inventory service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddStock validates and persists a new stock item.
func (s *Service) AddStock(ctx context.Context, input types.AddStockInput) (*domain.StockItem, error) {
	item, err := domain.NewStockItem(input.Name, input.Category, input.Quantity, input.MinThreshold)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// ListStock returns every stock item in insertion order.
func (s *Service) ListStock(ctx context.Context) ([]*domain.StockItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// GetStock loads a single stock item.
func (s *Service) GetStock(ctx context.Context, input types.StockIdentifier) (*domain.StockItem, error) {
	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// UpdateQuantity overwrites the quantity of an existing item.
func (s *Service) UpdateQuantity(ctx context.Context, input types.UpdateQuantityInput) (*domain.StockItem, error) {
	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := item.SetQuantity(input.Quantity); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.SetQuantity(ctx, input.ID, input.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// UseStock consumes units of an item. The stored quantity never goes negative.
func (s *Service) UseStock(ctx context.Context, input types.UseStockInput) (*domain.StockItem, error) {
	item, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.CheckUse(item.Quantity, input.Quantity); err != nil {
		return nil, mapError(err)
	}
	// The repository re-checks the quantity atomically; a concurrent use may still win.
	updated, err := s.repo.Decrement(ctx, input.ID, input.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// RemoveStock deletes an item and returns its last state.
func (s *Service) RemoveStock(ctx context.Context, input types.StockIdentifier) (*domain.StockItem, error) {
	removed, err := s.repo.Delete(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return removed, nil
}

// FilterByCategory returns items whose category contains the fragment, ignoring case.
func (s *Service) FilterByCategory(ctx context.Context, input types.FilterByCategoryInput) ([]*domain.StockItem, error) {
	items, err := s.repo.FindByCategory(ctx, input.Category)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// Categories lists the distinct non-empty categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

// CheckLowStock lists items below their threshold and notifies when there are any.
// Notification problems are reported in the outcome, never as an error.
func (s *Service) CheckLowStock(ctx context.Context) (*types.LowStockReport, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	report := &types.LowStockReport{
		Items:        items,
		Notification: types.NotificationOutcome{Status: types.NotificationSkipped},
	}
	if len(items) == 0 {
		return report, nil
	}
	if s.notifier == nil {
		report.Notification.Status = types.NotificationDisabled
		return report, nil
	}
	report.Notification = s.notifier.Notify(ctx, items)
	return report, nil
}

var _ ports.Service = (*Service)(nil)
