package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory stock persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.StockItem
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{items: map[int64]*domain.StockItem{}}
}

func (r *Repository) Create(_ context.Context, item *domain.StockItem) (*domain.StockItem, error) {
	if item == nil {
		return nil, errors.New("stock item is nil")
	}
	clone := *item
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone.ID = r.nextID
	r.items[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.StockItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.StockItem, error) {
	return r.collect(func(*domain.StockItem) bool { return true }), nil
}

func (r *Repository) SetQuantity(_ context.Context, id int64, quantity int64) (*domain.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) Decrement(_ context.Context, id int64, amount int64) (*domain.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := item.Use(amount); err != nil {
		return nil, err
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id int64) (*domain.StockItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	delete(r.items, id)
	return item, nil
}

func (r *Repository) FindByCategory(_ context.Context, fragment string) ([]*domain.StockItem, error) {
	return r.collect(func(item *domain.StockItem) bool { return item.HasCategory(fragment) }), nil
}

func (r *Repository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	categories := []string{}
	for _, item := range r.items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *Repository) ListLowStock(_ context.Context) ([]*domain.StockItem, error) {
	return r.collect(func(item *domain.StockItem) bool { return item.IsLowStock() }), nil
}

// collect returns clones of the matching items ordered by id.
func (r *Repository) collect(match func(*domain.StockItem) bool) []*domain.StockItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.StockItem, 0, len(r.items))
	for _, item := range r.items {
		if !match(item) {
			continue
		}
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
