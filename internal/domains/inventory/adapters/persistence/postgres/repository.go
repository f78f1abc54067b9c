package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
	"github.com/Apurer/stock-tracker/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists stock items in PostgreSQL using GORM.
// The schema is owned by internal/platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// stockItemRecord maps the stock item aggregate to the stock_items table.
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

// Create inserts a new item and returns it with the generated id.
func (r *Repository) Create(ctx context.Context, item *domain.StockItem) (*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("stock item is nil")
	}
	record := toRecord(item)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an item by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record stockItemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all items ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db)
}

// SetQuantity overwrites the quantity of a single row.
func (r *Repository) SetQuantity(ctx context.Context, id int64, quantity int64) (*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, domain.ErrNegativeQuantity
	}
	result := r.db.WithContext(ctx).
		Model(&stockItemRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Decrement subtracts amount with a conditional update so concurrent uses cannot overdraw.
func (r *Repository) Decrement(ctx context.Context, id int64, amount int64) (*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, domain.ErrInvalidUseQuantity
	}
	result := r.db.WithContext(ctx).
		Model(&stockItemRecord{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientStock
	}
	return r.GetByID(ctx, id)
}

// Delete removes an item and returns the deleted state.
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var removed stockItemRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&removed, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		result := tx.Delete(&stockItemRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed.toDomain(), nil
}

// FindByCategory matches the category fragment case-insensitively with ILIKE.
func (r *Repository) FindByCategory(ctx context.Context, fragment string) ([]*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	pattern := "%" + escapeLike(fragment) + "%"
	return r.find(ctx, r.db.Where("category ILIKE ?", pattern))
}

// Categories aggregates the distinct non-empty categories into a sorted array.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var categories pq.StringArray
	row := r.db.WithContext(ctx).
		Model(&stockItemRecord{}).
		Select("COALESCE(array_agg(DISTINCT category ORDER BY category) FILTER (WHERE category <> ''), '{}')").
		Row()
	if err := row.Scan(&categories); err != nil {
		return nil, err
	}
	return []string(categories), nil
}

// ListLowStock returns items whose quantity is below their threshold.
func (r *Repository) ListLowStock(ctx context.Context) ([]*domain.StockItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.Where("quantity < min_threshold"))
}

func (r *Repository) find(ctx context.Context, query *gorm.DB) ([]*domain.StockItem, error) {
	var records []stockItemRecord
	if err := query.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.StockItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres stock repository not configured")
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

func toRecord(item *domain.StockItem) stockItemRecord {
	return stockItemRecord{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		Quantity:     item.Quantity,
		MinThreshold: item.MinThreshold,
	}
}

func (r stockItemRecord) toDomain() *domain.StockItem {
	return &domain.StockItem{
		ID:           r.ID,
		Name:         r.Name,
		Category:     r.Category,
		Quantity:     r.Quantity,
		MinThreshold: r.MinThreshold,
	}
}
