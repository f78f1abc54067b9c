package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTextLength bounds name and category columns.
const MaxTextLength = 100

var (
	ErrEmptyName          = errors.New("stock item name is required")
	ErrNameTooLong        = errors.New("stock item name must be at most 100 characters")
	ErrCategoryTooLong    = errors.New("stock item category must be at most 100 characters")
	ErrNegativeQuantity   = errors.New("quantity must not be negative")
	ErrNegativeThreshold  = errors.New("min_threshold must not be negative")
	ErrInvalidUseQuantity = errors.New("quantity to use must be greater than zero")
	ErrInsufficientStock  = errors.New("not enough stock available")
)

// StockItem models a single inventory record.
type StockItem struct {
	ID           int64
	Name         string
	Category     string
	Quantity     int64
	MinThreshold int64
}

// NewStockItem validates and constructs a StockItem that has not been persisted yet.
func NewStockItem(name, category string, quantity, minThreshold int64) (*StockItem, error) {
	item := &StockItem{
		Name:         name,
		Category:     category,
		Quantity:     quantity,
		MinThreshold: minThreshold,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.MinThreshold < 0 {
		return nil, ErrNegativeThreshold
	}
	return item, nil
}

// Validate enforces invariants on the aggregate.
func (s *StockItem) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(s.Name) > MaxTextLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(s.Category) > MaxTextLength {
		return ErrCategoryTooLong
	}
	if s.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// SetQuantity overwrites the on-hand quantity.
func (s *StockItem) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	s.Quantity = quantity
	return nil
}

// Use consumes amount units. The item is left untouched on error.
func (s *StockItem) Use(amount int64) error {
	if err := CheckUse(s.Quantity, amount); err != nil {
		return err
	}
	s.Quantity -= amount
	return nil
}

// CheckUse reports whether amount units can be taken from available.
func CheckUse(available, amount int64) error {
	if amount <= 0 {
		return ErrInvalidUseQuantity
	}
	if amount > available {
		return ErrInsufficientStock
	}
	return nil
}

// IsLowStock reports whether the quantity dropped below the minimum threshold.
func (s *StockItem) IsLowStock() bool {
	return s.Quantity < s.MinThreshold
}

// HasCategory reports whether the category contains fragment, ignoring case.
func (s *StockItem) HasCategory(fragment string) bool {
	return strings.Contains(strings.ToLower(s.Category), strings.ToLower(fragment))
}
