package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/stock-tracker/internal/domains/inventory/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid stock input")
	// ErrInsufficientStock signals a use request larger than the quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInsufficientStock) {
		return err
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return fmt.Errorf("%w: %w", ErrInsufficientStock, err)
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNameTooLong) ||
		errors.Is(err, domain.ErrCategoryTooLong) ||
		errors.Is(err, domain.ErrNegativeQuantity) ||
		errors.Is(err, domain.ErrNegativeThreshold) ||
		errors.Is(err, domain.ErrInvalidUseQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
