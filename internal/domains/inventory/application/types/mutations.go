package types

// AddStockInput carries the fields required to create a stock item.
type AddStockInput struct {
	Name         string
	Category     string
	Quantity     int64
	MinThreshold int64
}

// UpdateQuantityInput overwrites the quantity of an existing item.
type UpdateQuantityInput struct {
	ID       int64
	Quantity int64
}

// UseStockInput consumes Quantity units from an existing item.
type UseStockInput struct {
	ID       int64
	Quantity int64
}
