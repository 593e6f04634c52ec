package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("item quantity must be at least 1")
	ErrMissingCustomer  = errors.New("guest orders require customer contact details")
	ErrOrderCancelled   = errors.New("order already cancelled")
	ErrOrderDelivered   = errors.New("cannot cancel delivered order")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// InsufficientStockError reports a requested quantity exceeding available
// stock. It carries the available quantity so callers can react.
type InsufficientStockError struct {
	ProductID int64
	Requested int32
	Available int32
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}
