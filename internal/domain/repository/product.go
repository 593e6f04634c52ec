package repository

import (
	"context"

	"github.com/osoko/commerce/internal/domain/model"
)

// ProductRepository is the narrow catalog interface consumed by the order
// workflow.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// CheckAvailability reports whether quantity units can be ordered and
	// the currently available stock.
	CheckAvailability(ctx context.Context, id int64, quantity int32) (bool, int32, error)
	// AdjustStock moves stock in the given direction. Decreases are atomic
	// conditional updates and fail with InsufficientStockError instead of
	// driving stock negative.
	AdjustStock(ctx context.Context, id int64, quantity int32, direction model.StockDirection) error
}
