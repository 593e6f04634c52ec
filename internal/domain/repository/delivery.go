package repository

import (
	"context"

	"github.com/osoko/commerce/internal/domain/model"
)

// DeliveryRepository resolves delivery options to their cost.
type DeliveryRepository interface {
	GetByID(ctx context.Context, id int64) (*model.DeliveryOption, error)
}
