package repository

import (
	"context"

	"github.com/osoko/commerce/internal/domain/model"
)

// CustomerRepository is the customer directory consumed by guest
// auto-registration.
type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	Create(ctx context.Context, email, name, phone, passwordHash string) (*model.Customer, error)
}
