package repository

import (
	"context"
	"time"

	"github.com/osoko/commerce/internal/domain/model"
)

// OrderPatch carries the mutable order fields for partial updates. Nil
// fields are left untouched.
type OrderPatch struct {
	Status           *model.OrderStatus
	PaymentStatus    *model.PaymentStatus
	PaymentReference *string
	DeliveryAddress  *string
	Metadata         map[string]any
}

// OrderFilter narrows and pages order listings. CreatedBy restricts the
// result to orders containing at least one item whose product was created
// by that admin.
type OrderFilter struct {
	UserID        *int64
	Status        *model.OrderStatus
	PaymentStatus *model.PaymentStatus
	Email         string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	CreatedBy     *int64
	SortBy        string
	SortDesc      bool
	Limit         int
	Offset        int
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create persists the order together with its items and decrements
	// catalog stock for every item, all inside one transaction. A failed
	// stock decrement returns InsufficientStockError and leaves no rows
	// behind.
	Create(ctx context.Context, order *model.Order, items []model.OrderItem) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByReference(ctx context.Context, reference string) (*model.Order, error)
	Update(ctx context.Context, id int64, patch OrderPatch) error
	UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus, reference *string) error
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	// SoftDelete flags the order deleted and mutates its reference to free
	// the unique slot.
	SoftDelete(ctx context.Context, id int64) error
	// SelectUnresolvedPayments returns orders whose payment is still
	// processing and carries a gateway reference, oldest first.
	SelectUnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error)
}
