package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osoko/commerce/internal/adapter/paystack"
	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
	"github.com/osoko/commerce/internal/pkg/auth"
)

// OrderItemRequest is one requested line in a checkout.
type OrderItemRequest struct {
	ProductID int64
	Quantity  int32
}

// CreateOrderRequest carries everything the checkout workflow needs.
// Customer contact fields are required when UserID is absent.
type CreateOrderRequest struct {
	Items            []OrderItemRequest
	UserID           *int64
	CustomerEmail    *string
	CustomerName     *string
	CustomerPhone    *string
	DeliveryAddress  *string
	DeliveryOptionID *int64
	CustomerPassword *string
	RegisterCustomer bool
	Metadata         map[string]any
}

// CreateOrderResult is the assembled checkout outcome. Payment is nil when
// gateway initialization was skipped or failed; the order exists either way.
type CreateOrderResult struct {
	Order              *model.Order
	Payment            *paystack.Transaction
	CustomerRegistered bool
}

// OrderOptions carries checkout settings sourced from configuration.
type OrderOptions struct {
	Currency    string
	CallbackURL string
}

// OrderUseCase orchestrates the order lifecycle.
type OrderUseCase struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	delivery  repository.DeliveryRepository
	gateway   paystack.Client
	hasher    auth.PasswordHasher
	opts      OrderOptions
	logger    *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	delivery repository.DeliveryRepository,
	gateway paystack.Client,
	hasher auth.PasswordHasher,
	opts OrderOptions,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:    orders,
		products:  products,
		customers: customers,
		delivery:  delivery,
		gateway:   gateway,
		hasher:    hasher,
		opts:      opts,
		logger:    logger,
	}
}

// GenerateOrderReference builds a client-facing order reference of the form
// ORD-<unix_ms>-<3 digit random>. The orders table unique constraint is the
// backstop against the unlikely collision.
func GenerateOrderReference() string {
	return fmt.Sprintf("ORD-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// CreateOrder validates the requested items against the catalog, computes
// totals, persists the order with its items, and initializes a gateway
// transaction. Validation failures abort before any persistence; everything
// after the order is committed is best-effort.
func (u *OrderUseCase) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, domainErrors.ErrNoItems
	}
	if req.UserID == nil && req.CustomerEmail == nil {
		return nil, domainErrors.ErrMissingCustomer
	}

	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		product, err := u.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		ok, available, err := u.products.CheckAvailability(ctx, it.ProductID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domainErrors.InsufficientStockError{ProductID: it.ProductID, Requested: it.Quantity, Available: available}
		}
		items = append(items, model.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: product.Price})
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt32(it.Quantity)))
	}

	var (
		deliveryCost *decimal.Decimal
		deliveryName *string
	)
	total := subtotal
	if req.DeliveryOptionID != nil {
		opt, err := u.delivery.GetByID(ctx, *req.DeliveryOptionID)
		if err != nil {
			return nil, err
		}
		cost := opt.Cost
		name := opt.Name
		deliveryCost = &cost
		deliveryName = &name
		total = total.Add(cost)
	}

	registered := false
	if req.UserID == nil && req.CustomerEmail != nil {
		registered = u.registerGuest(ctx, req)
	}

	order := &model.Order{
		Reference:          GenerateOrderReference(),
		UserID:             req.UserID,
		CustomerEmail:      req.CustomerEmail,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		DeliveryAddress:    req.DeliveryAddress,
		DeliveryOptionID:   req.DeliveryOptionID,
		DeliveryOptionName: deliveryName,
		Subtotal:           subtotal,
		DeliveryCost:       deliveryCost,
		TotalPrice:         total,
		Status:             model.OrderStatusPending,
		PaymentStatus:      model.PaymentStatusPending,
		Metadata:           req.Metadata,
	}

	created, err := u.orders.Create(ctx, order, items)
	if err != nil {
		return nil, err
	}

	result := &CreateOrderResult{Order: created, CustomerRegistered: registered}
	if created.CustomerEmail != nil {
		u.initializePayment(ctx, created, result)
	}
	return result, nil
}

func (u *OrderUseCase) initializePayment(ctx context.Context, order *model.Order, result *CreateOrderResult) {
	metadata := map[string]any{"order_id": order.ID}
	if order.CustomerName != nil {
		metadata["customer_name"] = *order.CustomerName
	}
	if order.DeliveryAddress != nil {
		metadata["delivery_address"] = *order.DeliveryAddress
	}

	tx, err := u.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       *order.CustomerEmail,
		Amount:      order.AmountMinorUnits(),
		Currency:    u.opts.Currency,
		Reference:   order.Reference,
		CallbackURL: u.opts.CallbackURL,
		Metadata:    metadata,
	})
	if err != nil {
		// The order stays pending/pending; it can be retried or paid manually.
		u.logger.Error("payment initialization failed", slog.String("reference", order.Reference), slog.String("error", err.Error()))
		return
	}

	if err := u.orders.UpdatePaymentStatus(ctx, order.ID, model.PaymentStatusProcessing, &tx.Reference); err != nil {
		u.logger.Error("persist payment reference failed", slog.String("reference", order.Reference), slog.String("error", err.Error()))
	} else {
		order.PaymentStatus = model.PaymentStatusProcessing
		ref := tx.Reference
		order.PaymentReference = &ref
	}
	result.Payment = tx
}

// registerGuest creates a customer account for a guest checkout. Failures
// are logged and swallowed; they never abort order creation.
func (u *OrderUseCase) registerGuest(ctx context.Context, req CreateOrderRequest) bool {
	email := *req.CustomerEmail
	if _, err := u.customers.GetByEmail(ctx, email); err == nil {
		return false
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Warn("customer lookup failed", slog.String("email", email), slog.String("error", err.Error()))
		return false
	}

	if req.CustomerPassword == nil && !req.RegisterCustomer {
		return false
	}

	password := ""
	if req.CustomerPassword != nil {
		password = *req.CustomerPassword
	} else {
		generated, err := auth.GeneratePassword(12)
		if err != nil {
			u.logger.Warn("password generation failed", slog.String("error", err.Error()))
			return false
		}
		password = generated
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		u.logger.Warn("password hashing failed", slog.String("error", err.Error()))
		return false
	}

	name, phone := "", ""
	if req.CustomerName != nil {
		name = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		phone = *req.CustomerPhone
	}

	if _, err := u.customers.Create(ctx, email, name, phone, hash); err != nil {
		u.logger.Warn("guest registration failed", slog.String("email", email), slog.String("error", err.Error()))
		return false
	}
	return true
}

// CancelOrder cancels an order. Stock is restored only for orders still
// pending; orders past pending are presumed reserved downstream.
func (u *OrderUseCase) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.OrderStatusCancelled:
		return nil, domainErrors.ErrOrderCancelled
	case model.OrderStatusDelivered:
		return nil, domainErrors.ErrOrderDelivered
	}

	if order.Status == model.OrderStatusPending {
		for _, item := range order.Items {
			if err := u.products.AdjustStock(ctx, item.ProductID, item.Quantity, model.StockIncrease); err != nil {
				return nil, fmt.Errorf("restore stock for product %d: %w", item.ProductID, err)
			}
		}
	}

	status := model.OrderStatusCancelled
	payment := model.PaymentStatusFailed
	if order.PaymentStatus == model.PaymentStatusCompleted {
		payment = model.PaymentStatusRefunded
	}
	if err := u.orders.Update(ctx, id, repository.OrderPatch{Status: &status, PaymentStatus: &payment}); err != nil {
		return nil, err
	}

	order.Status = status
	order.PaymentStatus = payment
	return order, nil
}

// Get fetches one order by id.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// GetByReference fetches one order by its client-facing reference.
func (u *OrderUseCase) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	return u.orders.GetByReference(ctx, reference)
}

// List returns a filtered page of orders plus the total count.
func (u *OrderUseCase) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	return u.orders.List(ctx, filter)
}

// Update applies a partial update and returns the fresh order.
func (u *OrderUseCase) Update(ctx context.Context, id int64, patch repository.OrderPatch) (*model.Order, error) {
	if err := u.orders.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, id)
}

// Delete soft-deletes an order.
func (u *OrderUseCase) Delete(ctx context.Context, id int64) error {
	return u.orders.SoftDelete(ctx, id)
}

// UnresolvedPayments returns orders awaiting payment confirmation for the
// background verifier.
func (u *OrderUseCase) UnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectUnresolvedPayments(ctx, limit)
}
