package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
	"github.com/osoko/commerce/internal/usecase"
)

// CommerceFacadeStub provides controllable behaviour for HTTP handlers.
type CommerceFacadeStub struct {
	CreateOrderFn      func(context.Context, usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error)
	OrderFn            func(context.Context, int64) (*model.Order, error)
	OrderByReferenceFn func(context.Context, string) (*model.Order, error)
	UpdateOrderFn      func(context.Context, int64, repository.OrderPatch) (*model.Order, error)
	CancelOrderFn      func(context.Context, int64) (*model.Order, error)
	DeleteOrderFn      func(context.Context, int64) error
	OrdersFn           func(context.Context, repository.OrderFilter) ([]model.Order, int64, error)
	HandleEventFn      func(context.Context, string, usecase.EventData) (*usecase.ReconcileResult, error)

	HandledEvents []string
}

// CreateOrder delegates to the override or returns a default order.
func (s *CommerceFacadeStub) CreateOrder(ctx context.Context, req usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, req)
	}
	return &usecase.CreateOrderResult{
		Order: &model.Order{ID: 1, Reference: "ORD-1", Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending},
	}, nil
}

// Order returns the configured order.
func (s *CommerceFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Reference: "ORD-1"}, nil
}

// OrderByReference returns the configured order.
func (s *CommerceFacadeStub) OrderByReference(ctx context.Context, reference string) (*model.Order, error) {
	if s.OrderByReferenceFn != nil {
		return s.OrderByReferenceFn(ctx, reference)
	}
	return &model.Order{ID: 1, Reference: reference}, nil
}

// UpdateOrder executes the configured update handler.
func (s *CommerceFacadeStub) UpdateOrder(ctx context.Context, id int64, patch repository.OrderPatch) (*model.Order, error) {
	if s.UpdateOrderFn != nil {
		return s.UpdateOrderFn(ctx, id, patch)
	}
	return &model.Order{ID: id, Reference: "ORD-1"}, nil
}

// CancelOrder executes the configured cancellation handler.
func (s *CommerceFacadeStub) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusCancelled, PaymentStatus: model.PaymentStatusFailed}, nil
}

// DeleteOrder executes the configured deletion handler.
func (s *CommerceFacadeStub) DeleteOrder(ctx context.Context, id int64) error {
	if s.DeleteOrderFn != nil {
		return s.DeleteOrderFn(ctx, id)
	}
	return nil
}

// Orders returns a predefined page of orders.
func (s *CommerceFacadeStub) Orders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return []model.Order{{ID: 1, Reference: "ORD-1"}}, 1, nil
}

// HandleGatewayEvent records the event and delegates to the override.
func (s *CommerceFacadeStub) HandleGatewayEvent(ctx context.Context, event string, data usecase.EventData) (*usecase.ReconcileResult, error) {
	s.HandledEvents = append(s.HandledEvents, event)
	if s.HandleEventFn != nil {
		return s.HandleEventFn(ctx, event, data)
	}
	return &usecase.ReconcileResult{Processed: true, Message: "payment confirmed"}, nil
}

// PaymentFacadeStub mimics worker interactions with the commerce facade.
type PaymentFacadeStub struct {
	Batches      [][]model.Order
	UnresolvedFn func(context.Context, int) ([]model.Order, error)
	VerifyFn     func(context.Context, model.Order) error
	Verified     []string
	mu           sync.Mutex
	batchCount   int32
}

// Lock exposes internal mutex for external synchronization.
func (s *PaymentFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PaymentFacadeStub) Unlock() { s.mu.Unlock() }

// UnresolvedPayments returns batches from the configured queue.
func (s *PaymentFacadeStub) UnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error) {
	if s.UnresolvedFn != nil {
		return s.UnresolvedFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// VerifyPayment records verification requests.
func (s *PaymentFacadeStub) VerifyPayment(ctx context.Context, order model.Order) error {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Verified = append(s.Verified, order.Reference)
	return nil
}
