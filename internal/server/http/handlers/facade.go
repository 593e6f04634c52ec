package handlers

import (
	"context"

	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
	"github.com/osoko/commerce/internal/usecase"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, req usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	OrderByReference(ctx context.Context, reference string) (*model.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch repository.OrderPatch) (*model.Order, error)
	CancelOrder(ctx context.Context, id int64) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	Orders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error)
}

// WebhookFacade reconciles payment gateway events.
type WebhookFacade interface {
	HandleGatewayEvent(ctx context.Context, event string, data usecase.EventData) (*usecase.ReconcileResult, error)
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	OrderFacade
	WebhookFacade
}
