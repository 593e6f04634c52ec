package app

import (
	"context"
	"log/slog"

	"github.com/osoko/commerce/internal/adapter/paystack"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
	"github.com/osoko/commerce/internal/usecase"
)

// CommerceFacade aggregates the use cases behind a single application surface
// consumed by HTTP handlers and the background verifier.
type CommerceFacade struct {
	orders   *usecase.OrderUseCase
	webhooks *usecase.WebhookUseCase
	gateway  paystack.Client
	logger   *slog.Logger
}

// NewCommerceFacade constructs CommerceFacade.
func NewCommerceFacade(orders *usecase.OrderUseCase, webhooks *usecase.WebhookUseCase, gateway paystack.Client, logger *slog.Logger) *CommerceFacade {
	return &CommerceFacade{orders: orders, webhooks: webhooks, gateway: gateway, logger: logger}
}

func (f *CommerceFacade) CreateOrder(ctx context.Context, req usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error) {
	return f.orders.CreateOrder(ctx, req)
}

func (f *CommerceFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *CommerceFacade) OrderByReference(ctx context.Context, reference string) (*model.Order, error) {
	return f.orders.GetByReference(ctx, reference)
}

func (f *CommerceFacade) UpdateOrder(ctx context.Context, id int64, patch repository.OrderPatch) (*model.Order, error) {
	return f.orders.Update(ctx, id, patch)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.CancelOrder(ctx, id)
}

func (f *CommerceFacade) DeleteOrder(ctx context.Context, id int64) error {
	return f.orders.Delete(ctx, id)
}

func (f *CommerceFacade) Orders(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	return f.orders.List(ctx, filter)
}

func (f *CommerceFacade) HandleGatewayEvent(ctx context.Context, event string, data usecase.EventData) (*usecase.ReconcileResult, error) {
	return f.webhooks.HandleEvent(ctx, event, data)
}

func (f *CommerceFacade) UnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.UnresolvedPayments(ctx, limit)
}

// VerifyPayment asks the gateway for the transaction state of an order that
// never received a webhook and feeds the answer through the same reconcile
// path, so a verified charge and a delivered webhook are indistinguishable.
func (f *CommerceFacade) VerifyPayment(ctx context.Context, order model.Order) error {
	reference := order.Reference
	if order.PaymentReference != nil && *order.PaymentReference != "" {
		reference = *order.PaymentReference
	}

	status, err := f.gateway.Verify(ctx, reference)
	if err != nil {
		return err
	}

	var event string
	switch status.Status {
	case "success":
		event = usecase.EventChargeSuccess
	case "failed", "abandoned":
		event = usecase.EventChargeFailed
	default:
		// Still pending at the gateway; leave the order for the next poll.
		return nil
	}

	result, err := f.webhooks.HandleEvent(ctx, event, usecase.EventData{
		Reference:       order.Reference,
		Amount:          status.Amount,
		Status:          status.Status,
		GatewayResponse: status.GatewayResponse,
		PaidAt:          status.PaidAt,
	})
	if err != nil {
		return err
	}
	if result.Processed {
		f.logger.Info("payment reconciled by verifier",
			slog.String("reference", order.Reference),
			slog.String("payment_status", string(result.PaymentStatus)),
		)
	}
	return nil
}
