package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/osoko/commerce/internal/adapter/notify"
	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
)

// Gateway event types the reconciler understands.
const (
	EventChargeSuccess   = "charge.success"
	EventChargeFailed    = "charge.failed"
	EventTransferSuccess = "transfer.success"
	EventTransferFailed  = "transfer.failed"
)

// EventData is the payload the reconciler needs from a gateway event.
// Amount is in minor currency units.
type EventData struct {
	Reference       string
	Amount          int64
	Status          string
	GatewayResponse string
	PaidAt          string
}

// ReconcileResult reports what a webhook event did to an order. Processed is
// false for events that were acknowledged but changed nothing.
type ReconcileResult struct {
	Processed             bool
	Message               string
	PreviousPaymentStatus model.PaymentStatus
	PaymentStatus         model.PaymentStatus
}

// WebhookOptions carries notification settings sourced from configuration.
type WebhookOptions struct {
	EmailSender string
	SMSSenderID string
}

// WebhookUseCase reconciles gateway events against stored orders.
type WebhookUseCase struct {
	orders   repository.OrderRepository
	notifier notify.Sender
	opts     WebhookOptions
	logger   *slog.Logger
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(orders repository.OrderRepository, notifier notify.Sender, opts WebhookOptions, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{orders: orders, notifier: notifier, opts: opts, logger: logger}
}

// HandleEvent dispatches one gateway event. It returns an error only for
// infrastructure failures; business-level misses (unknown order, amount
// mismatch, unknown event) come back as unprocessed results so the caller
// can still acknowledge the delivery.
func (u *WebhookUseCase) HandleEvent(ctx context.Context, event string, data EventData) (*ReconcileResult, error) {
	switch event {
	case EventChargeSuccess:
		return u.chargeSuccess(ctx, data)
	case EventChargeFailed:
		return u.chargeFailed(ctx, data)
	case EventTransferSuccess, EventTransferFailed:
		u.logger.Info("transfer event acknowledged", slog.String("event", event), slog.String("reference", data.Reference))
		return &ReconcileResult{Processed: false, Message: "transfer event acknowledged"}, nil
	default:
		u.logger.Info("unhandled event type", slog.String("event", event))
		return &ReconcileResult{Processed: false, Message: "unhandled event type"}, nil
	}
}

func (u *WebhookUseCase) chargeSuccess(ctx context.Context, data EventData) (*ReconcileResult, error) {
	order, err := u.orders.GetByReference(ctx, data.Reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("charge for unknown order", slog.String("reference", data.Reference))
			return &ReconcileResult{Processed: false, Message: "order not found"}, nil
		}
		return nil, err
	}

	if expected := order.AmountMinorUnits(); data.Amount != expected {
		u.logger.Warn("charge amount mismatch",
			slog.String("reference", data.Reference),
			slog.Int64("expected", expected),
			slog.Int64("received", data.Amount),
		)
		return &ReconcileResult{
			Processed:             false,
			Message:               fmt.Sprintf("amount mismatch: expected %d, received %d", expected, data.Amount),
			PreviousPaymentStatus: order.PaymentStatus,
			PaymentStatus:         order.PaymentStatus,
		}, nil
	}

	previous := order.PaymentStatus

	paymentStatus := model.PaymentStatusCompleted
	paymentRef := data.GatewayResponse
	if paymentRef == "" {
		paymentRef = data.Reference
	}
	patch := repository.OrderPatch{
		PaymentStatus:    &paymentStatus,
		PaymentReference: &paymentRef,
	}
	if order.Status == model.OrderStatusPending {
		status := model.OrderStatusProcessing
		patch.Status = &status
	}
	if err := u.orders.Update(ctx, order.ID, patch); err != nil {
		return nil, err
	}

	u.notifyPaymentReceived(ctx, order)

	return &ReconcileResult{
		Processed:             true,
		Message:               "payment confirmed",
		PreviousPaymentStatus: previous,
		PaymentStatus:         paymentStatus,
	}, nil
}

func (u *WebhookUseCase) chargeFailed(ctx context.Context, data EventData) (*ReconcileResult, error) {
	order, err := u.orders.GetByReference(ctx, data.Reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.Warn("failed charge for unknown order", slog.String("reference", data.Reference))
			return &ReconcileResult{Processed: false, Message: "order not found"}, nil
		}
		return nil, err
	}

	previous := order.PaymentStatus
	if previous == model.PaymentStatusCompleted {
		// A failure notification after a confirmed payment is out of order.
		u.logger.Warn("failed charge after completed payment ignored", slog.String("reference", data.Reference))
		return &ReconcileResult{
			Processed:             false,
			Message:               "payment already completed",
			PreviousPaymentStatus: previous,
			PaymentStatus:         previous,
		}, nil
	}

	paymentStatus := model.PaymentStatusFailed
	paymentRef := fmt.Sprintf("failed: %s", data.GatewayResponse)
	if err := u.orders.Update(ctx, order.ID, repository.OrderPatch{
		PaymentStatus:    &paymentStatus,
		PaymentReference: &paymentRef,
	}); err != nil {
		return nil, err
	}

	return &ReconcileResult{
		Processed:             true,
		Message:               "payment marked failed",
		PreviousPaymentStatus: previous,
		PaymentStatus:         paymentStatus,
	}, nil
}

// notifyPaymentReceived sends a confirmation email and SMS. Failures are
// logged and never surface to the gateway.
func (u *WebhookUseCase) notifyPaymentReceived(ctx context.Context, order *model.Order) {
	if order.CustomerEmail != nil {
		name := ""
		if order.CustomerName != nil {
			name = *order.CustomerName
		}
		msg := notify.EmailMessage{
			From:    u.opts.EmailSender,
			To:      *order.CustomerEmail,
			Subject: fmt.Sprintf("Payment received for order %s", order.Reference),
			Text: fmt.Sprintf("Hello %s,\n\nWe received your payment of %s for order %s. Your order is now being processed.\n",
				name, order.TotalPrice.StringFixed(2), order.Reference),
		}
		if err := u.notifier.SendEmail(ctx, msg); err != nil {
			u.logger.Warn("payment email failed", slog.String("reference", order.Reference), slog.String("error", err.Error()))
		}
	}

	if order.CustomerPhone != nil && *order.CustomerPhone != "" {
		msg := notify.SMSMessage{
			To:       *order.CustomerPhone,
			Message:  fmt.Sprintf("Payment of %s received for order %s.", order.TotalPrice.StringFixed(2), order.Reference),
			SenderID: u.opts.SMSSenderID,
		}
		if err := u.notifier.SendSMS(ctx, msg); err != nil {
			u.logger.Warn("payment sms failed", slog.String("reference", order.Reference), slog.String("error", err.Error()))
		}
	}
}
