package usecase

import (
	"go.uber.org/fx"

	"github.com/osoko/commerce/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderOptions,
	newWebhookOptions,
	NewOrderUseCase,
	NewWebhookUseCase,
)

func newOrderOptions(cfg *config.Config) OrderOptions {
	return OrderOptions{Currency: cfg.Currency, CallbackURL: cfg.CallbackURL}
}

func newWebhookOptions(cfg *config.Config) WebhookOptions {
	return WebhookOptions{EmailSender: cfg.EmailSender, SMSSenderID: cfg.SMSSenderID}
}
