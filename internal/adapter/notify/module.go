package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/osoko/commerce/internal/config"
)

// Module exposes the notification sender implementation to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.NotifyBaseURL == "" {
		return NewNoopSender(p.Logger), nil
	}
	return NewHTTPSender(p.Config.NotifyBaseURL, p.Config.NotifyAPIKey, p.Logger)
}
