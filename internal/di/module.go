package di

import (
	"go.uber.org/fx"

	"github.com/osoko/commerce/internal/adapter/notify"
	"github.com/osoko/commerce/internal/adapter/paystack"
	"github.com/osoko/commerce/internal/app"
	"github.com/osoko/commerce/internal/config"
	"github.com/osoko/commerce/internal/logger"
	"github.com/osoko/commerce/internal/pkg/auth"
	"github.com/osoko/commerce/internal/server/http/handlers"
	"github.com/osoko/commerce/internal/server/http/router"
	"github.com/osoko/commerce/internal/storage/postgres"
	"github.com/osoko/commerce/internal/usecase"
	"github.com/osoko/commerce/internal/worker"
)

// Module assembles the full application graph. Extra options let tests
// replace infrastructure pieces with stubs.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		paystack.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.CommerceFacade) handlers.CommerceFacade { return f },
			func(f *app.CommerceFacade) worker.PaymentFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
