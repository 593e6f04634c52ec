package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/osoko/commerce/internal/config"
	"github.com/osoko/commerce/internal/pkg/signature"
	"github.com/osoko/commerce/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

func newRouter(facade handlers.CommerceFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	verifier := signature.NewVerifier(cfg.PaystackSecretKey)
	return Setup(facade, verifier, cfg.OpsToken, logger)
}
