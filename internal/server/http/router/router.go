package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/osoko/commerce/internal/pkg/signature"
	"github.com/osoko/commerce/internal/server/http/handlers"
	"github.com/osoko/commerce/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. Operator
// endpoints are grouped behind the static token gate; the webhook route is
// protected by the HMAC signature check inside the handler.
func Setup(facade handlers.CommerceFacade, verifier *signature.Verifier, opsToken string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade, verifier)

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:id", orderHandler.Get)
	api.GET("/orders/reference/:reference", orderHandler.GetByReference)
	api.PATCH("/orders/:id/cancel", orderHandler.Cancel)
	api.POST("/webhooks/paystack", webhookHandler.Receive)

	ops := api.Group("")
	ops.Use(middleware.OpsGate(opsToken))
	ops.GET("/orders", orderHandler.List)
	ops.PUT("/orders/:id", orderHandler.Update)
	ops.DELETE("/orders/:id", orderHandler.Delete)

	return engine
}
