package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osoko/commerce/internal/pkg/signature"
	"github.com/osoko/commerce/internal/server/http/dto"
	"github.com/osoko/commerce/internal/usecase"
)

// SignatureHeader carries the gateway HMAC over the raw request body.
const SignatureHeader = "X-Paystack-Signature"

// WebhookHandler receives payment gateway callbacks.
type WebhookHandler struct {
	facade   WebhookFacade
	verifier *signature.Verifier
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade, verifier *signature.Verifier) *WebhookHandler {
	return &WebhookHandler{facade: facade, verifier: verifier}
}

// Receive handles POST /api/webhooks/paystack. The signature is checked
// against the raw body before the payload is even parsed; deliveries that
// reconcile to nothing are still acknowledged with 200 so the gateway stops
// retrying.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unreadable body"})
		return
	}

	if !h.verifier.Verify(body, c.GetHeader(SignatureHeader)) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid signature"})
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	result, err := h.facade.HandleGatewayEvent(c.Request.Context(), event.Event, usecase.EventData{
		Reference:       event.Data.Reference,
		Amount:          event.Data.Amount,
		Status:          event.Data.Status,
		GatewayResponse: event.Data.GatewayResponse,
		PaidAt:          event.Data.PaidAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{
		Processed:             result.Processed,
		Message:               result.Message,
		PreviousPaymentStatus: string(result.PreviousPaymentStatus),
		PaymentStatus:         string(result.PaymentStatus),
	})
}
