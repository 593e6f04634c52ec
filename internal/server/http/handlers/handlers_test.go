package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/osoko/commerce/internal/adapter/paystack"
	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
	"github.com/osoko/commerce/internal/pkg/signature"
	"github.com/osoko/commerce/internal/server/http/dto"
	testhelpers "github.com/osoko/commerce/internal/test"
	"github.com/osoko/commerce/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, target string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestOrderHandlerCreate(t *testing.T) {
	email := "buyer@example.test"
	facade := &testhelpers.CommerceFacadeStub{CreateOrderFn: func(ctx context.Context, req usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error) {
		if len(req.Items) != 1 || req.Items[0].ProductID != 5 || req.Items[0].Quantity != 2 {
			t.Fatalf("unexpected items passed to facade: %+v", req.Items)
		}
		return &usecase.CreateOrderResult{
			Order: &model.Order{
				ID:            1,
				Reference:     "ORD-1",
				CustomerEmail: &email,
				Subtotal:      decimalFromString(t, "200.00"),
				TotalPrice:    decimalFromString(t, "215.00"),
				Status:        model.OrderStatusPending,
				PaymentStatus: model.PaymentStatusProcessing,
			},
			Payment: &paystack.Transaction{AuthorizationURL: "https://checkout.example/a", Reference: "ORD-1"},
		}, nil
	}}

	body, _ := json.Marshal(dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: 5, Quantity: 2}},
		CustomerEmail: &email,
	})
	resp := performRequest(t, http.MethodPost, "/api/orders", "/api/orders", NewOrderHandler(facade).Create, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload dto.CreateOrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.Order.TotalPrice != "215.00" {
		t.Fatalf("expected total 215.00, got %q", payload.Order.TotalPrice)
	}
	if payload.Payment == nil || payload.Payment.AuthorizationURL == "" {
		t.Fatal("expected payment section in response")
	}
}

func TestOrderHandlerCreateInsufficientStock(t *testing.T) {
	facade := &testhelpers.CommerceFacadeStub{CreateOrderFn: func(ctx context.Context, req usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error) {
		return nil, domainErrors.InsufficientStockError{ProductID: 5, Requested: 3, Available: 1}
	}}

	email := "buyer@example.test"
	body, _ := json.Marshal(dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: 5, Quantity: 3}},
		CustomerEmail: &email,
	})
	resp := performRequest(t, http.MethodPost, "/api/orders", "/api/orders", NewOrderHandler(facade).Create, body, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	var payload dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.AvailableStock == nil || *payload.AvailableStock != 1 {
		t.Fatalf("expected available stock 1 in payload, got %+v", payload)
	}
}

func TestOrderHandlerCreateValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no items", domainErrors.ErrNoItems},
		{"invalid quantity", domainErrors.ErrInvalidQuantity},
		{"missing customer", domainErrors.ErrMissingCustomer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.CommerceFacadeStub{CreateOrderFn: func(context.Context, usecase.CreateOrderRequest) (*usecase.CreateOrderResult, error) {
				return nil, tc.err
			}}
			resp := performRequest(t, http.MethodPost, "/api/orders", "/api/orders", NewOrderHandler(facade).Create, []byte(`{}`), nil)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestOrderHandlerGetNotFound(t *testing.T) {
	facade := &testhelpers.CommerceFacadeStub{OrderFn: func(context.Context, int64) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp := performRequest(t, http.MethodGet, "/api/orders/:id", "/api/orders/7", NewOrderHandler(facade).Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrderHandlerGetRejectsBadID(t *testing.T) {
	facade := &testhelpers.CommerceFacadeStub{OrderFn: func(context.Context, int64) (*model.Order, error) {
		t.Fatal("facade must not be called for malformed id")
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/api/orders/:id", "/api/orders/abc", NewOrderHandler(facade).Get, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCancelConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"already cancelled", domainErrors.ErrOrderCancelled},
		{"already delivered", domainErrors.ErrOrderDelivered},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := &testhelpers.CommerceFacadeStub{CancelOrderFn: func(context.Context, int64) (*model.Order, error) {
				return nil, tc.err
			}}
			resp := performRequest(t, http.MethodPatch, "/api/orders/:id/cancel", "/api/orders/3/cancel", NewOrderHandler(facade).Cancel, nil, nil)
			if resp.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", resp.Code)
			}
		})
	}
}

func TestOrderHandlerUpdateForwardsFullPatch(t *testing.T) {
	var gotPatch repository.OrderPatch
	facade := &testhelpers.CommerceFacadeStub{UpdateOrderFn: func(ctx context.Context, id int64, patch repository.OrderPatch) (*model.Order, error) {
		gotPatch = patch
		return &model.Order{ID: id, Reference: "ORD-1", Status: *patch.Status, PaymentStatus: *patch.PaymentStatus}, nil
	}}

	status := "shipped"
	paymentStatus := "completed"
	paymentRef := "PSK_ref"
	address := "12 Marina Rd"
	body, _ := json.Marshal(dto.UpdateOrderRequest{
		Status:           &status,
		PaymentStatus:    &paymentStatus,
		PaymentReference: &paymentRef,
		DeliveryAddress:  &address,
		Metadata:         map[string]any{"note": "leave at gate"},
	})
	resp := performRequest(t, http.MethodPut, "/api/orders/:id", "/api/orders/4", NewOrderHandler(facade).Update, body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	if gotPatch.Status == nil || *gotPatch.Status != model.OrderStatusShipped {
		t.Fatalf("expected shipped status in patch, got %+v", gotPatch.Status)
	}
	if gotPatch.PaymentStatus == nil || *gotPatch.PaymentStatus != model.PaymentStatusCompleted {
		t.Fatalf("expected completed payment status in patch, got %+v", gotPatch.PaymentStatus)
	}
	if gotPatch.PaymentReference == nil || *gotPatch.PaymentReference != "PSK_ref" {
		t.Fatalf("expected payment reference in patch, got %+v", gotPatch.PaymentReference)
	}
	if gotPatch.DeliveryAddress == nil || *gotPatch.DeliveryAddress != "12 Marina Rd" {
		t.Fatalf("expected delivery address in patch, got %+v", gotPatch.DeliveryAddress)
	}
	if gotPatch.Metadata["note"] != "leave at gate" {
		t.Fatalf("expected metadata in patch, got %+v", gotPatch.Metadata)
	}
}

func TestOrderHandlerUpdateRejectsEmptyPatch(t *testing.T) {
	facade := &testhelpers.CommerceFacadeStub{UpdateOrderFn: func(context.Context, int64, repository.OrderPatch) (*model.Order, error) {
		t.Fatal("facade must not be called for an empty patch")
		return nil, nil
	}}
	resp := performRequest(t, http.MethodPut, "/api/orders/:id", "/api/orders/4", NewOrderHandler(facade).Update, []byte(`{}`), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerDelete(t *testing.T) {
	var deleted int64
	facade := &testhelpers.CommerceFacadeStub{DeleteOrderFn: func(ctx context.Context, id int64) error {
		deleted = id
		return nil
	}}
	resp := performRequest(t, http.MethodDelete, "/api/orders/:id", "/api/orders/9", NewOrderHandler(facade).Delete, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if deleted != 9 {
		t.Fatalf("expected order 9 to be deleted, got %d", deleted)
	}
}

func TestOrderHandlerListParsesFilter(t *testing.T) {
	var gotFilter bool
	facade := &testhelpers.CommerceFacadeStub{OrdersFn: func(ctx context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
		gotFilter = true
		if filter.Status == nil || *filter.Status != model.OrderStatusPending {
			t.Fatalf("expected pending status filter, got %+v", filter.Status)
		}
		if filter.Email != "buyer" {
			t.Fatalf("expected email filter, got %q", filter.Email)
		}
		if filter.Limit != 5 || filter.Offset != 10 {
			t.Fatalf("unexpected paging %d/%d", filter.Limit, filter.Offset)
		}
		return []model.Order{{ID: 1, Reference: "ORD-1"}}, 1, nil
	}}

	resp := performRequest(t, http.MethodGet, "/api/orders", "/api/orders?status=pending&email=buyer&limit=5&offset=10", NewOrderHandler(facade).List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !gotFilter {
		t.Fatal("expected facade to receive parsed filter")
	}
}

func TestOrderHandlerListRejectsUnknownStatus(t *testing.T) {
	facade := &testhelpers.CommerceFacadeStub{OrdersFn: func(context.Context, repository.OrderFilter) ([]model.Order, int64, error) {
		t.Fatal("facade must not be called for invalid filter")
		return nil, 0, nil
	}}
	resp := performRequest(t, http.MethodGet, "/api/orders", "/api/orders?status=bogus", NewOrderHandler(facade).List, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func webhookBody(t *testing.T, event string, data dto.WebhookEventData) []byte {
	t.Helper()
	body, err := json.Marshal(dto.WebhookEvent{Event: event, Data: data})
	if err != nil {
		t.Fatalf("marshal webhook body: %v", err)
	}
	return body
}

func TestWebhookHandlerProcessesSignedEvent(t *testing.T) {
	verifier := signature.NewVerifier("whsec")
	facade := &testhelpers.CommerceFacadeStub{HandleEventFn: func(ctx context.Context, event string, data usecase.EventData) (*usecase.ReconcileResult, error) {
		if event != usecase.EventChargeSuccess || data.Reference != "ORD-1" || data.Amount != 21500 {
			t.Fatalf("unexpected event passed to facade: %s %+v", event, data)
		}
		return &usecase.ReconcileResult{
			Processed:             true,
			Message:               "payment confirmed",
			PreviousPaymentStatus: model.PaymentStatusProcessing,
			PaymentStatus:         model.PaymentStatusCompleted,
		}, nil
	}}

	body := webhookBody(t, usecase.EventChargeSuccess, dto.WebhookEventData{Reference: "ORD-1", Amount: 21500, Status: "success"})
	resp := performRequest(t, http.MethodPost, "/api/webhooks/paystack", "/api/webhooks/paystack",
		NewWebhookHandler(facade, verifier).Receive, body,
		map[string]string{SignatureHeader: verifier.Sign(body)})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload dto.WebhookResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !payload.Processed || payload.PaymentStatus != string(model.PaymentStatusCompleted) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestWebhookHandlerRejectsBadSignatureBeforeProcessing(t *testing.T) {
	verifier := signature.NewVerifier("whsec")
	facade := &testhelpers.CommerceFacadeStub{HandleEventFn: func(context.Context, string, usecase.EventData) (*usecase.ReconcileResult, error) {
		t.Fatal("facade must not be reached for a bad signature")
		return nil, nil
	}}

	body := webhookBody(t, usecase.EventChargeSuccess, dto.WebhookEventData{Reference: "ORD-1", Amount: 21500})
	resp := performRequest(t, http.MethodPost, "/api/webhooks/paystack", "/api/webhooks/paystack",
		NewWebhookHandler(facade, verifier).Receive, body,
		map[string]string{SignatureHeader: "deadbeef"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(facade.HandledEvents) != 0 {
		t.Fatalf("expected no facade calls, got %v", facade.HandledEvents)
	}
}

func TestWebhookHandlerAcknowledgesUnprocessedEvent(t *testing.T) {
	verifier := signature.NewVerifier("whsec")
	facade := &testhelpers.CommerceFacadeStub{HandleEventFn: func(context.Context, string, usecase.EventData) (*usecase.ReconcileResult, error) {
		return &usecase.ReconcileResult{Processed: false, Message: "order not found"}, nil
	}}

	body := webhookBody(t, usecase.EventChargeSuccess, dto.WebhookEventData{Reference: "ORD-missing", Amount: 100})
	resp := performRequest(t, http.MethodPost, "/api/webhooks/paystack", "/api/webhooks/paystack",
		NewWebhookHandler(facade, verifier).Receive, body,
		map[string]string{SignatureHeader: verifier.Sign(body)})
	if resp.Code != http.StatusOK {
		t.Fatalf("unprocessed deliveries must still return 200, got %d", resp.Code)
	}
}
