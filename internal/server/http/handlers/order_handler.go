package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/osoko/commerce/internal/domain/errors"
	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/domain/repository"
	"github.com/osoko/commerce/internal/server/http/dto"
	"github.com/osoko/commerce/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	items := make([]usecase.OrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.OrderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err := h.facade.CreateOrder(c.Request.Context(), usecase.CreateOrderRequest{
		Items:            items,
		UserID:           req.UserID,
		CustomerEmail:    req.CustomerEmail,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryOptionID: req.DeliveryOptionID,
		CustomerPassword: req.CustomerPassword,
		RegisterCustomer: req.RegisterCustomer,
		Metadata:         req.Metadata,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCreateOrderResponse(result))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// GetByReference handles GET /api/orders/reference/:reference.
func (h *OrderHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order reference"})
		return
	}

	order, err := h.facade.OrderByReference(c.Request.Context(), reference)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

var orderStatuses = map[string]model.OrderStatus{
	string(model.OrderStatusPending):    model.OrderStatusPending,
	string(model.OrderStatusProcessing): model.OrderStatusProcessing,
	string(model.OrderStatusShipped):    model.OrderStatusShipped,
	string(model.OrderStatusDelivered):  model.OrderStatusDelivered,
	string(model.OrderStatusCancelled):  model.OrderStatusCancelled,
}

var paymentStatuses = map[string]model.PaymentStatus{
	string(model.PaymentStatusPending):    model.PaymentStatusPending,
	string(model.PaymentStatusProcessing): model.PaymentStatusProcessing,
	string(model.PaymentStatusCompleted):  model.PaymentStatusCompleted,
	string(model.PaymentStatusFailed):     model.PaymentStatusFailed,
	string(model.PaymentStatusRefunded):   model.PaymentStatusRefunded,
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	var patch repository.OrderPatch
	if req.Status != nil {
		status, valid := orderStatuses[*req.Status]
		if !valid {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order status"})
			return
		}
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		status, valid := paymentStatuses[*req.PaymentStatus]
		if !valid {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payment status"})
			return
		}
		patch.PaymentStatus = &status
	}
	patch.PaymentReference = req.PaymentReference
	patch.DeliveryAddress = req.DeliveryAddress
	patch.Metadata = req.Metadata
	if patch.Status == nil && patch.PaymentStatus == nil && patch.PaymentReference == nil &&
		patch.DeliveryAddress == nil && patch.Metadata == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "empty update"})
		return
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), id, patch)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles PATCH /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), id); err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := parseOrderFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	orders, total, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	resp := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func parseOrderFilter(c *gin.Context) (repository.OrderFilter, error) {
	var filter repository.OrderFilter

	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("invalid user_id")
		}
		filter.UserID = &id
	}
	if v := c.Query("status"); v != "" {
		status, ok := orderStatuses[v]
		if !ok {
			return filter, errors.New("invalid status")
		}
		filter.Status = &status
	}
	if v := c.Query("payment_status"); v != "" {
		status, ok := paymentStatuses[v]
		if !ok {
			return filter, errors.New("invalid payment_status")
		}
		filter.PaymentStatus = &status
	}
	filter.Email = c.Query("email")
	if v := c.Query("created_from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid created_from")
		}
		filter.CreatedFrom = &from
	}
	if v := c.Query("created_to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid created_to")
		}
		filter.CreatedTo = &to
	}
	if v := c.Query("created_by"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("invalid created_by")
		}
		filter.CreatedBy = &id
	}
	filter.SortBy = c.Query("sort_by")
	filter.SortDesc = c.Query("sort_dir") != "asc"
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errors.New("invalid offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}

func writeOrderError(c *gin.Context, err error) {
	var stockErr domainErrors.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: stockErr.Error(), AvailableStock: &available})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrNoItems),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrMissingCustomer):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrOrderCancelled),
		errors.Is(err, domainErrors.ErrOrderDelivered),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
