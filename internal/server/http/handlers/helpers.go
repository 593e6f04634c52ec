package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osoko/commerce/internal/domain/model"
	"github.com/osoko/commerce/internal/server/http/dto"
	"github.com/osoko/commerce/internal/usecase"
)

// pathID extracts a positive integer identifier from the named path param.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                 order.ID,
		Reference:          order.Reference,
		UserID:             order.UserID,
		CustomerEmail:      order.CustomerEmail,
		CustomerName:       order.CustomerName,
		CustomerPhone:      order.CustomerPhone,
		DeliveryAddress:    order.DeliveryAddress,
		DeliveryOptionID:   order.DeliveryOptionID,
		DeliveryOptionName: order.DeliveryOptionName,
		Subtotal:           order.Subtotal.StringFixed(2),
		TotalPrice:         order.TotalPrice.StringFixed(2),
		Status:             string(order.Status),
		PaymentStatus:      string(order.PaymentStatus),
		PaymentReference:   order.PaymentReference,
		Metadata:           order.Metadata,
		Items:              make([]dto.OrderItemResponse, 0, len(order.Items)),
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
	if order.DeliveryCost != nil {
		cost := order.DeliveryCost.StringFixed(2)
		resp.DeliveryCost = &cost
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		})
	}
	return resp
}

func toCreateOrderResponse(result *usecase.CreateOrderResult) dto.CreateOrderResponse {
	resp := dto.CreateOrderResponse{
		Order:              toOrderResponse(result.Order),
		CustomerRegistered: result.CustomerRegistered,
	}
	if result.Payment != nil {
		resp.Payment = &dto.PaymentResponse{
			AuthorizationURL: result.Payment.AuthorizationURL,
			AccessCode:       result.Payment.AccessCode,
			Reference:        result.Payment.Reference,
		}
	}
	return resp
}
