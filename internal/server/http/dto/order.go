package dto

import "time"

// OrderItemRequest describes one requested order line.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

// CreateOrderRequest describes the checkout payload.
type CreateOrderRequest struct {
	Items            []OrderItemRequest `json:"items"`
	UserID           *int64             `json:"user_id,omitempty"`
	CustomerEmail    *string            `json:"customer_email,omitempty"`
	CustomerName     *string            `json:"customer_name,omitempty"`
	CustomerPhone    *string            `json:"customer_phone,omitempty"`
	DeliveryAddress  *string            `json:"delivery_address,omitempty"`
	DeliveryOptionID *int64             `json:"delivery_option_id,omitempty"`
	CustomerPassword *string            `json:"customer_password,omitempty"`
	RegisterCustomer bool               `json:"register_customer,omitempty"`
	Metadata         map[string]any     `json:"metadata,omitempty"`
}

// UpdateOrderRequest describes a partial order update.
type UpdateOrderRequest struct {
	Status           *string        `json:"status,omitempty"`
	PaymentStatus    *string        `json:"payment_status,omitempty"`
	PaymentReference *string        `json:"payment_reference,omitempty"`
	DeliveryAddress  *string        `json:"delivery_address,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// OrderItemResponse describes one stored order line.
type OrderItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Price     string `json:"price"`
}

// OrderResponse describes an order returned to clients. Monetary values are
// rendered as fixed-point strings.
type OrderResponse struct {
	ID                 int64               `json:"id"`
	Reference          string              `json:"reference"`
	UserID             *int64              `json:"user_id,omitempty"`
	CustomerEmail      *string             `json:"customer_email,omitempty"`
	CustomerName       *string             `json:"customer_name,omitempty"`
	CustomerPhone      *string             `json:"customer_phone,omitempty"`
	DeliveryAddress    *string             `json:"delivery_address,omitempty"`
	DeliveryOptionID   *int64              `json:"delivery_option_id,omitempty"`
	DeliveryOptionName *string             `json:"delivery_option_name,omitempty"`
	Subtotal           string              `json:"subtotal"`
	DeliveryCost       *string             `json:"delivery_cost,omitempty"`
	TotalPrice         string              `json:"total_price"`
	Status             string              `json:"status"`
	PaymentStatus      string              `json:"payment_status"`
	PaymentReference   *string             `json:"payment_reference,omitempty"`
	Metadata           map[string]any      `json:"metadata,omitempty"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// PaymentResponse carries the gateway checkout pointers for a new order.
type PaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// CreateOrderResponse describes the checkout result.
type CreateOrderResponse struct {
	Order              OrderResponse    `json:"order"`
	Payment            *PaymentResponse `json:"payment,omitempty"`
	CustomerRegistered bool             `json:"customer_registered"`
}

// OrderListResponse describes one page of orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ErrorResponse carries a client-facing error message.
type ErrorResponse struct {
	Error          string `json:"error"`
	AvailableStock *int32 `json:"available_stock,omitempty"`
}
