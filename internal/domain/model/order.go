package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks fulfillment progress of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks the money side of an order. It is related to but
// mutated independently from OrderStatus.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Order describes one checkout transaction. A nil UserID means a guest
// order identified by the customer contact fields.
type Order struct {
	ID                 int64
	Reference          string
	UserID             *int64
	CustomerEmail      *string
	CustomerName       *string
	CustomerPhone      *string
	DeliveryAddress    *string
	DeliveryOptionID   *int64
	DeliveryOptionName *string
	Subtotal           decimal.Decimal
	DeliveryCost       *decimal.Decimal
	TotalPrice         decimal.Decimal
	Status             OrderStatus
	PaymentStatus      PaymentStatus
	PaymentReference   *string
	Metadata           map[string]any
	Items              []OrderItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AmountMinorUnits returns the total price in the gateway's minor currency
// units, the form payment events report amounts in.
func (o *Order) AmountMinorUnits() int64 {
	return o.TotalPrice.Shift(2).Round(0).IntPart()
}

// OrderItem is a single line within an order. Price is the unit price
// captured at order time; later catalog price changes never affect it.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
}
