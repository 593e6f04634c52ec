package model

import "github.com/shopspring/decimal"

// DeliveryOption resolves a delivery choice to its cost.
type DeliveryOption struct {
	ID   int64
	Name string
	Cost decimal.Decimal
}
