package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the slice of the catalog the order workflow depends on.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Stock     int32
	CreatedBy int64
	CreatedAt time.Time
}

// StockDirection selects the direction of a stock adjustment.
type StockDirection string

const (
	StockIncrease StockDirection = "increase"
	StockDecrease StockDirection = "decrease"
)
