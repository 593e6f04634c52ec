package model

import "time"

// Customer is an account in the customer directory.
type Customer struct {
	ID           int64
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}
