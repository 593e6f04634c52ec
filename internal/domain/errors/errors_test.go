package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := InsufficientStockError{ProductID: 7, Requested: 3, Available: 1}
	want := "insufficient stock for product 7: requested 3, available 1"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestInsufficientStockErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("create order: %w", InsufficientStockError{ProductID: 1, Requested: 2, Available: 0})
	var stockErr InsufficientStockError
	if !errors.As(wrapped, &stockErr) {
		t.Fatal("expected errors.As to unwrap InsufficientStockError")
	}
	if stockErr.Available != 0 {
		t.Fatalf("unexpected available quantity %d", stockErr.Available)
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if errors.Is(ErrOrderCancelled, ErrOrderDelivered) {
		t.Fatal("cancellation errors must be distinct")
	}
	if errors.Is(ErrNotFound, ErrAlreadyExists) {
		t.Fatal("not found and conflict must be distinct")
	}
}
