package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart fails a checkout before any order is created.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrValidation marks bad client input; wrap it with detail.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks an unknown order, variant or cart item.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition rejects a disallowed order status change.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// InsufficientStockError names the variant that cannot cover the
// requested quantity.
type InsufficientStockError struct {
	VariantID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

// ProviderError reports a failed payment-provider call. The order named by
// OrderID was already created and stays PENDING without a handle.
type ProviderError struct {
	OrderID int64
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider call failed for order %d: %v", e.OrderID, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
