package services

import "errors"

// Domain errors for the cart/checkout/order flow. Handlers translate these
// into HTTP statuses and the uniform error envelope; anything else is
// treated as an internal error.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrItemNotFound        = errors.New("item not found in cart")
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrPaymentProvider     = errors.New("payment provider error")
)
