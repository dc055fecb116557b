package checkout

import "errors"

var (
	ErrLoginRequired   = errors.New("login required")
	ErrCartEmpty       = errors.New("cart empty")
	ErrPaymentRequired = errors.New("payment confirmation required")
	ErrPaymentMismatch = errors.New("payment does not cover the order total")
	ErrPaymentUsed     = errors.New("payment already used for another order")

	// ErrOrderFailed means the order could not be recorded. The cart is left
	// as it was and the buyer may retry.
	ErrOrderFailed = errors.New("order could not be placed, please try again")

	ErrOrderNotFound = errors.New("order not found")
)
