package amount

import "errors"

// Validation errors. These are resolved entirely client-side and never
// reach the network.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrBelowMinimum        = errors.New("amount below minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
