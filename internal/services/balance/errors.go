package balance

import "errors"

// Service errors
var (
	// ErrHoldSettled guards the at-most-once settle rule: confirming or
	// rolling back the same hold twice is a programming error, not a
	// silent balance adjustment.
	ErrHoldSettled = errors.New("hold already settled")

	ErrInvalidHold   = errors.New("invalid hold")
	ErrInvalidAmount = errors.New("invalid amount")
)
