package recipient

import "errors"

// Service errors
var (
	ErrInvalidIdentifier = errors.New("invalid recipient identifier")
	ErrResolutionFailed  = errors.New("account resolution failed")
)
