package secret

import "errors"

// Gate errors
var (
	ErrMalformedSecret = errors.New("malformed secret")
	ErrNotVerified     = errors.New("secret gate not satisfied")
	ErrAlreadySpent    = errors.New("secret already consumed")
)
