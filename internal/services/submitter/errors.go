package submitter

import (
	"errors"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
)

// Service errors. Server-side failure classes (invalid secret,
// insufficient balance, recipient not found, network, server) surface
// as the gateway sentinels and pass through unchanged.
var (
	ErrAlreadyInFlight = errors.New("submission already in flight for recipient")
	ErrMissingToken    = errors.New("idempotency token is required")
	ErrMissingSecret   = errors.New("secret is required")
)

// errType buckets a submission error into a stable metrics label.
func errType(err error) string {
	switch {
	case errors.Is(err, gateway.ErrInvalidSecret):
		return "invalid_secret"
	case errors.Is(err, gateway.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, gateway.ErrRecipientNotFound):
		return "recipient_not_found"
	case errors.Is(err, gateway.ErrNetwork):
		return "network"
	case errors.Is(err, gateway.ErrServer):
		return "server"
	default:
		return "other"
	}
}
