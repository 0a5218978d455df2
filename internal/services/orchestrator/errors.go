package orchestrator

import (
	"errors"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/amount"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/secret"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/submitter"
)

// State machine errors
var (
	ErrInvalidState    = errors.New("operation not allowed in current state")
	ErrNotCancellable  = errors.New("submission in progress, cannot cancel")
	ErrRetryNotAllowed = errors.New("failure is not retryable")
	ErrSessionNotFound = errors.New("orchestration session not found")
)

// Message maps a classified error to the specific user-visible string
// for it. A payments flow must never collapse these into one generic
// failure message.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, amount.ErrInvalidAmount):
		return "enter a valid amount"
	case errors.Is(err, amount.ErrBelowMinimum):
		return "amount is below the minimum"
	case errors.Is(err, amount.ErrInsufficientBalance),
		errors.Is(err, gateway.ErrInsufficientBalance):
		return "insufficient balance"
	case errors.Is(err, gateway.ErrInvalidSecret):
		return "incorrect PIN"
	case errors.Is(err, gateway.ErrUnauthorized):
		return "session expired, sign in again"
	case errors.Is(err, gateway.ErrOTPExpired):
		return "OTP expired, request a new one"
	case errors.Is(err, gateway.ErrRecipientNotFound):
		return "recipient not found"
	case errors.Is(err, secret.ErrMalformedSecret):
		return "PIN must be exactly 4 digits"
	case errors.Is(err, submitter.ErrAlreadyInFlight):
		return "a submission is already in progress"
	case errors.Is(err, gateway.ErrNetwork):
		return "network error, you can retry"
	default:
		return "something went wrong, please try again"
	}
}
