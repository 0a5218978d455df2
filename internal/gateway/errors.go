package gateway

import "errors"

// Classified ledger errors. The submitter and orchestrator branch on
// these; only ErrNetwork is safe to retry with the same idempotency token.
var (
	ErrInvalidSecret       = errors.New("invalid transaction secret")
	ErrOTPExpired          = errors.New("otp expired")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNetwork             = errors.New("network error")
	ErrServer              = errors.New("server error")
)

// Retryable reports whether a classified error may be retried by the
// user with the original idempotency token.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}
