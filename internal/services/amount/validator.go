// Package amount validates requested transaction amounts against the
// wallet balance, the applicable fee and a per-category minimum. It is
// pure: no I/O, no clock, fully deterministic.
package amount

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// Validator checks raw user input before it can become a draft amount.
type Validator struct {
	minimum decimal.Decimal
}

// New creates a validator enforcing the given minimum. A zero minimum
// disables the check (peer transfers have no floor; withdrawals do).
func New(minimum decimal.Decimal) *Validator {
	return &Validator{minimum: minimum}
}

// Parse runs the local-only checks: the raw input must parse to a
// positive amount at or above the configured minimum. A draft that
// fails Parse must never cause network traffic.
func (v *Validator) Parse(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amt.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	if v.minimum.Sign() > 0 && amt.LessThan(v.minimum) {
		return decimal.Zero, ErrBelowMinimum
	}

	return amt, nil
}

// Validate parses raw and checks it against the balance and fee.
// It returns the parsed amount or one of ErrInvalidAmount,
// ErrBelowMinimum, ErrInsufficientBalance.
func (v *Validator) Validate(raw string, balance models.WalletBalance, fee decimal.Decimal) (decimal.Decimal, error) {
	amt, err := v.Parse(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if amt.Add(fee).GreaterThan(balance.Available) {
		return decimal.Zero, ErrInsufficientBalance
	}

	return amt, nil
}

// Minimum exposes the configured floor for confirmation screens.
func (v *Validator) Minimum() decimal.Decimal { return v.minimum }
