package models

import "github.com/shopspring/decimal"

// WalletBalance is the locally owned view of the user's spendable money.
// Available is the authoritative amount last confirmed by the ledger;
// Pending accumulates optimistic holds that are not yet confirmed.
type WalletBalance struct {
	Available decimal.Decimal `json:"available"`
	Pending   decimal.Decimal `json:"pending"`
}

// Spendable is what the user can commit right now: available minus
// whatever is already held by in-flight requests.
func (b WalletBalance) Spendable() decimal.Decimal {
	return b.Available.Sub(b.Pending)
}

// UserProfile is the slice of the remote profile the orchestrator needs:
// the authoritative balance and whether a transaction PIN exists yet.
type UserProfile struct {
	AccountID string          `json:"account_id"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	PINSet    bool            `json:"pin_set"`
}
