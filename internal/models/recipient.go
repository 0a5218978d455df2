package models

import "time"

// RecipientKind distinguishes the routing surfaces a payment can target.
type RecipientKind string

const (
	RecipientUser        RecipientKind = "user"
	RecipientStore       RecipientKind = "store"
	RecipientBankAccount RecipientKind = "bank_account"
)

// Recipient is the canonical form of a human-entered destination. For
// email transfers the identifier itself is the routing key; bank accounts
// carry the ledger-verified account name in DisplayName.
type Recipient struct {
	Identifier  string        `json:"identifier"`
	DisplayName string        `json:"display_name"`
	AccountRef  string        `json:"account_ref"`
	Kind        RecipientKind `json:"kind"`
	ResolvedAt  time.Time     `json:"resolved_at"`
}

// StaleSince reports whether the resolution predates the given attempt
// and must be re-verified before it is trusted again.
func (r *Recipient) StaleSince(attemptStart time.Time) bool {
	return r.ResolvedAt.Before(attemptStart)
}

// BankDetails identifies a withdrawal destination prior to resolution.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	BankCode      string `json:"bank_code"`
}
