package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category identifies the kind of money movement a request performs.
type Category string

const (
	CategoryTransfer   Category = "TRANSFER"
	CategoryWithdrawal Category = "WITHDRAWAL"
)

// Valid reports whether the category is one the orchestrator knows.
func (c Category) Valid() bool {
	return c == CategoryTransfer || c == CategoryWithdrawal
}

// Direction of a transaction relative to the owning wallet.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Transaction statuses as reported by the ledger.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// TransactionRecord is the local view of a settled (or settling) ledger
// transaction. Records are kept in a bounded most-recent-first history
// cache and persisted for the history endpoint.
type TransactionRecord struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	AccountID    string          `gorm:"index;not null" json:"account_id"`
	Reference    string          `gorm:"uniqueIndex;not null" json:"reference"`
	Category     Category        `gorm:"not null" json:"category"`
	Direction    Direction       `gorm:"not null" json:"direction"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Fee          decimal.Decimal `gorm:"type:numeric(20,2)" json:"fee"`
	Counterparty string          `gorm:"not null" json:"counterparty"`
	Status       string          `gorm:"not null;default:'PENDING'" json:"status"`
	Note         string          `json:"note,omitempty"`
	Metadata     JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransferRequest carries everything the ledger needs to execute one
// transfer or withdrawal. It is immutable once handed to the submitter.
type TransferRequest struct {
	SenderAccountID     string
	RecipientIdentifier string
	Recipient           *Recipient
	Amount              decimal.Decimal
	Fee                 decimal.Decimal
	Note                string
	Category            Category
	Bank                *BankDetails
	Secret              SecretCredential
	IdempotencyToken    string
}

// Total is the full debit the request places on the wallet.
func (r *TransferRequest) Total() decimal.Decimal {
	return r.Amount.Add(r.Fee)
}
