package orchestrator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/fees"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/secret"
)

// Strategy supplies the category-specific steps of the lifecycle. The
// state machine itself is category-agnostic.
type Strategy interface {
	Category() models.Category

	// Minimum is the smallest acceptable amount; zero disables the check.
	Minimum() decimal.Decimal

	// RequiresResolution reports whether the recipient must be verified
	// remotely before the session may reach AwaitingSecret.
	RequiresResolution() bool

	// Fee returns the charge for the given amount.
	Fee(ctx context.Context, bearer string, amount decimal.Decimal) (decimal.Decimal, error)

	// SecretMode picks the gate flow given whether a PIN exists yet.
	SecretMode(pinSet bool) secret.Mode
}

// WithdrawalPreviewer is the server-side fee preview call, mandatory
// before PIN entry on withdrawals.
type WithdrawalPreviewer interface {
	ValidateWithdrawal(ctx context.Context, bearer string, amount decimal.Decimal) (*gateway.ValidateWithdrawalResponse, error)
}

// TransferStrategy covers agent-to-store, parent-to-kid and
// school-to-user transfers: email/code recipients are pre-resolved and
// the fee comes from the charge schedule.
type TransferStrategy struct {
	Fees fees.Service
}

func (TransferStrategy) Category() models.Category { return models.CategoryTransfer }
func (TransferStrategy) Minimum() decimal.Decimal  { return decimal.Zero }
func (TransferStrategy) RequiresResolution() bool  { return false }

func (s TransferStrategy) Fee(ctx context.Context, bearer string, _ decimal.Decimal) (decimal.Decimal, error) {
	return s.Fees.Resolve(ctx, bearer, models.CategoryTransfer)
}

func (TransferStrategy) SecretMode(pinSet bool) secret.Mode {
	if !pinSet {
		return secret.ModePINSetup
	}
	return secret.ModePIN
}

// WithdrawalMinimum is the enforced floor for withdrawals.
var WithdrawalMinimum = decimal.NewFromInt(1000)

// WithdrawalStrategy requires bank-account resolution before the secret
// gate and prices the withdrawal with the server's charge preview. The
// preview is authoritative and overrides the cached schedule.
type WithdrawalStrategy struct {
	Fees      fees.Service
	Previewer WithdrawalPreviewer
}

func (WithdrawalStrategy) Category() models.Category { return models.CategoryWithdrawal }
func (WithdrawalStrategy) Minimum() decimal.Decimal  { return WithdrawalMinimum }
func (WithdrawalStrategy) RequiresResolution() bool  { return true }

func (s WithdrawalStrategy) Fee(ctx context.Context, bearer string, amount decimal.Decimal) (decimal.Decimal, error) {
	preview, err := s.Previewer.ValidateWithdrawal(ctx, bearer, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return preview.Charge, nil
}

func (WithdrawalStrategy) SecretMode(pinSet bool) secret.Mode {
	if !pinSet {
		return secret.ModePINSetup
	}
	return secret.ModePIN
}
