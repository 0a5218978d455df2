package gateway

import (
	"github.com/shopspring/decimal"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// TransferRequest is the wire form of a peer/store/school transfer.
type TransferRequest struct {
	ReceiverEmail string          `json:"receiverEmail"`
	Amount        decimal.Decimal `json:"amount"`
	PIN           string          `json:"pin"`
	Note          string          `json:"note,omitempty"`
}

// TransferResponse wraps the ledger's transfer result.
type TransferResponse struct {
	Message     string                    `json:"message"`
	Transaction *models.TransactionRecord `json:"transaction"`
}

// WithdrawRequest is the wire form of a direct bank withdrawal.
type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	PIN           string          `json:"pin"`
	AccountName   string          `json:"account_name"`
	AccountNumber string          `json:"account_number"`
	BankCode      string          `json:"bank_code"`
}

// WithdrawResponse wraps the ledger's withdrawal result.
type WithdrawResponse struct {
	Transaction *models.TransactionRecord `json:"transaction"`
}

// ResolveAccountResponse carries the verified holder name for a
// (account number, bank code) pair.
type ResolveAccountResponse struct {
	AccountName string `json:"account_name"`
}

// ValidateWithdrawalRequest asks the ledger to price a withdrawal.
type ValidateWithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ValidateWithdrawalResponse is the server-computed fee preview.
type ValidateWithdrawalResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Charge decimal.Decimal `json:"charge"`
}

// VerifyOTPRequest confirms an issued OTP together with the bank
// details it authorizes.
type VerifyOTPRequest struct {
	OTP           string `json:"otp"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	BankCode      string `json:"bankCode"`
}

// apiError is the ledger's error envelope. The code is the contract;
// the message is display text only.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
