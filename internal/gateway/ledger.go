package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// Transfer executes a peer/store/school transfer. The idempotency key
// must be stable across retries of the same draft.
func (c *Client) Transfer(ctx context.Context, bearer, idempotencyKey string, req TransferRequest) (*models.TransactionRecord, error) {
	var resp TransferResponse
	if err := c.call(ctx, http.MethodPost, "/transfer", bearer, idempotencyKey, req, &resp); err != nil {
		return nil, err
	}
	if resp.Transaction == nil {
		return nil, fmt.Errorf("%w: transfer response missing transaction", ErrServer)
	}
	return resp.Transaction, nil
}

// Withdraw executes a direct bank withdrawal.
func (c *Client) Withdraw(ctx context.Context, bearer, idempotencyKey string, req WithdrawRequest) (*models.TransactionRecord, error) {
	var resp WithdrawResponse
	if err := c.call(ctx, http.MethodPost, "/withdraw", bearer, idempotencyKey, req, &resp); err != nil {
		return nil, err
	}
	if resp.Transaction == nil {
		return nil, fmt.Errorf("%w: withdraw response missing transaction", ErrServer)
	}
	return resp.Transaction, nil
}

// ResolveAccount verifies a bank account and returns the holder name.
func (c *Client) ResolveAccount(ctx context.Context, bearer, accountNumber, bankCode string) (string, error) {
	q := url.Values{}
	q.Set("account_number", accountNumber)
	q.Set("bank_code", bankCode)

	var resp ResolveAccountResponse
	if err := c.call(ctx, http.MethodGet, "/resolveaccount?"+q.Encode(), bearer, "", nil, &resp); err != nil {
		return "", err
	}
	if resp.AccountName == "" {
		return "", ErrRecipientNotFound
	}
	return resp.AccountName, nil
}

// ValidateWithdrawal returns the server-computed charge for a
// withdrawal amount. Required before PIN entry on withdrawals.
func (c *Client) ValidateWithdrawal(ctx context.Context, bearer string, amount decimal.Decimal) (*ValidateWithdrawalResponse, error) {
	var resp ValidateWithdrawalResponse
	req := ValidateWithdrawalRequest{Amount: amount}
	if err := c.call(ctx, http.MethodPost, "/validateaccount", bearer, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateOTP asks the ledger to issue a one-time code out of band.
func (c *Client) GenerateOTP(ctx context.Context, bearer string) error {
	return c.call(ctx, http.MethodPost, "/otp/generate", bearer, "", nil, nil)
}

// VerifyOTP confirms an issued OTP for the given bank details.
func (c *Client) VerifyOTP(ctx context.Context, bearer string, req VerifyOTPRequest) error {
	return c.call(ctx, http.MethodPost, "/otp/verify", bearer, "", req, nil)
}

// ListCharges fetches the fee schedule source.
func (c *Client) ListCharges(ctx context.Context, bearer string) ([]models.Charge, error) {
	var charges []models.Charge
	if err := c.call(ctx, http.MethodGet, "/charges", bearer, "", nil, &charges); err != nil {
		return nil, err
	}
	return charges, nil
}

// GetProfile fetches the authoritative balance and PIN-set flag.
func (c *Client) GetProfile(ctx context.Context, bearer string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.call(ctx, http.MethodGet, "/profile", bearer, "", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
