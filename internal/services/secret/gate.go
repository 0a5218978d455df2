// Package secret implements the PIN/OTP gate that blocks a draft from
// submission until the user has confirmed intent. Format rules are
// enforced locally so a malformed secret never reaches the server, and
// the secret itself lives only until one submission attempt consumes it.
package secret

import (
	"context"
	"sync"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// Mode selects which flow satisfies the gate.
type Mode string

const (
	// ModePIN carries the secret inline with the transaction submission;
	// there is no separate verify round trip.
	ModePIN Mode = "pin"

	// ModePINSetup is used when the profile reports no PIN yet: the
	// ledger treats the supplied PIN as the one to create.
	ModePINSetup Mode = "pin_setup"

	// ModeOTP requires the secret to be issued out of band and verified
	// before the flow unlocks.
	ModeOTP Mode = "otp"
)

const pinLength = 4

// OTPIssuer is the ledger's two-step OTP contract.
type OTPIssuer interface {
	GenerateOTP(ctx context.Context, bearer string) error
	VerifyOTP(ctx context.Context, bearer string, req VerifyRequest) error
}

// VerifyRequest carries the OTP together with the bank details it
// authorizes for persistence.
type VerifyRequest struct {
	OTP           string
	AccountName   string
	AccountNumber string
	BankName      string
	BankCode      string
}

// Gate holds one secret for one submission attempt.
type Gate struct {
	mode   Mode
	issuer OTPIssuer

	mu       sync.Mutex
	verified bool
	spent    bool
	secret   models.SecretCredential
}

// NewGate creates a gate for the given mode. The issuer is only needed
// for ModeOTP.
func NewGate(mode Mode, issuer OTPIssuer) *Gate {
	if mode == ModeOTP && issuer == nil {
		panic("otp issuer is required for otp mode")
	}
	return &Gate{mode: mode, issuer: issuer}
}

// Mode reports which flow the gate expects.
func (g *Gate) Mode() Mode { return g.mode }

// ValidPIN checks format only: exactly four digits.
func ValidPIN(pin string) bool {
	if len(pin) != pinLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SubmitPIN satisfies a PIN-mode gate. The PIN is checked locally and
// then held for the submission that carries it to the ledger.
func (g *Gate) SubmitPIN(pin string) error {
	if !ValidPIN(pin) {
		return ErrMalformedSecret
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.secret = models.SecretCredential(pin)
	g.verified = true
	g.spent = false
	return nil
}

// RequestOTP asks the ledger to issue a one-time code out of band.
func (g *Gate) RequestOTP(ctx context.Context, bearer string) error {
	if g.mode != ModeOTP {
		return ErrMalformedSecret
	}
	return g.issuer.GenerateOTP(ctx, bearer)
}

// VerifyOTP confirms the issued code with the ledger. Only on success
// does the gate unlock; the verified code is then held for submission.
func (g *Gate) VerifyOTP(ctx context.Context, bearer, code string, details models.BankDetails) error {
	if g.mode != ModeOTP {
		return ErrMalformedSecret
	}
	if code == "" {
		return ErrMalformedSecret
	}

	err := g.issuer.VerifyOTP(ctx, bearer, VerifyRequest{
		OTP:           code,
		AccountName:   details.AccountName,
		AccountNumber: details.AccountNumber,
		BankName:      details.BankName,
		BankCode:      details.BankCode,
	})
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.secret = models.SecretCredential(code)
	g.verified = true
	g.spent = false
	return nil
}

// Verified reports whether the gate is satisfied.
func (g *Gate) Verified() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verified && !g.spent
}

// Take hands the secret to exactly one submission attempt and clears
// it. A second Take without a fresh secret fails.
func (g *Gate) Take() (models.SecretCredential, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.verified {
		return "", ErrNotVerified
	}
	if g.spent {
		return "", ErrAlreadySpent
	}
	g.spent = true
	s := g.secret
	g.secret = ""
	return s, nil
}

// Restore re-arms the gate with a secret taken by an attempt that did
// not complete, so a retry can resubmit without fresh user input.
func (g *Gate) Restore(sec models.SecretCredential) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.secret = sec
	g.verified = true
	g.spent = false
}

// Reset returns the gate to awaiting-input after a server-reported
// invalid secret. The surrounding draft (amount, recipient) is owned by
// the orchestrator and is deliberately untouched.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verified = false
	g.spent = false
	g.secret = ""
}
