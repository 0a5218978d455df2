package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/amount"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/balance"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/recipient"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/secret"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/submitter"
)

// Deps are the collaborators a session drives.
type Deps struct {
	Recipients recipient.Service
	Submitter  submitter.Service
	Reconciler *balance.Reconciler
	OTP        secret.OTPIssuer
	Logger     *zap.Logger
}

// Session is the state machine for one draft. One user drives one
// session at a time; transitions happen in response to user input or
// network completion, never concurrently for the same draft.
type Session struct {
	id        string
	accountID string
	strategy  Strategy
	deps      Deps
	pinSet    bool

	mu    sync.Mutex
	state State

	// draft fields, mutable in Draft only
	rawAmount   string
	note        string
	recipientID string
	bankName    string
	persistBank bool

	// validated artifacts
	amt   decimal.Decimal
	fee   decimal.Decimal
	rec   *models.Recipient
	token string

	gate        *secret.Gate
	hold        *balance.Hold
	record      *models.TransactionRecord
	failure     error
	retryable   bool
	lastAttempt time.Time
}

// NewSession creates a draft session for the given account and
// category strategy. pinSet comes from the user profile and decides
// whether the gate asks for PIN creation instead of PIN entry.
func NewSession(accountID string, strategy Strategy, pinSet bool, deps Deps) *Session {
	if strategy == nil {
		panic("strategy is required")
	}
	if deps.Recipients == nil || deps.Submitter == nil || deps.Reconciler == nil {
		panic("recipients, submitter and reconciler are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Session{
		id:        uuid.NewString(),
		accountID: accountID,
		strategy:  strategy,
		deps:      deps,
		pinSet:    pinSet,
		state:     StateDraft,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetAmount updates the draft amount. Editing a validated draft drops
// it back to Draft; editing past AwaitingSecret is rejected.
func (s *Session) SetAmount(raw string) error {
	return s.editDraft(func() { s.rawAmount = raw })
}

// SetRecipient updates the draft recipient identifier: an email or
// store code for transfers, "accountNumber:bankCode" for withdrawals.
func (s *Session) SetRecipient(identifier string) error {
	return s.editDraft(func() { s.recipientID = identifier })
}

// SetNote updates the optional description.
func (s *Session) SetNote(note string) error {
	return s.editDraft(func() { s.note = note })
}

// SetBankName records the display bank name used by the OTP verify
// payload when new bank details are persisted.
func (s *Session) SetBankName(name string) error {
	return s.editDraft(func() { s.bankName = name })
}

// PersistBankDetails marks the withdrawal's bank details as new: the
// secret gate will then require the two-step OTP flow before the
// details are stored and the withdrawal may execute.
func (s *Session) PersistBankDetails(persist bool) error {
	return s.editDraft(func() { s.persistBank = persist })
}

func (s *Session) editDraft(apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateDraft:
	case StateValidated:
		// no stale validation reuse: any edit invalidates
		s.state = StateDraft
		s.token = ""
		s.rec = nil
	default:
		return ErrInvalidState
	}

	apply()
	return nil
}

// Validate runs amount validation, fee resolution and, where the
// category requires it, the blocking recipient resolution. On success
// the session holds a fresh idempotency token for this distinct draft.
func (s *Session) Validate(ctx context.Context, bearer string) error {
	s.mu.Lock()
	if s.state != StateDraft {
		s.mu.Unlock()
		return ErrInvalidState
	}
	rawAmount, recipientID := s.rawAmount, s.recipientID
	s.mu.Unlock()

	// Local checks first: a draft that fails parse or minimum never
	// reaches the network. Only then is the fee resolved, since the
	// balance check must account for it.
	validator := amount.New(s.strategy.Minimum())
	parsed, err := validator.Parse(rawAmount)
	if err != nil {
		return err
	}

	fee, err := s.strategy.Fee(ctx, bearer, parsed)
	if err != nil {
		return err
	}

	amt, err := validator.Validate(rawAmount, s.deps.Reconciler.Balance(), fee)
	if err != nil {
		return err
	}

	var rec *models.Recipient
	if s.strategy.RequiresResolution() {
		s.setState(StateResolving)
		rec, err = s.deps.Recipients.Resolve(ctx, bearer, recipientID, s.strategy.Category())
		if err != nil {
			s.setState(StateDraft)
			return err
		}
	} else {
		rec, err = s.deps.Recipients.Resolve(ctx, bearer, recipientID, s.strategy.Category())
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.amt = amt
	s.fee = fee
	s.rec = rec
	s.token = uuid.NewString()
	s.state = StateValidated
	s.mu.Unlock()

	s.deps.Logger.Info("draft validated",
		zap.String("session", s.id),
		zap.String("category", string(s.strategy.Category())),
		zap.String("amount", amt.String()),
		zap.String("fee", fee.String()))

	return nil
}

// Confirm moves a validated draft to AwaitingSecret. The balance check
// is re-run here: the wallet may have been refreshed since validation,
// and phantom spendable money must be caught before the secret prompt.
func (s *Session) Confirm(ctx context.Context, bearer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateValidated {
		return ErrInvalidState
	}
	if s.strategy.RequiresResolution() && s.rec == nil {
		return ErrInvalidState
	}

	if s.amt.Add(s.fee).GreaterThan(s.deps.Reconciler.Balance().Available) {
		s.state = StateDraft
		s.token = ""
		return amount.ErrInsufficientBalance
	}

	mode := s.strategy.SecretMode(s.pinSet)
	if s.persistBank {
		mode = secret.ModeOTP
	}
	s.gate = secret.NewGate(mode, s.deps.OTP)
	s.state = StateAwaitingSecret
	return nil
}

// SecretMode reports which flow the gate expects; empty before Confirm.
func (s *Session) SecretMode() secret.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate == nil {
		return ""
	}
	return s.gate.Mode()
}

// SubmitPIN satisfies a PIN-mode gate. Amount and recipient are
// read-only at this point and are rendered back for confirmation.
func (s *Session) SubmitPIN(pin string) error {
	gate, err := s.gateInState()
	if err != nil {
		return err
	}
	return gate.SubmitPIN(pin)
}

// RequestOTP asks the ledger to issue a one-time code.
func (s *Session) RequestOTP(ctx context.Context, bearer string) error {
	gate, err := s.gateInState()
	if err != nil {
		return err
	}
	return gate.RequestOTP(ctx, bearer)
}

// VerifyOTP confirms the issued code along with the bank details being
// persisted. Verification success unlocks the withdrawal.
func (s *Session) VerifyOTP(ctx context.Context, bearer, code string) error {
	gate, err := s.gateInState()
	if err != nil {
		return err
	}

	s.mu.Lock()
	details := s.bankDetailsLocked()
	s.mu.Unlock()
	if details == nil {
		return ErrInvalidState
	}

	return gate.VerifyOTP(ctx, bearer, code, *details)
}

func (s *Session) gateInState() (*secret.Gate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingSecret || s.gate == nil {
		return nil, ErrInvalidState
	}
	return s.gate, nil
}

// Submit enters Submitting exactly once per draft: the optimistic hold
// is applied and the request handed to the submitter in one critical
// section, then the outcome is reconciled strictly after the call
// resolves.
func (s *Session) Submit(ctx context.Context, bearer string) (*models.TransactionRecord, error) {
	s.mu.Lock()
	if s.state != StateAwaitingSecret {
		s.mu.Unlock()
		return nil, ErrInvalidState
	}
	if s.gate == nil || !s.gate.Verified() {
		s.mu.Unlock()
		return nil, secret.ErrNotVerified
	}

	sec, err := s.gate.Take()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	req := s.buildRequestLocked(sec)

	// Hold application is atomic with entry into Submitting: no
	// observable point exists where the state says Submitting but
	// pending does not cover the request.
	hold, err := s.deps.Reconciler.ApplyOptimistic(s.amt, s.fee)
	if err != nil {
		s.gate.Reset()
		s.mu.Unlock()
		return nil, err
	}
	s.hold = hold
	s.state = StateSubmitting
	s.lastAttempt = time.Now()
	s.mu.Unlock()

	record, err := s.deps.Submitter.Submit(ctx, bearer, req)
	if err != nil {
		return nil, s.settleFailure(ctx, err, sec)
	}

	s.mu.Lock()
	s.record = record
	s.state = StateSettled
	hold = s.hold
	s.hold = nil
	s.mu.Unlock()

	if err := s.deps.Reconciler.Confirm(ctx, hold, record); err != nil {
		// The hold was settled elsewhere; that is a bug, not a user error.
		s.deps.Logger.Error("hold settle failed after confirmation",
			zap.String("session", s.id), zap.Error(err))
	}

	return record, nil
}

// Retry re-submits after a network failure, reusing the original
// idempotency token so the ledger deduplicates an ambiguous outcome.
func (s *Session) Retry(ctx context.Context, bearer string) (*models.TransactionRecord, error) {
	s.mu.Lock()
	if s.state != StateFailed || !s.retryable {
		s.mu.Unlock()
		return nil, ErrRetryNotAllowed
	}

	// A bank resolution older than this attempt must be re-verified.
	// The cached resolution is discarded first so the re-resolve reaches
	// the ledger instead of serving the same stale record back.
	if s.rec != nil && s.rec.Kind == models.RecipientBankAccount && s.rec.StaleSince(s.lastAttempt) {
		recipientID := s.recipientID
		s.mu.Unlock()

		if err := s.deps.Recipients.Discard(ctx, recipientID); err != nil {
			return nil, err
		}
		fresh, err := s.deps.Recipients.Resolve(ctx, bearer, recipientID, s.strategy.Category())
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.rec = fresh
	}

	s.state = StateAwaitingSecret
	s.failure = nil
	s.retryable = false
	s.mu.Unlock()

	return s.Submit(ctx, bearer)
}

// Cancel abandons the draft with no side effects. Not permitted once
// Submitting has begun.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.cancellable() {
		if s.state == StateSubmitting {
			return ErrNotCancellable
		}
		return ErrInvalidState
	}

	s.state = StateCancelled
	s.gate = nil
	return nil
}

// Reset returns a failed session to Draft as a fresh draft: new token,
// no cached validation, resolutions discarded.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFailed {
		return ErrInvalidState
	}

	if s.rec != nil && s.rec.Kind == models.RecipientBankAccount {
		_ = s.deps.Recipients.Discard(ctx, s.recipientID)
	}

	s.state = StateDraft
	s.token = ""
	s.rec = nil
	s.gate = nil
	s.failure = nil
	s.retryable = false
	s.record = nil
	return nil
}

// settleFailure rolls back the hold and classifies the outcome. An
// invalid secret returns the session to AwaitingSecret with the draft
// intact; a network failure is retryable with the same token and the
// taken secret restored for the retry; anything else is terminal and
// discards cached resolutions.
func (s *Session) settleFailure(ctx context.Context, cause error, sec models.SecretCredential) error {
	s.mu.Lock()
	hold := s.hold
	s.hold = nil
	s.mu.Unlock()

	if hold != nil {
		if err := s.deps.Reconciler.Rollback(hold); err != nil {
			s.deps.Logger.Error("rollback failed",
				zap.String("session", s.id), zap.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case errors.Is(cause, gateway.ErrInvalidSecret):
		// wrong PIN: back to secret entry, amount and recipient preserved
		s.state = StateAwaitingSecret
		if s.gate != nil {
			s.gate.Reset()
		}
	case gateway.Retryable(cause):
		s.state = StateFailed
		s.failure = cause
		s.retryable = true
		if s.gate != nil {
			s.gate.Restore(sec)
		}
	default:
		s.state = StateFailed
		s.failure = cause
		s.retryable = false
		if s.rec != nil && s.rec.Kind == models.RecipientBankAccount {
			// a stale resolution must not be silently reused
			_ = s.deps.Recipients.Discard(ctx, s.recipientID)
		}
	}

	s.deps.Logger.Warn("submission settled with failure",
		zap.String("session", s.id),
		zap.String("state", string(s.state)),
		zap.Bool("retryable", s.retryable),
		zap.Error(cause))

	return cause
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// buildRequestLocked assembles the immutable submission request.
// Caller holds the lock.
func (s *Session) buildRequestLocked(sec models.SecretCredential) *models.TransferRequest {
	req := &models.TransferRequest{
		SenderAccountID:     s.accountID,
		RecipientIdentifier: s.recipientID,
		Recipient:           s.rec,
		Amount:              s.amt,
		Fee:                 s.fee,
		Note:                s.note,
		Category:            s.strategy.Category(),
		Secret:              sec,
		IdempotencyToken:    s.token,
	}
	req.Bank = s.bankDetailsLocked()
	return req
}

// bankDetailsLocked derives the wire bank details from the resolved
// recipient. Caller holds the lock.
func (s *Session) bankDetailsLocked() *models.BankDetails {
	if s.rec == nil || s.rec.Kind != models.RecipientBankAccount {
		return nil
	}

	_, bankCode, _ := cutIdentifier(s.recipientID)
	return &models.BankDetails{
		AccountName:   s.rec.DisplayName,
		AccountNumber: s.rec.AccountRef,
		BankName:      s.bankName,
		BankCode:      bankCode,
	}
}
