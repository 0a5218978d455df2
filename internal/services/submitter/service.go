// Package submitter performs the network submission of a transfer or
// withdrawal. It guarantees single-flight per recipient and replays the
// original result for a repeated idempotency token instead of issuing a
// second debit.
package submitter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

type service struct {
	ledger  Ledger
	logger  *zap.Logger
	metrics MetricsCollector

	mu       sync.Mutex
	inFlight map[string]struct{}

	// completed maps idempotency token -> *models.TransactionRecord for
	// settled submissions, so a retry after an ambiguous outcome cannot
	// double-debit from our side either.
	completed sync.Map
}

// NewService creates a transaction submitter. Metrics is optional; nil
// installs a no-op collector.
func NewService(ledger Ledger, metrics MetricsCollector, logger *zap.Logger) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		ledger:   ledger,
		logger:   logger,
		metrics:  metrics,
		inFlight: make(map[string]struct{}),
	}
}

func (s *service) Submit(ctx context.Context, bearer string, req *models.TransferRequest) (*models.TransactionRecord, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	// Idempotent replay: a token we already settled returns the original
	// record without touching the network.
	if cached, ok := s.completed.Load(req.IdempotencyToken); ok {
		s.metrics.RecordReplay(string(req.Category))
		s.logger.Info("idempotent replay",
			zap.String("token", req.IdempotencyToken),
			zap.String("recipient", req.RecipientIdentifier))
		return cached.(*models.TransactionRecord), nil
	}

	// Single-flight: at most one outstanding submission per recipient.
	// The second caller is rejected synchronously.
	key := req.RecipientIdentifier
	s.mu.Lock()
	if _, busy := s.inFlight[key]; busy {
		s.mu.Unlock()
		return nil, ErrAlreadyInFlight
	}
	s.inFlight[key] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}()

	start := time.Now()
	record, err := s.dispatch(ctx, bearer, req)
	if err != nil {
		s.metrics.RecordError(string(req.Category), errType(err))
		s.logger.Warn("submission failed",
			zap.String("category", string(req.Category)),
			zap.String("recipient", req.RecipientIdentifier),
			zap.Bool("retryable", gateway.Retryable(err)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	s.normalize(record, req)
	s.completed.Store(req.IdempotencyToken, record)
	s.metrics.RecordSubmission(string(req.Category), time.Since(start))

	s.logger.Info("submission settled",
		zap.String("category", string(req.Category)),
		zap.String("reference", record.Reference),
		zap.String("status", record.Status),
		zap.Duration("elapsed", time.Since(start)))

	return record, nil
}

func (s *service) validate(req *models.TransferRequest) error {
	if req.IdempotencyToken == "" {
		return ErrMissingToken
	}
	if req.Secret == "" {
		return ErrMissingSecret
	}
	if req.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if req.Category == models.CategoryWithdrawal && req.Bank == nil {
		return fmt.Errorf("withdrawal requires resolved bank details")
	}
	return nil
}

func (s *service) dispatch(ctx context.Context, bearer string, req *models.TransferRequest) (*models.TransactionRecord, error) {
	switch req.Category {
	case models.CategoryTransfer:
		return s.ledger.Transfer(ctx, bearer, req.IdempotencyToken, gateway.TransferRequest{
			ReceiverEmail: req.RecipientIdentifier,
			Amount:        req.Amount,
			PIN:           req.Secret.Raw(),
			Note:          req.Note,
		})
	case models.CategoryWithdrawal:
		return s.ledger.Withdraw(ctx, bearer, req.IdempotencyToken, gateway.WithdrawRequest{
			Amount:        req.Amount,
			Description:   req.Note,
			PIN:           req.Secret.Raw(),
			AccountName:   req.Bank.AccountName,
			AccountNumber: req.Bank.AccountNumber,
			BankCode:      req.Bank.BankCode,
		})
	default:
		return nil, fmt.Errorf("unknown category %q", req.Category)
	}
}

// normalize fills in fields the ledger response may omit so downstream
// consumers always see a complete record.
func (s *service) normalize(record *models.TransactionRecord, req *models.TransferRequest) {
	if record.Status == "" {
		record.Status = models.StatusCompleted
	}
	if record.Category == "" {
		record.Category = req.Category
	}
	if record.Direction == "" {
		record.Direction = models.DirectionDebit
	}
	if record.Counterparty == "" {
		record.Counterparty = req.RecipientIdentifier
	}
	if record.Amount.IsZero() {
		record.Amount = req.Amount
	}
	if record.Fee.IsZero() {
		record.Fee = req.Fee
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
}
