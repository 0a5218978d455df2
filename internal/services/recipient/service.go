// Package recipient resolves human-entered destinations into canonical
// recipient records. Email and store-code transfers are pre-resolved
// (the identifier is the routing key); bank withdrawals require a
// blocking remote verification before the flow may continue.
package recipient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// resolutionTTL bounds how long a bank resolution may be reused within
// a session before it must be re-verified.
const resolutionTTL = 15 * time.Minute

type service struct {
	resolver AccountResolver
	cache    Cache
	logger   *zap.Logger
}

// NewService creates a recipient resolver.
func NewService(resolver AccountResolver, cache Cache, logger *zap.Logger) Service {
	if resolver == nil {
		panic("account resolver is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{resolver: resolver, cache: cache, logger: logger}
}

func (s *service) Resolve(ctx context.Context, bearer, identifier string, category models.Category) (*models.Recipient, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrInvalidIdentifier
	}

	switch category {
	case models.CategoryTransfer:
		return resolveLocal(identifier), nil
	case models.CategoryWithdrawal:
		return s.resolveBankAccount(ctx, bearer, identifier)
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidIdentifier, category)
	}
}

func (s *service) Discard(ctx context.Context, identifier string) error {
	return s.cache.Delete(ctx, cacheKey(identifier))
}

// resolveLocal treats the identifier itself as the routing key. A
// resolution failure for these can only surface from the submission
// call, so no network round trip happens here.
func resolveLocal(identifier string) *models.Recipient {
	kind := models.RecipientStore
	if strings.Contains(identifier, "@") {
		kind = models.RecipientUser
	}

	return &models.Recipient{
		Identifier:  identifier,
		DisplayName: identifier,
		AccountRef:  identifier,
		Kind:        kind,
		ResolvedAt:  time.Now(),
	}
}

// resolveBankAccount verifies "accountNumber:bankCode" against the
// ledger. The verified holder name becomes the DisplayName shown to the
// user before confirmation.
func (s *service) resolveBankAccount(ctx context.Context, bearer, identifier string) (*models.Recipient, error) {
	accountNumber, bankCode, ok := strings.Cut(identifier, ":")
	if !ok || accountNumber == "" || bankCode == "" {
		return nil, fmt.Errorf("%w: want account_number:bank_code", ErrInvalidIdentifier)
	}

	key := cacheKey(identifier)
	if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
		var cached models.Recipient
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	name, err := s.resolver.ResolveAccount(ctx, bearer, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}

	rec := &models.Recipient{
		Identifier:  identifier,
		DisplayName: name,
		AccountRef:  accountNumber,
		Kind:        models.RecipientBankAccount,
		ResolvedAt:  time.Now(),
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := s.cache.Set(ctx, key, string(data), resolutionTTL); err != nil {
			s.logger.Warn("failed to cache account resolution", zap.Error(err))
		}
	}

	return rec, nil
}

func cacheKey(identifier string) string {
	return "recipient:resolution:" + identifier
}
