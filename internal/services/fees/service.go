// Package fees resolves the fee for a transaction category from the
// ledger's charge directory. The directory is fetched once per session
// and cached until the TTL expires or Invalidate forces a refresh.
package fees

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

const (
	scheduleCacheKey = "fees:schedule"

	// DefaultTTL is how long a fetched schedule stays fresh.
	DefaultTTL = 10 * time.Minute
)

// categoryKeywords drive the substring match against charge names, the
// same way the charge directory is keyed upstream.
var categoryKeywords = map[models.Category]string{
	models.CategoryTransfer:   "transfer",
	models.CategoryWithdrawal: "withdraw",
}

// Config holds the resolver policy knobs.
type Config struct {
	TTL time.Duration

	// FailOpen controls what happens when no active charge matches the
	// category: true resolves to a zero fee, false fails the lookup.
	// The zero-fee fallback mirrors upstream behavior but is deliberate
	// policy here, not an accident, hence the explicit switch.
	FailOpen bool
}

type service struct {
	charges ChargeLister
	cache   Cache
	config  Config
	logger  *zap.Logger
}

// NewService creates a fee resolver.
func NewService(charges ChargeLister, cache Cache, config Config, logger *zap.Logger) Service {
	if charges == nil {
		panic("charge lister is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if config.TTL == 0 {
		config.TTL = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		charges: charges,
		cache:   cache,
		config:  config,
		logger:  logger,
	}
}

func (s *service) Resolve(ctx context.Context, bearer string, category models.Category) (decimal.Decimal, error) {
	if !category.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown category %q", ErrLookupFailed, category)
	}

	schedule, err := s.schedule(ctx, bearer)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	fee, ok := schedule.Fees[category]
	if !ok || !fee.Active {
		if s.config.FailOpen {
			s.logger.Warn("no active charge for category, defaulting to zero fee",
				zap.String("category", string(category)))
			return decimal.Zero, nil
		}
		return decimal.Zero, ErrNoActiveCharge
	}

	return fee.Amount, nil
}

func (s *service) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, scheduleCacheKey)
}

// schedule returns the cached fee schedule, fetching and rebuilding it
// from the charge directory when absent or expired.
func (s *service) schedule(ctx context.Context, bearer string) (*models.FeeSchedule, error) {
	if raw, err := s.cache.Get(ctx, scheduleCacheKey); err == nil && raw != "" {
		var cached models.FeeSchedule
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && !cached.Expired(s.config.TTL) {
			return &cached, nil
		}
	}

	charges, err := s.charges.ListCharges(ctx, bearer)
	if err != nil {
		return nil, err
	}

	schedule := buildSchedule(charges)

	if data, err := json.Marshal(schedule); err == nil {
		if err := s.cache.Set(ctx, scheduleCacheKey, string(data), s.config.TTL); err != nil {
			s.logger.Warn("failed to cache fee schedule", zap.Error(err))
		}
	}

	return schedule, nil
}

// buildSchedule selects, per category, the first active charge whose
// name contains the category keyword (case-insensitive).
func buildSchedule(charges []models.Charge) *models.FeeSchedule {
	schedule := &models.FeeSchedule{
		Fees:      make(map[models.Category]models.Fee, len(categoryKeywords)),
		FetchedAt: time.Now(),
	}

	for category, keyword := range categoryKeywords {
		for _, charge := range charges {
			if !charge.Active {
				continue
			}
			if strings.Contains(strings.ToLower(charge.Name), keyword) {
				schedule.Fees[category] = models.Fee{Amount: charge.Amount, Active: true}
				break
			}
		}
	}

	return schedule
}
