package fees

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// ChargeLister fetches the charge directory from the ledger.
type ChargeLister interface {
	ListCharges(ctx context.Context, bearer string) ([]models.Charge, error)
}

// Cache is the session cache used for the fetched schedule.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service resolves the applicable fee for a transaction category.
type Service interface {
	Resolve(ctx context.Context, bearer string, category models.Category) (decimal.Decimal, error)
	Invalidate(ctx context.Context) error
}
