package recipient

import (
	"context"
	"time"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// AccountResolver performs the remote bank-account verification call.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, bearer, accountNumber, bankCode string) (string, error)
}

// Cache stores resolutions for the duration of one orchestration session.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service turns a human-entered identifier into a canonical recipient.
type Service interface {
	Resolve(ctx context.Context, bearer, identifier string, category models.Category) (*models.Recipient, error)
	Discard(ctx context.Context, identifier string) error
}
