package balance

import (
	"context"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// HistoryStore persists confirmed transaction records.
type HistoryStore interface {
	Save(ctx context.Context, record *models.TransactionRecord) error
	Recent(ctx context.Context, accountID string, limit int) ([]models.TransactionRecord, error)
}

// ProfileFetcher reads the authoritative balance from the ledger.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, bearer string) (*models.UserProfile, error)
}
