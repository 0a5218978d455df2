package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// HistoryRepository persists the local view of settled transactions.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a history repository.
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	if db == nil {
		panic("db is required")
	}
	return &HistoryRepository{db: db}
}

// Save upserts a record by its ledger reference, so an idempotent
// replay of the same submission cannot create a duplicate row.
func (r *HistoryRepository) Save(ctx context.Context, record *models.TransactionRecord) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			UpdateAll: true,
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("save transaction record: %w", err)
	}
	return nil
}

// Recent returns up to limit records for the account, most recent first.
func (r *HistoryRepository) Recent(ctx context.Context, accountID string, limit int) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load transaction history: %w", err)
	}
	return records, nil
}
