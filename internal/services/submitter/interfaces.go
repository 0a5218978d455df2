package submitter

import (
	"context"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// Ledger is the slice of the gateway the submitter drives.
type Ledger interface {
	Transfer(ctx context.Context, bearer, idempotencyKey string, req gateway.TransferRequest) (*models.TransactionRecord, error)
	Withdraw(ctx context.Context, bearer, idempotencyKey string, req gateway.WithdrawRequest) (*models.TransactionRecord, error)
}

// Service performs the idempotent, single-flight network submission.
type Service interface {
	Submit(ctx context.Context, bearer string, req *models.TransferRequest) (*models.TransactionRecord, error)
}
