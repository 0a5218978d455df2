package orchestrator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/secret"
)

// Snapshot is the read-only view of a session handed to the transport
// layer. The secret never appears here.
type Snapshot struct {
	ID          string                    `json:"id"`
	State       State                     `json:"state"`
	Category    models.Category           `json:"category"`
	Amount      decimal.Decimal           `json:"amount"`
	Fee         decimal.Decimal           `json:"fee"`
	Note        string                    `json:"note,omitempty"`
	Recipient   *models.Recipient         `json:"recipient,omitempty"`
	SecretMode  secret.Mode               `json:"secret_mode,omitempty"`
	Record      *models.TransactionRecord `json:"record,omitempty"`
	Error       string                    `json:"error,omitempty"`
	Retryable   bool                      `json:"retryable"`
	PINRequired bool                      `json:"pin_required"`
}

// Snapshot captures the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		State:       s.state,
		Category:    s.strategy.Category(),
		Amount:      s.amt,
		Fee:         s.fee,
		Note:        s.note,
		Recipient:   s.rec,
		Record:      s.record,
		Retryable:   s.retryable,
		PINRequired: !s.pinSet,
	}
	if s.gate != nil {
		snap.SecretMode = s.gate.Mode()
	}
	if s.failure != nil {
		snap.Error = Message(s.failure)
	}
	return snap
}

// cutIdentifier splits a withdrawal identifier into account number and
// bank code.
func cutIdentifier(identifier string) (accountNumber, bankCode string, ok bool) {
	return strings.Cut(identifier, ":")
}
