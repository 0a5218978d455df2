// Package balance owns the wallet balance. Every mutation goes through
// the Reconciler: optimistic holds, confirmations, rollbacks and
// authoritative refreshes. Nothing else in the process writes balance
// state, which is what keeps two surfaces from holding the same money
// twice.
package balance

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

// DefaultHistoryBound caps the in-memory most-recent-first history.
const DefaultHistoryBound = 50

// Hold represents one optimistic debit. It settles exactly once, via
// Confirm or Rollback.
type Hold struct {
	amount  decimal.Decimal
	fee     decimal.Decimal
	settled bool
}

// Total is the full held amount.
func (h *Hold) Total() decimal.Decimal { return h.amount.Add(h.fee) }

// Reconciler reconciles one account's local wallet view against ledger
// outcomes.
type Reconciler struct {
	accountID string
	store     HistoryStore
	prof      ProfileFetcher
	logger    *zap.Logger
	bound     int

	mu          sync.Mutex
	bal         models.WalletBalance
	history     []models.TransactionRecord
	subscribers []chan models.WalletBalance
}

// NewReconciler creates a reconciler for one account, seeded with the
// given available balance. historyBound <= 0 falls back to
// DefaultHistoryBound.
func NewReconciler(accountID string, store HistoryStore, prof ProfileFetcher, available decimal.Decimal, historyBound int, logger *zap.Logger) *Reconciler {
	if accountID == "" {
		panic("account id is required")
	}
	if store == nil {
		panic("history store is required")
	}
	if prof == nil {
		panic("profile fetcher is required")
	}
	if historyBound <= 0 {
		historyBound = DefaultHistoryBound
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reconciler{
		accountID: accountID,
		store:     store,
		prof:      prof,
		logger:    logger,
		bound:     historyBound,
		bal: models.WalletBalance{
			Available: available,
			Pending:   decimal.Zero,
		},
	}
}

// Balance returns a snapshot of the current wallet view.
func (r *Reconciler) Balance() models.WalletBalance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bal
}

// ApplyOptimistic places a hold for amount+fee. Available is untouched
// until confirmation; pending reflects the in-flight debit so other
// surfaces can render "spendable now".
func (r *Reconciler) ApplyOptimistic(amount, fee decimal.Decimal) (*Hold, error) {
	if amount.Sign() <= 0 || fee.Sign() < 0 {
		return nil, ErrInvalidAmount
	}

	hold := &Hold{amount: amount, fee: fee}

	r.mu.Lock()
	r.bal.Pending = r.bal.Pending.Add(hold.Total())
	snapshot := r.bal
	r.mu.Unlock()

	r.notify(snapshot)
	return hold, nil
}

// Confirm settles a hold against a server-confirmed record: the debit
// becomes real, the hold is released, and the record enters history.
func (r *Reconciler) Confirm(ctx context.Context, hold *Hold, record *models.TransactionRecord) error {
	if hold == nil || record == nil {
		return ErrInvalidHold
	}

	r.mu.Lock()
	if hold.settled {
		r.mu.Unlock()
		return ErrHoldSettled
	}
	hold.settled = true

	total := hold.Total()
	r.bal.Available = r.bal.Available.Sub(total)
	r.bal.Pending = r.bal.Pending.Sub(total)
	record.AccountID = r.accountID
	r.prepend(*record)
	snapshot := r.bal
	r.mu.Unlock()

	if err := r.store.Save(ctx, record); err != nil {
		// The in-memory view is already consistent; persistence is
		// best-effort and retried by the next history read.
		r.logger.Warn("failed to persist transaction record",
			zap.String("reference", record.Reference), zap.Error(err))
	}

	r.notify(snapshot)
	return nil
}

// Rollback releases a hold after a failed submission. Available is
// untouched. A second settle of the same hold is rejected.
func (r *Reconciler) Rollback(hold *Hold) error {
	if hold == nil {
		return ErrInvalidHold
	}

	r.mu.Lock()
	if hold.settled {
		r.mu.Unlock()
		return ErrHoldSettled
	}
	hold.settled = true
	r.bal.Pending = r.bal.Pending.Sub(hold.Total())
	snapshot := r.bal
	r.mu.Unlock()

	r.notify(snapshot)
	return nil
}

// Refresh replaces Available with the ledger's authoritative figure.
// Pending is preserved: holds for in-flight requests stay held.
func (r *Reconciler) Refresh(ctx context.Context, bearer string) error {
	profile, err := r.prof.GetProfile(ctx, bearer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.bal.Available = profile.Balance
	snapshot := r.bal
	r.mu.Unlock()

	r.notify(snapshot)
	return nil
}

// History returns up to limit records, most recent first, falling back
// to the persistent store when the in-memory window is short.
func (r *Reconciler) History(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	if limit <= 0 {
		limit = r.bound
	}

	r.mu.Lock()
	if len(r.history) >= limit {
		out := make([]models.TransactionRecord, limit)
		copy(out, r.history[:limit])
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()

	return r.store.Recent(ctx, r.accountID, limit)
}

// Subscribe returns a channel receiving balance snapshots after every
// mutation. Slow consumers miss intermediate snapshots rather than
// blocking settlement.
func (r *Reconciler) Subscribe() <-chan models.WalletBalance {
	ch := make(chan models.WalletBalance, 1)
	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()
	return ch
}

func (r *Reconciler) notify(snapshot models.WalletBalance) {
	r.mu.Lock()
	subs := make([]chan models.WalletBalance, len(r.subscribers))
	copy(subs, r.subscribers)
	r.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snapshot:
		default:
			// drop stale snapshot, replace with the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// prepend inserts most-recent-first and trims to the bound. Caller
// holds the lock.
func (r *Reconciler) prepend(record models.TransactionRecord) {
	r.history = append([]models.TransactionRecord{record}, r.history...)
	if len(r.history) > r.bound {
		r.history = r.history[:r.bound]
	}
}
