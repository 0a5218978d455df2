package balance

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Registry hands out the single Reconciler per account. Concurrent UI
// surfaces for the same user always see the same instance, so the same
// money can never be held twice through two independent views.
type Registry struct {
	store  HistoryStore
	prof   ProfileFetcher
	bound  int
	logger *zap.Logger

	mu        sync.Mutex
	byAccount map[string]*Reconciler
}

// NewRegistry creates the reconciler registry.
func NewRegistry(store HistoryStore, prof ProfileFetcher, historyBound int, logger *zap.Logger) *Registry {
	if store == nil {
		panic("history store is required")
	}
	if prof == nil {
		panic("profile fetcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		store:     store,
		prof:      prof,
		bound:     historyBound,
		logger:    logger,
		byAccount: make(map[string]*Reconciler),
	}
}

// Obtain returns the account's reconciler, creating and seeding it from
// the ledger profile on first use.
func (g *Registry) Obtain(ctx context.Context, bearer, accountID string) (*Reconciler, error) {
	g.mu.Lock()
	if rec, ok := g.byAccount[accountID]; ok {
		g.mu.Unlock()
		return rec, nil
	}
	g.mu.Unlock()

	// Seed outside the lock; the profile call can block.
	profile, err := g.prof.GetProfile(ctx, bearer)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if rec, ok := g.byAccount[accountID]; ok {
		// lost the race, keep the first instance
		return rec, nil
	}

	rec := NewReconciler(accountID, g.store, g.prof, profile.Balance, g.bound, g.logger)
	g.byAccount[accountID] = rec
	return rec, nil
}

// Peek returns the reconciler if one already exists.
func (g *Registry) Peek(accountID string) (*Reconciler, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.byAccount[accountID]
	return rec, ok
}
