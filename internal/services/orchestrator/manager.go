package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
	"github.com/creastech-limited/XMWHS-sub001/internal/services/balance"
)

// sessionTTL is how long a terminal session stays queryable before the
// janitor drops it.
const sessionTTL = 30 * time.Minute

// Manager owns the live orchestration sessions, keyed by session ID and
// scoped to the account that created them.
type Manager struct {
	deps       Deps
	balances   *balance.Registry
	transfer   Strategy
	withdrawal Strategy

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	session   *Session
	accountID string
	createdAt time.Time
}

// NewManager creates a session manager with the two category strategies.
func NewManager(transfer, withdrawal Strategy, balances *balance.Registry, deps Deps) *Manager {
	if transfer == nil || withdrawal == nil {
		panic("both strategies are required")
	}
	if balances == nil {
		panic("balance registry is required")
	}

	return &Manager{
		deps:       deps,
		balances:   balances,
		transfer:   transfer,
		withdrawal: withdrawal,
		sessions:   make(map[string]*entry),
	}
}

// Create starts a draft session for the account, binding it to the
// account's single reconciler.
func (m *Manager) Create(ctx context.Context, bearer, accountID string, category models.Category, pinSet bool) (*Session, error) {
	var strategy Strategy
	switch category {
	case models.CategoryTransfer:
		strategy = m.transfer
	case models.CategoryWithdrawal:
		strategy = m.withdrawal
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}

	reconciler, err := m.balances.Obtain(ctx, bearer, accountID)
	if err != nil {
		return nil, err
	}

	deps := m.deps
	deps.Reconciler = reconciler
	sess := NewSession(accountID, strategy, pinSet, deps)

	m.mu.Lock()
	m.sessions[sess.ID()] = &entry{
		session:   sess,
		accountID: accountID,
		createdAt: time.Now(),
	}
	m.mu.Unlock()

	return sess, nil
}

// Get returns the session if it exists and belongs to the account.
func (m *Manager) Get(accountID, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[sessionID]
	if !ok || e.accountID != accountID {
		return nil, ErrSessionNotFound
	}
	return e.session, nil
}

// Remove drops a session from the registry.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Sweep removes terminal sessions older than the TTL. Call it
// periodically from the server loop.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-sessionTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if e.session.State().Terminal() && e.createdAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
