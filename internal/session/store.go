// Package session holds the per-session overlay state: the locally
// resolved risk ids and any optimistic budget overrides. The overlay
// is created at session start and discarded with the session; there
// is no durability guarantee beyond the external mutation's own
// success.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is one session's overlay. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	id        string
	resolved  map[string]struct{}
	budgets   map[string]decimal.Decimal
	createdAt time.Time
	lastSeen  time.Time
}

func newStore(id string) *Store {
	now := time.Now()
	return &Store{
		id:        id,
		resolved:  make(map[string]struct{}),
		budgets:   make(map[string]decimal.Decimal),
		createdAt: now,
		lastSeen:  now,
	}
}

// ID returns the session identifier.
func (s *Store) ID() string { return s.id }

// MarkResolved records a risk resolution optimistically. It is applied
// before the external acknowledgement and never rolled back.
func (s *Store) MarkResolved(recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved[recordID] = struct{}{}
}

// ResolvedSet returns a snapshot of the resolved ids for a recompute.
func (s *Store) ResolvedSet() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.resolved))
	for id := range s.resolved {
		out[id] = struct{}{}
	}
	return out
}

// SetBudgetOverride records an optimistic budget ceiling for an
// identity, shadowing whatever the record set says until the session
// ends.
func (s *Store) SetBudgetOverride(identityID string, ceiling decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[identityID] = ceiling
}

// BudgetOverrides returns a snapshot of the optimistic ceilings.
func (s *Store) BudgetOverrides() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]decimal.Decimal, len(s.budgets))
	for id, d := range s.budgets {
		out[id] = d
	}
	return out
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Store) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager hands out session stores keyed by session id and reaps
// idle ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Store
	maxIdle  time.Duration
}

// NewManager creates a session manager. Sessions idle longer than
// maxIdle are dropped by Reap.
func NewManager(maxIdle time.Duration) *Manager {
	if maxIdle <= 0 {
		maxIdle = time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Store),
		maxIdle:  maxIdle,
	}
}

// Get returns the store for id, creating it on first use. An empty id
// gets a fresh anonymous session.
func (m *Manager) Get(id string) *Store {
	if id == "" {
		id = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = newStore(id)
		m.sessions[id] = s
	}
	s.touch()
	return s
}

// Reap discards sessions idle past the configured threshold and
// returns how many were dropped.
func (m *Manager) Reap() int {
	cutoff := time.Now().Add(-m.maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
