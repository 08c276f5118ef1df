// Package memory is the in-process record backend used for local
// development and tests. Records come from an optional seed file and
// mutations are applied directly to the in-memory set.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"ricevute/internal/core"
	"ricevute/internal/records"
)

type Store struct {
	mu    sync.Mutex
	items []core.Record
}

func New(recs []core.Record) *Store {
	return &Store{items: append([]core.Record(nil), recs...)}
}

// NewFromFiles loads seed records from seed_records.json under base.
// A missing or unreadable seed file yields an empty store rather than
// an error so a bare checkout still starts.
func NewFromFiles(base string) *Store {
	data, err := os.ReadFile(filepath.Join(base, "seed_records.json"))
	if err != nil {
		return New(nil)
	}
	recs, err := records.DecodeRecords(data)
	if err != nil {
		return New(nil)
	}
	return New(recs)
}

// ListRecords returns a copy of the current record set.
func (s *Store) ListRecords(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...), nil
}

// UpdateBudget appends a budget marker for the user. Markers are
// last-wins, so appending is the whole mutation.
func (s *Store) UpdateBudget(_ context.Context, userID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, core.Record{
		ID:        fmt.Sprintf("budget-%d", len(s.items)+1),
		OwnerID:   userID,
		Kind:      core.KindBudget,
		RawAmount: amount.String(),
		Amount:    amount,
	})
	return nil
}

// ResolveRisk flips the record's risk flag to the terminal state.
func (s *Store) ResolveRisk(_ context.Context, invoiceID string) error {
	return s.update(invoiceID, func(r *core.Record) {
		r.RiskFlag = core.RiskResolved
	})
}

// RecordPayment marks the record as paid.
func (s *Store) RecordPayment(_ context.Context, invoiceID string) error {
	return s.update(invoiceID, func(r *core.Record) {
		r.Status = core.StatusPaid
	})
}

func (s *Store) update(invoiceID string, fn func(*core.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == invoiceID {
			fn(&s.items[i])
			return nil
		}
	}
	return fmt.Errorf("record %q not found", invoiceID)
}
