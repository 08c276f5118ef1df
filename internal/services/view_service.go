package services

import (
	"context"
	"fmt"

	"ricevute/internal/core"
	"ricevute/internal/records"
	"ricevute/internal/session"
)

// ViewService recomputes read views from the record set on every
// request. Nothing is cached here; the HTTP layer owns caching so the
// session overlay always applies to fresh state.
type ViewService struct {
	source   records.Source
	resolver core.Resolver
}

func NewViewService(source records.Source, resolver core.Resolver) *ViewService {
	return &ViewService{source: source, resolver: resolver}
}

// Snapshot is one fully computed view state for a session and period.
type Snapshot struct {
	Identity   core.Identity
	Periods    []core.PeriodKey
	Period     core.PeriodKey
	History    []core.Record
	Aggregates []core.Aggregate
	Total      string
	Categories []core.CategoryTotal
	AuditQueue []core.AuditEntry
	QueueValue string
	Owed       []core.Record
	Spent      []core.Record
}

// Compute builds the whole view state for one request.
func (s *ViewService) Compute(ctx context.Context, sess *session.Store, hint core.SessionHint, period core.PeriodKey, sort core.SortState) (*Snapshot, error) {
	raw, err := s.source.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	identity, recs := s.resolver.Resolve(raw, hint)

	periods := core.DerivePeriods(recs)
	if period == "" {
		period = core.AllTime
	}
	filtered := core.FilterByPeriod(recs, period)

	history := core.SortHistory(core.CleanHistory(filtered), sort)

	ceilings := core.BudgetCeilings(recs)
	for id, amount := range sess.BudgetOverrides() {
		ceilings[id] = amount
	}
	aggregates := core.ComputeAggregates(filtered, ceilings)
	total := core.TotalSpend(aggregates).String()

	queue := core.BuildAuditQueue(filtered, sess.ResolvedSet())
	owed, spent := core.SplitOwed(history)

	return &Snapshot{
		Identity:   identity,
		Periods:    periods,
		Period:     period,
		History:    history,
		Aggregates: aggregates,
		Total:      total,
		Categories: core.CategoryTotals(history),
		AuditQueue: queue,
		QueueValue: core.QueueValue(queue).String(),
		Owed:       owed,
		Spent:      spent,
	}, nil
}

// GetRecord returns one record by id with identity rewriting applied,
// so detail views agree with list views.
func (s *ViewService) GetRecord(ctx context.Context, hint core.SessionHint, invoiceID string) (core.Record, error) {
	raw, err := s.source.ListRecords(ctx)
	if err != nil {
		return core.Record{}, fmt.Errorf("list records: %w", err)
	}
	_, recs := s.resolver.Resolve(raw, hint)
	for _, r := range recs {
		if r.ID == invoiceID {
			return r, nil
		}
	}
	return core.Record{}, fmt.Errorf("record %q not found", invoiceID)
}
