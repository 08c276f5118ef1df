// Package records defines the inbound record source and outbound
// mutation ports, plus the wire decoding shared by every adapter.
package records

import (
	"context"

	"github.com/shopspring/decimal"

	"ricevute/internal/core"
)

// Ports for record adapters.
type (
	// Source lists the raw record set from wherever it lives. The
	// returned slice is owned by the caller.
	Source interface {
		ListRecords(ctx context.Context) ([]core.Record, error)
	}

	// MutationSink forwards user actions to the external system.
	// Implementations must not assume success was already applied
	// locally; callers handle the optimistic overlay themselves.
	MutationSink interface {
		UpdateBudget(ctx context.Context, userID string, amount decimal.Decimal) error
		ResolveRisk(ctx context.Context, invoiceID string) error
		RecordPayment(ctx context.Context, invoiceID string) error
	}

	// Snapshotter persists a full record set atomically, replacing
	// whatever was there before.
	Snapshotter interface {
		ReplaceRecords(ctx context.Context, recs []core.Record) error
	}
)
