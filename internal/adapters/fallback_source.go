// Package adapters glues record sources together so the HTTP layer
// can depend on a single records.Source.
package adapters

import (
	"context"
	"log/slog"

	"ricevute/internal/core"
	"ricevute/internal/records"
	"ricevute/internal/storage"
)

// FallbackSource reads from the upstream gateway and falls back to the
// local SQLite snapshot when the gateway is unreachable. Successful
// upstream reads refresh the snapshot so the fallback stays current.
type FallbackSource struct {
	upstream records.Source
	snapshot *storage.SQLiteRepository
}

func NewFallbackSource(upstream records.Source, snapshot *storage.SQLiteRepository) *FallbackSource {
	return &FallbackSource{upstream: upstream, snapshot: snapshot}
}

// ListRecords implements records.Source.
func (s *FallbackSource) ListRecords(ctx context.Context) ([]core.Record, error) {
	recs, err := s.upstream.ListRecords(ctx)
	if err == nil {
		if snapErr := s.snapshot.ReplaceRecords(ctx, recs); snapErr != nil {
			slog.WarnContext(ctx, "Snapshot refresh failed", "error", snapErr)
		}
		return recs, nil
	}

	slog.WarnContext(ctx, "Upstream unavailable, serving snapshot", "error", err)
	recs, snapErr := s.snapshot.ListRecords(ctx)
	if snapErr != nil {
		// Neither side worked; the upstream error is the root cause.
		return nil, err
	}
	return recs, nil
}

// GetRecord looks a record up in the snapshot.
func (s *FallbackSource) GetRecord(ctx context.Context, invoiceID string) (core.Record, error) {
	return s.snapshot.GetRecord(ctx, invoiceID)
}
