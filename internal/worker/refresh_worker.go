// Package worker holds the background processes: periodic snapshot
// refresh from the upstream record API and export of mutation events
// to the audit log.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ricevute/internal/records"
)

// RefreshWorker keeps the local SQLite snapshot in step with the
// upstream record set.
type RefreshWorker struct {
	source   records.Source
	snapshot records.Snapshotter
	interval time.Duration
}

func NewRefreshWorker(source records.Source, snapshot records.Snapshotter, interval time.Duration) *RefreshWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshWorker{
		source:   source,
		snapshot: snapshot,
		interval: interval,
	}
}

// RefreshOnce pulls the upstream record set and replaces the snapshot.
func (w *RefreshWorker) RefreshOnce(ctx context.Context) error {
	recs, err := w.source.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("list upstream records: %w", err)
	}

	if err := w.snapshot.ReplaceRecords(ctx, recs); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot refreshed", "record_count", len(recs))
	return nil
}

// Run refreshes immediately, then on every tick until the context is
// cancelled. Refresh failures are logged and retried on the next tick.
func (w *RefreshWorker) Run(ctx context.Context) error {
	if err := w.RefreshOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial snapshot refresh failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Snapshot refresh failed", "error", err)
			}
		}
	}
}
