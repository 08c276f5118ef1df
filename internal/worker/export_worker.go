package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ricevute/internal/amqp"
	"ricevute/internal/sheets"
)

// ExportWorker appends consumed mutation events to the audit log.
type ExportWorker struct {
	writer sheets.AuditLogWriter
}

func NewExportWorker(writer sheets.AuditLogWriter) *ExportWorker {
	return &ExportWorker{writer: writer}
}

// HandleMutationEvent writes a single event to the audit log. An error
// leaves the message unacked so the broker redelivers it.
func (w *ExportWorker) HandleMutationEvent(ctx context.Context, event *amqp.MutationEvent) error {
	slog.InfoContext(ctx, "Processing mutation event",
		"action", event.Action,
		"session_id", event.SessionID,
		"invoice_id", event.InvoiceID)

	ref, err := w.writer.AppendMutation(ctx, event)
	if err != nil {
		return fmt.Errorf("append mutation to audit log: %w", err)
	}

	slog.InfoContext(ctx, "Mutation event exported",
		"action", event.Action,
		"sheets_ref", ref)
	return nil
}
