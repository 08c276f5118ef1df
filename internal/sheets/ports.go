package sheets

import (
	"context"

	"ricevute/internal/amqp"
)

// Ports for outbound report adapters.
type (
	// AuditLogWriter appends one mutation event to the audit log.
	AuditLogWriter interface {
		AppendMutation(ctx context.Context, event *amqp.MutationEvent) (rowRef string, err error)
	}
)
