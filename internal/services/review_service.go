package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"ricevute/internal/amqp"
	"ricevute/internal/records"
	"ricevute/internal/session"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishMutationEvent(ctx context.Context, msg *amqp.MutationEvent) error
}

// ReviewService orchestrates user actions across the session overlay,
// the upstream mutation sink and the event exchange. The overlay is
// written first so the next view recompute already reflects the
// action; it is never rolled back on sink failure, the caller just
// sees the error.
type ReviewService struct {
	sink      records.MutationSink
	publisher EventPublisher
}

func NewReviewService(sink records.MutationSink, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		sink:      sink,
		publisher: publisher,
	}
}

// ResolveRisk acknowledges a flagged record for this session and
// forwards the resolution upstream.
func (s *ReviewService) ResolveRisk(ctx context.Context, sess *session.Store, invoiceID string) error {
	if invoiceID == "" {
		return fmt.Errorf("resolve risk: empty invoice id")
	}

	sess.MarkResolved(invoiceID)

	if err := s.sink.ResolveRisk(ctx, invoiceID); err != nil {
		return fmt.Errorf("resolve risk: %w", err)
	}

	s.publishEvent(ctx, amqp.NewRiskResolveEvent(sess.ID(), invoiceID))
	return nil
}

// SetBudget records a new ceiling for an identity and forwards it
// upstream.
func (s *ReviewService) SetBudget(ctx context.Context, sess *session.Store, userID string, amount decimal.Decimal) error {
	if userID == "" {
		return fmt.Errorf("set budget: empty user id")
	}
	if amount.IsNegative() {
		return fmt.Errorf("set budget: negative ceiling %s", amount)
	}

	sess.SetBudgetOverride(userID, amount)

	if err := s.sink.UpdateBudget(ctx, userID, amount); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	s.publishEvent(ctx, amqp.NewBudgetUpdateEvent(sess.ID(), userID, amount.String()))
	return nil
}

// RecordPayment marks a bill as paid upstream. There is no overlay
// for payments; the next record fetch carries the new status.
func (s *ReviewService) RecordPayment(ctx context.Context, sess *session.Store, invoiceID string) error {
	if invoiceID == "" {
		return fmt.Errorf("record payment: empty invoice id")
	}

	if err := s.sink.RecordPayment(ctx, invoiceID); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	s.publishEvent(ctx, amqp.NewPaymentEvent(sess.ID(), invoiceID))
	return nil
}

// publishEvent is best-effort. A dead broker must not fail the user
// action, the mutation already happened.
func (s *ReviewService) publishEvent(ctx context.Context, msg *amqp.MutationEvent) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping event", "action", msg.Action)
		return
	}
	if err := s.publisher.PublishMutationEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish mutation event",
			"action", msg.Action, "error", err)
	}
}
