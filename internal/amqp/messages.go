package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Mutation actions carried on the events exchange. The export worker
// uses the action to shape the audit-log row.
const (
	ActionBudgetUpdate = "budget_update"
	ActionRiskResolve  = "risk_resolve"
	ActionPayment      = "payment"
)

// MutationEvent records one user action for the audit-log export. The
// service publishes it after applying the action locally; the worker
// fetches nothing extra, the event is self-contained.
type MutationEvent struct {
	Action    string    `json:"action"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	InvoiceID string    `json:"invoice_id,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetUpdateEvent(sessionID, userID, amount string) *MutationEvent {
	return &MutationEvent{
		Action:    ActionBudgetUpdate,
		SessionID: sessionID,
		UserID:    userID,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}

func NewRiskResolveEvent(sessionID, invoiceID string) *MutationEvent {
	return &MutationEvent{
		Action:    ActionRiskResolve,
		SessionID: sessionID,
		InvoiceID: invoiceID,
		Timestamp: time.Now(),
	}
}

func NewPaymentEvent(sessionID, invoiceID string) *MutationEvent {
	return &MutationEvent{
		Action:    ActionPayment,
		SessionID: sessionID,
		InvoiceID: invoiceID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (m *MutationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationEventFromJSON parses an event and checks the action is one
// the workers know how to handle.
func MutationEventFromJSON(data []byte) (*MutationEvent, error) {
	var msg MutationEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Action {
	case ActionBudgetUpdate, ActionRiskResolve, ActionPayment:
	default:
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
	return &msg, nil
}
