package core

import "github.com/shopspring/decimal"

// Audit queue: risk-flagged, unresolved expenses awaiting reviewer
// action, overlaid with the session-local resolved set.

// AuditEntry is one queue row.
type AuditEntry struct {
	Record Record
	// Reason is the upstream classifier's explanation, with a generic
	// fallback when the record carries only a bare flag.
	Reason string
}

// BuildAuditQueue materializes the risk-eligible records within the
// period-filtered set, in input order. resolved is the session-local
// overlay; records resolved this session disappear immediately, before
// any external acknowledgement lands.
func BuildAuditQueue(filtered []Record, resolved map[string]struct{}) []AuditEntry {
	var out []AuditEntry
	for _, r := range filtered {
		if !RiskEligible(r, resolved) {
			continue
		}
		reason := r.AISummary
		if reason == "" {
			reason = "Suspicious Pattern"
		}
		out = append(out, AuditEntry{Record: r, Reason: reason})
	}
	return out
}

// QueueValue sums the absolute amounts across the queue.
func QueueValue(queue []AuditEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range queue {
		total = total.Add(e.Record.Amount.Abs())
	}
	return total
}
