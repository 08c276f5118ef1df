// Package core implements the reconciliation engine: record
// classification, identity resolution, period bucketing, aggregation
// and the audit queue. Everything in this package is pure: views are
// recomputed from the record set, records are never mutated in place.
package core

import (
	"github.com/shopspring/decimal"
)

type RecordKind string

const (
	KindExpense RecordKind = "Expense"
	KindBudget  RecordKind = "Budget"
)

const (
	// StatusPaid marks a bill-category record as settled.
	StatusPaid = "PAID"

	// RiskResolved is the terminal sentinel for a record's risk flag.
	RiskResolved = "RESOLVED"

	// EvidenceMissing is a literal placeholder some upstream records
	// carry instead of an empty evidence link.
	EvidenceMissing = "undefined"

	// VendorUnknown is the placeholder the scanner emits when it could
	// not read a vendor off the document.
	VendorUnknown = "Unknown Vendor"
)

// Record is one normalized row from the upstream processing pipeline.
// Records are immutable inputs; optional fields use "" for absent and
// are validated at the decode boundary, not re-checked here.
type Record struct {
	ID         string
	OwnerID    string
	OwnerName  string
	OwnerEmail string

	Kind     RecordKind
	Vendor   string
	Category string

	// RawAmount is the currency-formatted string as scanned
	// ("$1,234.50"). Amount is its canonical decimal; unparsable
	// amounts canonicalize to zero.
	RawAmount string
	Amount    decimal.Decimal

	// ProcessedDate is preferred, UploadDate is the fallback. Both are
	// date strings as delivered upstream (YYYY-MM-DD... prefix).
	ProcessedDate string
	UploadDate    string

	EvidenceURI string
	RiskFlag    string
	AISummary   string
	Status      string
}

// IsBudget reports whether the record is an out-of-band budget marker
// rather than a real transaction.
func (r Record) IsBudget() bool {
	return r.Kind == KindBudget
}

// EffectiveDate returns the processed date, falling back to the upload
// date when processing never stamped one.
func (r Record) EffectiveDate() string {
	if r.ProcessedDate != "" {
		return r.ProcessedDate
	}
	return r.UploadDate
}

// Identity is the canonical owner used for grouping.
type Identity struct {
	ID          string
	DisplayName string
}

// SessionHint carries the current session's identity signals, as
// provided by the (out-of-scope) auth layer. Any field may be empty.
type SessionHint struct {
	UserID   string
	UserName string
	Email    string
}

// DisplayName resolves the session's own display name: name, else
// email, else the "Employee" fallback.
func (h SessionHint) DisplayName() string {
	if h.UserName != "" {
		return h.UserName
	}
	if h.Email != "" {
		return h.Email
	}
	return "Employee"
}

// CanonicalID resolves the session's id: subject id, else email.
func (h SessionHint) CanonicalID() string {
	if h.UserID != "" {
		return h.UserID
	}
	return h.Email
}
