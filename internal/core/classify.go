package core

// Record classification: budget markers vs expenses, and valid history
// rows vs upstream noise. Noise is excluded silently: corrupted scans
// are expected input, not caller errors.

// Classification partitions a resolved record set.
type Classification struct {
	// Budgets holds the budget markers in input order.
	Budgets []Record
	// Expenses holds every non-budget record, valid or not.
	Expenses []Record
}

// Classify splits records by kind. Validity is a separate question;
// the aggregator and history view apply ValidForHistory on top.
func Classify(records []Record) Classification {
	var c Classification
	for _, r := range records {
		if r.IsBudget() {
			c.Budgets = append(c.Budgets, r)
		} else {
			c.Expenses = append(c.Expenses, r)
		}
	}
	return c
}

// ValidForHistory reports whether an expense record belongs in the
// cleaned history view. Budget markers never do. An expense qualifies
// when its amount parsed positive, its evidence link is usable, and it
// is not a complete ghost (placeholder vendor with no date at all).
// Zero and negative amounts are treated as failed scans and dropped.
func ValidForHistory(r Record) bool {
	if r.IsBudget() {
		return false
	}
	if !r.Amount.IsPositive() {
		return false
	}
	if r.EvidenceURI == "" || r.EvidenceURI == EvidenceMissing {
		return false
	}
	vendorMissing := r.Vendor == "" || r.Vendor == VendorUnknown
	if vendorMissing && r.ProcessedDate == "" && r.UploadDate == "" {
		return false
	}
	return true
}

// CleanHistory filters to the valid expense records, preserving input
// order.
func CleanHistory(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if ValidForHistory(r) {
			out = append(out, r)
		}
	}
	return out
}

// RiskEligible reports whether an expense record belongs in the audit
// queue: flagged, not terminally resolved upstream, and not locally
// resolved this session.
func RiskEligible(r Record, resolved map[string]struct{}) bool {
	if r.IsBudget() {
		return false
	}
	if r.RiskFlag == "" || r.RiskFlag == RiskResolved {
		return false
	}
	if _, ok := resolved[r.ID]; ok {
		return false
	}
	return true
}
