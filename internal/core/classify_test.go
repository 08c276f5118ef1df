package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func expense(id, amount string) Record {
	return Record{
		ID:          id,
		Kind:        KindExpense,
		Vendor:      "ACME",
		RawAmount:   amount,
		Amount:      ParseAmount(amount),
		EvidenceURI: "https://bucket/" + id + ".pdf",
		ProcessedDate: "2024-05-10",
	}
}

func TestClassifySplitsKinds(t *testing.T) {
	records := []Record{
		expense("e1", "$10.00"),
		{ID: "b1", Kind: KindBudget, Amount: decimal.NewFromInt(1500)},
		expense("e2", "$20.00"),
	}
	c := Classify(records)
	if len(c.Budgets) != 1 || c.Budgets[0].ID != "b1" {
		t.Fatalf("budgets = %+v", c.Budgets)
	}
	if len(c.Expenses) != 2 {
		t.Fatalf("expenses = %+v", c.Expenses)
	}
}

func TestValidForHistory(t *testing.T) {
	base := expense("x", "$42.00")

	cases := []struct {
		name   string
		mutate func(*Record)
		want   bool
	}{
		{"valid", func(r *Record) {}, true},
		{"budget marker", func(r *Record) { r.Kind = KindBudget }, false},
		{"zero amount", func(r *Record) { r.Amount = decimal.Zero }, false},
		{"negative amount", func(r *Record) { r.Amount = decimal.NewFromInt(-5) }, false},
		{"missing evidence", func(r *Record) { r.EvidenceURI = "" }, false},
		{"placeholder evidence", func(r *Record) { r.EvidenceURI = EvidenceMissing }, false},
		{"unknown vendor with dates", func(r *Record) { r.Vendor = VendorUnknown }, true},
		{"unknown vendor, no dates", func(r *Record) {
			r.Vendor = VendorUnknown
			r.ProcessedDate = ""
			r.UploadDate = ""
		}, false},
		{"no vendor, upload date only", func(r *Record) {
			r.Vendor = ""
			r.ProcessedDate = ""
			r.UploadDate = "2024-05-11T09:00:00Z"
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			tc.mutate(&r)
			if got := ValidForHistory(r); got != tc.want {
				t.Errorf("ValidForHistory = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCleanHistoryAmountsPositive(t *testing.T) {
	records := []Record{
		expense("ok", "$12.30"),
		expense("neg", "-$12.30"),
		expense("zero", "N/A"),
	}
	clean := CleanHistory(records)
	if len(clean) != 1 || clean[0].ID != "ok" {
		t.Fatalf("clean = %+v", clean)
	}
	for _, r := range clean {
		if !r.Amount.IsPositive() {
			t.Errorf("history record %s has non-positive amount %s", r.ID, r.Amount)
		}
		if r.EvidenceURI == "" || r.EvidenceURI == EvidenceMissing {
			t.Errorf("history record %s missing evidence", r.ID)
		}
	}
}

func TestRiskEligible(t *testing.T) {
	flagged := expense("r1", "$30.00")
	flagged.RiskFlag = "duplicate"

	resolved := map[string]struct{}{}
	if !RiskEligible(flagged, resolved) {
		t.Fatal("flagged record should be eligible")
	}

	terminal := flagged
	terminal.RiskFlag = RiskResolved
	if RiskEligible(terminal, resolved) {
		t.Error("terminally resolved record is not eligible")
	}

	clean := flagged
	clean.RiskFlag = ""
	if RiskEligible(clean, resolved) {
		t.Error("unflagged record is not eligible")
	}

	resolved[flagged.ID] = struct{}{}
	if RiskEligible(flagged, resolved) {
		t.Error("session-resolved record is not eligible")
	}

	marker := Record{ID: "b", Kind: KindBudget, RiskFlag: "weird"}
	if RiskEligible(marker, map[string]struct{}{}) {
		t.Error("budget markers never enter the queue")
	}
}
