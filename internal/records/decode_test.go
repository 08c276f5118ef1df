package records

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"ricevute/internal/core"
)

const sampleArray = `[
	{"InvoiceId":"inv-1","UserId":"u1","UserName":"Jane Doe","UserEmail":"jane@example.com",
	 "Type":"Expense","Vendor":"ACME","Category":"Groceries","DetectedTotal":"$1,234.50",
	 "DateProcessed":"2024-05-10","UploadDate":"2024-05-09","PdfUrl":"https://bucket/inv-1.pdf",
	 "RiskFlag":"Suspicious Pattern","AiSummary":"Duplicate vendor","Status":"UNPAID"},
	{"InvoiceId":"inv-2","UserId":"u1","Type":"Budget","DetectedTotal":1500},
	{"InvoiceId":"inv-3","UserId":"u2","Type":"Expense","Vendor":"Globex","DetectedTotal":null}
]`

func TestDecodeRecordsBareArray(t *testing.T) {
	recs, err := DecodeRecords([]byte(sampleArray))
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	r := recs[0]
	if r.ID != "inv-1" || r.OwnerID != "u1" || r.OwnerName != "Jane Doe" {
		t.Errorf("identity fields wrong: %+v", r)
	}
	if r.Kind != core.KindExpense {
		t.Errorf("expected expense kind, got %q", r.Kind)
	}
	if r.RawAmount != "$1,234.50" {
		t.Errorf("raw amount = %q", r.RawAmount)
	}
	if !r.Amount.Equal(mustDecimal(t, "1234.50")) {
		t.Errorf("amount = %s", r.Amount)
	}
	if r.EvidenceURI != "https://bucket/inv-1.pdf" {
		t.Errorf("evidence = %q", r.EvidenceURI)
	}

	if !recs[1].IsBudget() {
		t.Error("inv-2 should decode as a budget marker")
	}
	if !recs[1].Amount.Equal(mustDecimal(t, "1500")) {
		t.Errorf("numeric amount = %s", recs[1].Amount)
	}

	if recs[2].RawAmount != "" || !recs[2].Amount.IsZero() {
		t.Errorf("null amount should canonicalize to zero, got %q / %s", recs[2].RawAmount, recs[2].Amount)
	}
}

func TestDecodeRecordsBodyEnvelope(t *testing.T) {
	env, err := json.Marshal(map[string]string{"body": sampleArray})
	if err != nil {
		t.Fatal(err)
	}

	recs, err := DecodeRecords(env)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(recs) != 3 || recs[0].ID != "inv-1" {
		t.Fatalf("envelope payload not unwrapped: %+v", recs)
	}
}

func TestDecodeRecordsErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"object without body", `{"items":[]}`},
		{"body not json", `{"body":"not json"}`},
		{"not an array", `42`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeRecords([]byte(tc.payload)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}
