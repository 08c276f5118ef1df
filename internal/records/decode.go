package records

import (
	"encoding/json"
	"fmt"
	"strings"

	"ricevute/internal/core"
)

// wireRecord matches the upstream pipeline's JSON field names. Amounts
// can arrive as strings or numbers depending on which Lambda wrote the
// row, so DetectedTotal stays raw until coercion.
type wireRecord struct {
	InvoiceID     string          `json:"InvoiceId"`
	UserID        string          `json:"UserId"`
	UserName      string          `json:"UserName"`
	UserEmail     string          `json:"UserEmail"`
	Type          string          `json:"Type"`
	Vendor        string          `json:"Vendor"`
	Category      string          `json:"Category"`
	DetectedTotal json.RawMessage `json:"DetectedTotal"`
	DateProcessed string          `json:"DateProcessed"`
	UploadDate    string          `json:"UploadDate"`
	PdfURL        string          `json:"PdfUrl"`
	RiskFlag      string          `json:"RiskFlag"`
	AISummary     string          `json:"AiSummary"`
	Status        string          `json:"Status"`
}

// envelope is the proxy wrapper some deployments put around the list:
// the real payload is a JSON array re-encoded as a string under body.
type envelope struct {
	Body string `json:"body"`
}

// DecodeRecords parses an upstream payload into normalized records. It
// accepts either a bare JSON array or the string-body envelope.
func DecodeRecords(data []byte) ([]core.Record, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		if env.Body == "" {
			return nil, fmt.Errorf("decode envelope: object payload without body field")
		}
		data = []byte(env.Body)
	}

	var wires []wireRecord
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	out := make([]core.Record, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toRecord())
	}
	return out, nil
}

func (w wireRecord) toRecord() core.Record {
	raw := rawAmount(w.DetectedTotal)
	kind := core.KindExpense
	if w.Type == string(core.KindBudget) {
		kind = core.KindBudget
	}
	return core.Record{
		ID:            w.InvoiceID,
		OwnerID:       w.UserID,
		OwnerName:     w.UserName,
		OwnerEmail:    w.UserEmail,
		Kind:          kind,
		Vendor:        w.Vendor,
		Category:      w.Category,
		RawAmount:     raw,
		Amount:        core.ParseAmount(raw),
		ProcessedDate: w.DateProcessed,
		UploadDate:    w.UploadDate,
		EvidenceURI:   w.PdfURL,
		RiskFlag:      w.RiskFlag,
		AISummary:     w.AISummary,
		Status:        w.Status,
	}
}

// rawAmount flattens the DetectedTotal value to its string form. JSON
// strings lose their quotes, numbers keep their literal text, anything
// else (null, absent, objects) becomes empty.
func rawAmount(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
