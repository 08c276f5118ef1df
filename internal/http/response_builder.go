package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ricevute/internal/core"
)

// Wire DTOs. Amounts travel as decimal strings; the chart carries
// floats because that is what plotting clients consume.

type recordDTO struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	OwnerName     string `json:"owner_name"`
	Vendor        string `json:"vendor,omitempty"`
	Category      string `json:"category,omitempty"`
	Amount        string `json:"amount"`
	RawAmount     string `json:"raw_amount,omitempty"`
	Date          string `json:"date,omitempty"`
	UploadDate    string `json:"upload_date,omitempty"`
	EvidenceURI   string `json:"evidence_uri,omitempty"`
	RiskFlag      string `json:"risk_flag,omitempty"`
	AISummary     string `json:"ai_summary,omitempty"`
	Status        string `json:"status,omitempty"`
	BillCategory  bool   `json:"bill_category"`
}

func toRecordDTO(r core.Record) recordDTO {
	return recordDTO{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		OwnerName:    r.OwnerName,
		Vendor:       r.Vendor,
		Category:     r.Category,
		Amount:       r.Amount.String(),
		RawAmount:    r.RawAmount,
		Date:         r.ProcessedDate,
		UploadDate:   r.UploadDate,
		EvidenceURI:  r.EvidenceURI,
		RiskFlag:     r.RiskFlag,
		AISummary:    r.AISummary,
		Status:       r.Status,
		BillCategory: core.IsBillCategory(r.Category),
	}
}

func toRecordDTOs(recs []core.Record) []recordDTO {
	out := make([]recordDTO, len(recs))
	for i, r := range recs {
		out[i] = toRecordDTO(r)
	}
	return out
}

type aggregateDTO struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Budget      string  `json:"budget"`
	Spent       string  `json:"spent"`
	TxCount     int     `json:"tx_count"`
	Utilization float64 `json:"utilization"`
	OverBudget  bool    `json:"over_budget"`
}

func toAggregateDTOs(aggs []core.Aggregate) []aggregateDTO {
	out := make([]aggregateDTO, len(aggs))
	for i, a := range aggs {
		out[i] = aggregateDTO{
			UserID:      a.IdentityID,
			DisplayName: a.DisplayName,
			Budget:      a.BudgetCeiling.String(),
			Spent:       a.TotalSpend.String(),
			TxCount:     a.TxCount,
			Utilization: a.Utilization(),
			OverBudget:  a.OverBudget(),
		}
	}
	return out
}

type categoryDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

func toCategoryDTOs(cats []core.CategoryTotal) []categoryDTO {
	out := make([]categoryDTO, len(cats))
	for i, c := range cats {
		out[i] = categoryDTO{
			Name:  c.Name,
			Value: c.Value.InexactFloat64(),
			Color: c.Color,
		}
	}
	return out
}

type auditEntryDTO struct {
	Record recordDTO `json:"record"`
	Reason string    `json:"reason"`
}

func toAuditDTOs(queue []core.AuditEntry) []auditEntryDTO {
	out := make([]auditEntryDTO, len(queue))
	for i, e := range queue {
		out[i] = auditEntryDTO{Record: toRecordDTO(e.Record), Reason: e.Reason}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
