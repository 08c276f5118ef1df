package http

import (
	"log/slog"
	"net/http"

	"ricevute/internal/core"
	"ricevute/internal/services"
	"ricevute/internal/session"
)

// computeSnapshot resolves the session, checks the snapshot cache and
// falls back to a full recompute.
func (s *Server) computeSnapshot(w http.ResponseWriter, r *http.Request) (*services.Snapshot, *session.Store, bool) {
	params, err := parseViewParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	sess := s.sessions.Get(parseSessionID(r))
	key := s.snapshotKey(sess.ID(), params)

	if snap, found := s.snapCache.Get(key); found {
		return snap, sess, true
	}

	snap, err := s.views.Compute(r.Context(), sess, parseSessionHint(r), params.Period, params.Sort)
	if err != nil {
		slog.ErrorContext(r.Context(), "View compute failed", "error", err)
		writeError(w, http.StatusBadGateway, "record source unavailable")
		return nil, nil, false
	}

	s.snapCache.Set(key, snap)
	return snap, sess, true
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.computeSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Periods []core.PeriodKey `json:"periods"`
		Period  core.PeriodKey   `json:"period"`
	}{snap.Periods, snap.Period})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.computeSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Period  core.PeriodKey `json:"period"`
		Records []recordDTO    `json:"records"`
	}{snap.Period, toRecordDTOs(snap.History)})
}

func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.computeSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Period     core.PeriodKey `json:"period"`
		Identity   string         `json:"identity"`
		Name       string         `json:"name"`
		Aggregates []aggregateDTO `json:"aggregates"`
		Total      string         `json:"total"`
	}{snap.Period, snap.Identity.ID, snap.Identity.DisplayName, toAggregateDTOs(snap.Aggregates), snap.Total})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.computeSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Period     core.PeriodKey `json:"period"`
		Categories []categoryDTO  `json:"categories"`
	}{snap.Period, toCategoryDTOs(snap.Categories)})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.computeSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Period     core.PeriodKey  `json:"period"`
		Queue      []auditEntryDTO `json:"queue"`
		QueueValue string          `json:"queue_value"`
	}{snap.Period, toAuditDTOs(snap.AuditQueue), snap.QueueValue})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.computeSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Period    core.PeriodKey `json:"period"`
		Identity  string         `json:"identity"`
		Name      string         `json:"name"`
		Total     string         `json:"total"`
		OwedTotal string         `json:"owed_total"`
		Owed      []recordDTO    `json:"owed"`
		Spent     []recordDTO    `json:"spent"`
	}{
		snap.Period,
		snap.Identity.ID,
		snap.Identity.DisplayName,
		snap.Total,
		core.SumAmounts(snap.Owed).String(),
		toRecordDTOs(snap.Owed),
		toRecordDTOs(snap.Spent),
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record id")
		return
	}

	rec, err := s.views.GetRecord(r.Context(), parseSessionHint(r), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		BudgetAmount string `json:"budget_amount"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount := core.ParseAmount(req.BudgetAmount)
	if !amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "budget_amount must be a positive amount")
		return
	}

	sess := s.sessions.Get(parseSessionID(r))
	userID := sanitizeInput(req.UserID)
	if userID == "" {
		userID = core.MasterUserID
	}

	err := s.reviews.SetBudget(r.Context(), sess, userID, amount)
	// The overlay is written before the sink call, so cached snapshots
	// are stale even when the sink rejects the mutation.
	s.bumpGeneration()
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget update failed", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "budget update not accepted upstream")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		UserID string `json:"user_id"`
		Budget string `json:"budget"`
	}{userID, amount.String()})
}

func (s *Server) handleResolveRisk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoiceID := sanitizeInput(req.InvoiceID)
	if invoiceID == "" {
		writeError(w, http.StatusBadRequest, "missing invoice_id")
		return
	}

	sess := s.sessions.Get(parseSessionID(r))
	err := s.reviews.ResolveRisk(r.Context(), sess, invoiceID)
	// Resolutions land in the session overlay before the sink call, so
	// the generation advances even on sink failure.
	s.bumpGeneration()
	if err != nil {
		slog.ErrorContext(r.Context(), "Risk resolution failed", "error", err, "invoice_id", invoiceID)
		writeError(w, http.StatusBadGateway, "resolution not accepted upstream")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		InvoiceID string `json:"invoice_id"`
		Resolved  bool   `json:"resolved"`
	}{invoiceID, true})
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoiceID := sanitizeInput(req.InvoiceID)
	if invoiceID == "" {
		writeError(w, http.StatusBadRequest, "missing invoice_id")
		return
	}

	sess := s.sessions.Get(parseSessionID(r))
	if err := s.reviews.RecordPayment(r.Context(), sess, invoiceID); err != nil {
		slog.ErrorContext(r.Context(), "Payment recording failed", "error", err, "invoice_id", invoiceID)
		writeError(w, http.StatusBadGateway, "payment not accepted upstream")
		return
	}

	s.bumpGeneration()
	writeJSON(w, http.StatusOK, struct {
		InvoiceID string `json:"invoice_id"`
		Paid      bool   `json:"paid"`
	}{invoiceID, true})
}
