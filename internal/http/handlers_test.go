package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"ricevute/internal/core"
	"ricevute/internal/records/memory"
	"ricevute/internal/services"
	"ricevute/internal/session"
)

func testRecords() []core.Record {
	return []core.Record{
		{
			ID: "inv-1", OwnerID: "u1", OwnerName: "Jane Doe", Kind: core.KindExpense,
			Vendor: "ACME", Category: "Groceries",
			RawAmount: "$120.00", Amount: core.ParseAmount("$120.00"),
			ProcessedDate: "2024-05-10", EvidenceURI: "https://bucket/inv-1.pdf",
			RiskFlag: "Suspicious Pattern", AISummary: "Duplicate vendor",
		},
		{
			ID: "inv-2", OwnerID: "u1", OwnerName: "Jane Doe", Kind: core.KindExpense,
			Vendor: "Globex", Category: "Utilities",
			RawAmount: "$80.00", Amount: core.ParseAmount("$80.00"),
			ProcessedDate: "2024-04-02", EvidenceURI: "https://bucket/inv-2.pdf",
			Status: "UNPAID",
		},
		{
			ID: "budget-1", OwnerID: "u1", Kind: core.KindBudget,
			RawAmount: "1000", Amount: core.ParseAmount("1000"),
		},
	}
}

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New(testRecords())
	views := services.NewViewService(store, core.Resolver{Mode: core.ModeSingleTenant})
	reviews := services.NewReviewService(store, nil)
	srv := NewServer(":0", views, reviews, session.NewManager(0))
	t.Cleanup(func() { srv.cacheMgr.Stop(); srv.limiter.Stop() })
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, target, sessionID, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sessionID != "" {
		req.Header.Set(headerSessionID, sessionID)
	}
	req.Header.Set(headerUserName, "Jane Doe")

	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v (%s)", method, target, err, rec.Body.String())
		}
	}
	return rec
}

func TestPeriodsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp struct {
		Periods []string `json:"periods"`
		Period  string   `json:"period"`
	}
	rec := doJSON(t, srv, http.MethodGet, "/api/periods", "s1", "", &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := []string{"All Time", "2024-05", "2024-04"}
	if len(resp.Periods) != len(want) {
		t.Fatalf("periods = %v", resp.Periods)
	}
	for i, p := range want {
		if resp.Periods[i] != p {
			t.Errorf("periods[%d] = %q, want %q", i, resp.Periods[i], p)
		}
	}
	if resp.Period != "All Time" {
		t.Errorf("default period = %q", resp.Period)
	}
}

func TestHistorySortingParams(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}

	doJSON(t, srv, http.MethodGet, "/api/history?sort=amount&dir=asc", "s1", "", &resp)
	if len(resp.Records) != 2 || resp.Records[0].ID != "inv-2" {
		t.Errorf("amount asc order wrong: %+v", resp.Records)
	}

	doJSON(t, srv, http.MethodGet, "/api/history?sort=amount&dir=desc", "s1", "", &resp)
	if resp.Records[0].ID != "inv-1" {
		t.Errorf("amount desc order wrong: %+v", resp.Records)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/history?sort=bogus", "s1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid sort key should 400, got %d", rec.Code)
	}
}

func TestHistoryPeriodFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp struct {
		Records []struct {
			ID string `json:"id"`
		} `json:"records"`
	}
	doJSON(t, srv, http.MethodGet, "/api/history?period=2024-05", "s1", "", &resp)
	if len(resp.Records) != 1 || resp.Records[0].ID != "inv-1" {
		t.Errorf("period filter wrong: %+v", resp.Records)
	}
}

func TestAggregatesIdentityCollapse(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp struct {
		Identity   string `json:"identity"`
		Name       string `json:"name"`
		Total      string `json:"total"`
		Aggregates []struct {
			Budget string `json:"budget"`
			Spent  string `json:"spent"`
		} `json:"aggregates"`
	}
	doJSON(t, srv, http.MethodGet, "/api/aggregates", "s1", "", &resp)
	if resp.Identity != core.MasterUserID || resp.Name != "Jane Doe" {
		t.Errorf("identity = %q / %q", resp.Identity, resp.Name)
	}
	if len(resp.Aggregates) != 1 || resp.Aggregates[0].Spent != "200" || resp.Aggregates[0].Budget != "1000" {
		t.Errorf("aggregates = %+v", resp.Aggregates)
	}
	if resp.Total != "200" {
		t.Errorf("total = %q", resp.Total)
	}
}

func TestChartColors(t *testing.T) {
	srv, _ := newTestServer(t)

	var resp struct {
		Categories []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
			Color string  `json:"color"`
		} `json:"categories"`
	}
	doJSON(t, srv, http.MethodGet, "/api/chart", "s1", "", &resp)
	if len(resp.Categories) != 2 {
		t.Fatalf("categories = %+v", resp.Categories)
	}
	if resp.Categories[0].Name != "Groceries" || resp.Categories[0].Color != "#059669" {
		t.Errorf("first slice = %+v", resp.Categories[0])
	}
	if resp.Categories[1].Name != "Utilities" || resp.Categories[1].Color != "#d97706" {
		t.Errorf("second slice = %+v", resp.Categories[1])
	}
}

func TestResolveFlowClearsAuditQueue(t *testing.T) {
	srv, store := newTestServer(t)

	var audit struct {
		Queue      []struct{ Reason string } `json:"queue"`
		QueueValue string                    `json:"queue_value"`
	}
	doJSON(t, srv, http.MethodGet, "/api/audit", "s1", "", &audit)
	if len(audit.Queue) != 1 || audit.QueueValue != "120" {
		t.Fatalf("audit = %+v", audit)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/audit/resolve", "s1", `{"invoice_id":"inv-1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status = %d (%s)", rec.Code, rec.Body.String())
	}

	doJSON(t, srv, http.MethodGet, "/api/audit", "s1", "", &audit)
	if len(audit.Queue) != 0 {
		t.Errorf("queue not cleared: %+v", audit.Queue)
	}

	recs, _ := store.ListRecords(context.Background())
	for _, r := range recs {
		if r.ID == "inv-1" && r.RiskFlag != core.RiskResolved {
			t.Errorf("backend flag not updated: %q", r.RiskFlag)
		}
	}
}

// downSink rejects every mutation, standing in for an unreachable
// upstream.
type downSink struct{}

func (downSink) UpdateBudget(context.Context, string, decimal.Decimal) error {
	return errors.New("upstream unavailable")
}

func (downSink) ResolveRisk(context.Context, string) error {
	return errors.New("upstream unavailable")
}

func (downSink) RecordPayment(context.Context, string) error {
	return errors.New("upstream unavailable")
}

func TestResolveSinkFailureStillRefreshesViews(t *testing.T) {
	store := memory.New(testRecords())
	views := services.NewViewService(store, core.Resolver{Mode: core.ModeSingleTenant})
	reviews := services.NewReviewService(downSink{}, nil)
	srv := NewServer(":0", views, reviews, session.NewManager(0))
	t.Cleanup(func() { srv.cacheMgr.Stop(); srv.limiter.Stop() })

	var audit struct {
		Queue []struct{ Reason string } `json:"queue"`
	}
	doJSON(t, srv, http.MethodGet, "/api/audit", "s1", "", &audit)
	if len(audit.Queue) != 1 {
		t.Fatalf("audit = %+v", audit)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/audit/resolve", "s1", `{"invoice_id":"inv-1"}`, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("resolve status = %d (%s)", rec.Code, rec.Body.String())
	}

	// The resolution stays in the session overlay, so the next read
	// must not serve the cached pre-mutation snapshot.
	doJSON(t, srv, http.MethodGet, "/api/audit", "s1", "", &audit)
	if len(audit.Queue) != 0 {
		t.Errorf("queue after failed resolve = %d entries, want 0", len(audit.Queue))
	}
}

func TestBudgetSinkFailureStillRefreshesViews(t *testing.T) {
	store := memory.New(testRecords())
	views := services.NewViewService(store, core.Resolver{Mode: core.ModeSingleTenant})
	reviews := services.NewReviewService(downSink{}, nil)
	srv := NewServer(":0", views, reviews, session.NewManager(0))
	t.Cleanup(func() { srv.cacheMgr.Stop(); srv.limiter.Stop() })

	var resp struct {
		Aggregates []struct {
			Budget string `json:"budget"`
		} `json:"aggregates"`
	}
	doJSON(t, srv, http.MethodGet, "/api/aggregates", "s1", "", &resp)
	if len(resp.Aggregates) != 1 || resp.Aggregates[0].Budget != "1000" {
		t.Fatalf("aggregates = %+v", resp.Aggregates)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/budget", "s1", `{"user_id":"","budget_amount":"3000"}`, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("budget status = %d (%s)", rec.Code, rec.Body.String())
	}

	doJSON(t, srv, http.MethodGet, "/api/aggregates", "s1", "", &resp)
	if len(resp.Aggregates) != 1 || resp.Aggregates[0].Budget != "3000" {
		t.Errorf("aggregates after failed budget update = %+v", resp.Aggregates)
	}
}

func TestBudgetUpdateFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/budget", "s1", `{"user_id":"","budget_amount":"3000"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("budget status = %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Aggregates []struct {
			Budget string `json:"budget"`
		} `json:"aggregates"`
	}
	doJSON(t, srv, http.MethodGet, "/api/aggregates", "s1", "", &resp)
	if len(resp.Aggregates) != 1 || resp.Aggregates[0].Budget != "3000" {
		t.Errorf("aggregates after budget update = %+v", resp.Aggregates)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/budget", "s1", `{"budget_amount":"-5"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative budget should 422, got %d", rec.Code)
	}
}

func TestPaymentFlowMovesOwedToSpent(t *testing.T) {
	srv, _ := newTestServer(t)

	var dash struct {
		Owed      []struct{ ID string } `json:"owed"`
		OwedTotal string                `json:"owed_total"`
	}
	doJSON(t, srv, http.MethodGet, "/api/dashboard", "s1", "", &dash)
	if len(dash.Owed) != 1 || dash.OwedTotal != "80" {
		t.Fatalf("dashboard = %+v", dash)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/pay", "s1", `{"invoice_id":"inv-2"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d (%s)", rec.Code, rec.Body.String())
	}

	doJSON(t, srv, http.MethodGet, "/api/dashboard", "s1", "", &dash)
	if len(dash.Owed) != 0 {
		t.Errorf("owed not cleared after payment: %+v", dash.Owed)
	}
}

func TestGetRecordEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var rec struct {
		ID      string `json:"id"`
		OwnerID string `json:"owner_id"`
	}
	doJSON(t, srv, http.MethodGet, "/api/records/inv-1", "s1", "", &rec)
	if rec.ID != "inv-1" || rec.OwnerID != core.MasterUserID {
		t.Errorf("record = %+v", rec)
	}

	resp := doJSON(t, srv, http.MethodGet, "/api/records/missing", "s1", "", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("missing record should 404, got %d", resp.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, "", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/periods", "s1", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
