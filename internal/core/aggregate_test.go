package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func owned(id, owner, amount string) Record {
	r := expense(id, amount)
	r.OwnerID = owner
	r.OwnerName = owner
	return r
}

func TestComputeAggregates(t *testing.T) {
	filtered := []Record{
		owned("e1", "u1", "$100.00"),
		owned("e2", "u1", "-$25.50"), // negative scans never reach a valid history, but guard anyway
		owned("e3", "u1", "$25.50"),
		owned("e4", "u2", "$10.00"),
	}
	ceilings := map[string]decimal.Decimal{"u1": decimal.NewFromInt(500)}

	aggs := ComputeAggregates(filtered, ceilings)
	if len(aggs) != 2 {
		t.Fatalf("aggregates = %+v", aggs)
	}
	u1 := aggs[0]
	if u1.IdentityID != "u1" {
		t.Fatalf("order: %+v", aggs)
	}
	if u1.TotalSpend.String() != "125.5" {
		t.Errorf("u1 spend = %s, want 125.5", u1.TotalSpend)
	}
	if u1.TxCount != 2 {
		t.Errorf("u1 count = %d, want 2", u1.TxCount)
	}
	if u1.BudgetCeiling.String() != "500" {
		t.Errorf("u1 ceiling = %s, want 500", u1.BudgetCeiling)
	}
	u2 := aggs[1]
	if u2.BudgetCeiling.Cmp(DefaultBudgetCeiling) != 0 {
		t.Errorf("u2 ceiling = %s, want default %s", u2.BudgetCeiling, DefaultBudgetCeiling)
	}
}

func TestBudgetCeilingsIgnorePeriodAndLastWins(t *testing.T) {
	records := []Record{
		{ID: "b1", Kind: KindBudget, OwnerID: "u1", Amount: decimal.NewFromInt(1000), ProcessedDate: "2020-01-01"},
		owned("e1", "u1", "$50.00"),
		{ID: "b2", Kind: KindBudget, OwnerID: "u1", Amount: decimal.NewFromInt(3000), ProcessedDate: "2019-06-01"},
	}
	ceilings := BudgetCeilings(records)
	if got := ceilings["u1"]; got.String() != "3000" {
		t.Fatalf("ceiling = %s, want 3000 (last marker wins)", got)
	}
}

func TestBudgetMarkersNeverContributeSpend(t *testing.T) {
	filtered := []Record{
		owned("e1", "u1", "$50.00"),
		{ID: "b1", Kind: KindBudget, OwnerID: "u1", Amount: decimal.NewFromInt(2500)},
	}
	aggs := ComputeAggregates(filtered, BudgetCeilings(filtered))
	if len(aggs) != 1 {
		t.Fatalf("aggregates = %+v", aggs)
	}
	if aggs[0].TotalSpend.String() != "50" {
		t.Errorf("spend = %s, want 50", aggs[0].TotalSpend)
	}
	if aggs[0].TxCount != 1 {
		t.Errorf("count = %d, want 1", aggs[0].TxCount)
	}
}

func TestUtilization(t *testing.T) {
	a := Aggregate{BudgetCeiling: decimal.NewFromInt(200), TotalSpend: decimal.NewFromInt(50)}
	if got := a.Utilization(); got != 0.25 {
		t.Errorf("utilization = %v, want 0.25", got)
	}
	over := Aggregate{BudgetCeiling: decimal.NewFromInt(100), TotalSpend: decimal.NewFromInt(150)}
	if got := over.Utilization(); got != 1 {
		t.Errorf("utilization capped = %v, want 1", got)
	}
	if !over.OverBudget() {
		t.Error("expected over budget")
	}
}

func TestCategoryTotals(t *testing.T) {
	a := owned("e1", "u1", "$10.00")
	a.Category = "Groceries"
	b := owned("e2", "u1", "$5.00")
	b.Category = "Groceries"
	c := owned("e3", "u1", "$7.00")
	c.Category = ""

	totals := CategoryTotals([]Record{a, b, c})
	if len(totals) != 2 {
		t.Fatalf("totals = %+v", totals)
	}
	if totals[0].Name != "Groceries" || totals[0].Value.String() != "15" {
		t.Errorf("groceries = %+v", totals[0])
	}
	if totals[0].Color != "#059669" {
		t.Errorf("groceries color = %s", totals[0].Color)
	}
	if totals[1].Name != "General" || totals[1].Color != "#4b5563" {
		t.Errorf("fallback slice = %+v", totals[1])
	}
}
