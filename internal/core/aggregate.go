package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Aggregation: per-identity spend against budget ceilings, and
// per-category totals for the chart.

// DefaultBudgetCeiling applies when no budget marker exists for an
// identity. It represents a standing monthly limit.
var DefaultBudgetCeiling = decimal.NewFromInt(2000)

// Aggregate is the per-identity view for one period filter.
type Aggregate struct {
	IdentityID    string
	DisplayName   string
	BudgetCeiling decimal.Decimal
	TotalSpend    decimal.Decimal
	TxCount       int
}

// Utilization returns spend as a fraction of the ceiling, capped at 1.
// A zero ceiling reads as fully utilized once anything is spent.
func (a Aggregate) Utilization() float64 {
	if !a.BudgetCeiling.IsPositive() {
		if a.TotalSpend.IsPositive() {
			return 1
		}
		return 0
	}
	u, _ := a.TotalSpend.Div(a.BudgetCeiling).Float64()
	if u > 1 {
		return 1
	}
	return u
}

// OverBudget reports whether spend reached or passed the ceiling.
func (a Aggregate) OverBudget() bool {
	return a.TotalSpend.GreaterThanOrEqual(a.BudgetCeiling)
}

// BudgetCeilings scans the unfiltered resolved record set for budget
// markers and maps each identity to its ceiling. Ceilings are
// period-independent: a marker is a standing limit, not a historical
// value. When several markers resolve to one identity the last one in
// input order wins.
func BudgetCeilings(records []Record) map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, r := range records {
		if r.IsBudget() {
			out[r.OwnerID] = r.Amount
		}
	}
	return out
}

// ComputeAggregates groups the period-filtered records by resolved
// identity. Spend sums absolute canonical amounts of valid expense
// records only; budget markers contribute nothing to spend. Ceilings
// come from the unfiltered set via BudgetCeilings. Output is ordered
// by identity id for determinism.
func ComputeAggregates(filtered []Record, ceilings map[string]decimal.Decimal) []Aggregate {
	byID := map[string]*Aggregate{}
	var order []string
	for _, r := range filtered {
		if !ValidForHistory(r) {
			continue
		}
		agg, ok := byID[r.OwnerID]
		if !ok {
			agg = &Aggregate{
				IdentityID:    r.OwnerID,
				DisplayName:   r.OwnerName,
				BudgetCeiling: DefaultBudgetCeiling,
				TotalSpend:    decimal.Zero,
			}
			byID[r.OwnerID] = agg
			order = append(order, r.OwnerID)
		}
		agg.TotalSpend = agg.TotalSpend.Add(r.Amount.Abs())
		agg.TxCount++
	}
	for id, ceiling := range ceilings {
		if agg, ok := byID[id]; ok {
			agg.BudgetCeiling = ceiling
		}
	}
	sort.Strings(order)
	out := make([]Aggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}

// TotalSpend sums spend across aggregates.
func TotalSpend(aggs []Aggregate) decimal.Decimal {
	total := decimal.Zero
	for _, a := range aggs {
		total = total.Add(a.TotalSpend)
	}
	return total
}

// CategoryTotal is one chart slice.
type CategoryTotal struct {
	Name  string
	Value decimal.Decimal
	Color string
}

// CategoryTotals maps the period-filtered valid expenses into chart
// slices, one per category present. Categories with no matching
// records are omitted, not zero-filled; records without a category
// land under "General".
func CategoryTotals(filtered []Record) []CategoryTotal {
	totals := map[string]decimal.Decimal{}
	var order []string
	for _, r := range filtered {
		if !ValidForHistory(r) {
			continue
		}
		cat := r.Category
		if cat == "" {
			cat = "General"
		}
		if _, ok := totals[cat]; !ok {
			order = append(order, cat)
		}
		totals[cat] = totals[cat].Add(r.Amount.Abs())
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryTotal{Name: cat, Value: totals[cat], Color: CategoryColor(cat)})
	}
	return out
}

// CategoryColor returns the fixed chart color for a category.
func CategoryColor(category string) string {
	switch category {
	case "Food & Dining":
		return "#7c3aed"
	case "Transportation":
		return "#db2777"
	case "Groceries":
		return "#059669"
	case "Utilities":
		return "#d97706"
	case "Software/Subscription":
		return "#0891b2"
	case "Business Services":
		return "#2563eb"
	default:
		return "#4b5563"
	}
}
