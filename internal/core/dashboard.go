package core

import "github.com/shopspring/decimal"

// Bill-vs-paid split for the personal dashboard. Records in a bill
// category stay "owed" until marked paid; everything else counts as
// already spent.

// billCategories are the categories treated as payable bills rather
// than point-of-sale expenses.
var billCategories = map[string]struct{}{
	"Business Services":     {},
	"Utilities":             {},
	"Software/Subscription": {},
}

// IsBillCategory reports whether the category represents a bill.
func IsBillCategory(category string) bool {
	_, ok := billCategories[category]
	return ok
}

// SplitOwed partitions the cleaned history into owed bills and settled
// spend. The two slices are a partition of the input: every record
// lands in exactly one.
func SplitOwed(history []Record) (owed, spent []Record) {
	for _, r := range history {
		if IsBillCategory(r.Category) && r.Status != StatusPaid {
			owed = append(owed, r)
		} else {
			spent = append(spent, r)
		}
	}
	return owed, spent
}

// SumAmounts totals the absolute canonical amounts of a record list.
func SumAmounts(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount.Abs())
	}
	return total
}
