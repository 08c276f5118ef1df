package core

import (
	"sort"
	"strings"
)

// History sorting: a multi-key, type-aware comparator over the cleaned
// record set. The sort is stable by construction: equal keys keep
// their original relative order via an index tiebreak.

// SortKey names a sortable column of the history view.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAmount SortKey = "amount"
	SortByOwner  SortKey = "owner"
	SortByVendor SortKey = "vendor"
)

// ValidSortKey reports whether k names a known column.
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortByDate, SortByAmount, SortByOwner, SortByVendor:
		return true
	}
	return false
}

// SortState tracks the active key and direction. Requesting the same
// key again flips the direction; a new key resets to ascending.
type SortState struct {
	Key        SortKey
	Descending bool
}

// DefaultSortState is the initial history ordering: newest first.
func DefaultSortState() SortState {
	return SortState{Key: SortByDate, Descending: true}
}

// Request applies a sort request and returns the updated state.
func (s SortState) Request(k SortKey) SortState {
	if s.Key == k {
		return SortState{Key: k, Descending: !s.Descending}
	}
	return SortState{Key: k}
}

// SortHistory orders the cleaned history by the given state. The input
// is not modified; a sorted copy is returned.
func SortHistory(records []Record, state SortState) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	idx := make(map[string]int, len(out))
	for i, r := range out {
		idx[r.ID] = i
	}
	less := lessFunc(state.Key)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := less(a, b); c != 0 {
			if state.Descending {
				return c > 0
			}
			return c < 0
		}
		// Equal keys: original input order, regardless of direction.
		return idx[a.ID] < idx[b.ID]
	})
	return out
}

// lessFunc returns a three-way comparator for the key. Dates compare
// as strings on the effective date, amounts as canonical decimals,
// owners case-insensitively, vendors as raw strings.
func lessFunc(key SortKey) func(a, b Record) int {
	switch key {
	case SortByAmount:
		return func(a, b Record) int {
			return a.Amount.Cmp(b.Amount)
		}
	case SortByOwner:
		return func(a, b Record) int {
			return strings.Compare(strings.ToLower(a.OwnerName), strings.ToLower(b.OwnerName))
		}
	case SortByVendor:
		return func(a, b Record) int {
			return strings.Compare(a.Vendor, b.Vendor)
		}
	default:
		return func(a, b Record) int {
			return strings.Compare(a.EffectiveDate(), b.EffectiveDate())
		}
	}
}
