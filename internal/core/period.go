package core

import (
	"sort"
	"strings"
)

// Period bucketing. A period key is either the AllTime sentinel or a
// YYYY-MM string taken from the first 7 characters of a record's
// effective date.

// PeriodKey scopes every derived view.
type PeriodKey string

// AllTime is the identity filter: no record is excluded.
const AllTime PeriodKey = "All Time"

// sentinelYear marks records the pipeline dated into the reserved
// future; they never produce a period.
const sentinelYear = "2099"

// periodOf derives the YYYY-MM key for a date string, or "" when the
// date is absent, malformed or carries the sentinel year.
func periodOf(date string) PeriodKey {
	if len(date) < 7 {
		return ""
	}
	if strings.HasPrefix(date, sentinelYear) {
		return ""
	}
	for i, r := range date[:7] {
		if i == 4 {
			if r != '-' {
				return ""
			}
			continue
		}
		if r < '0' || r > '9' {
			return ""
		}
	}
	return PeriodKey(date[:7])
}

// DerivePeriods returns the distinct periods present across the
// records, newest first, with AllTime always leading.
func DerivePeriods(records []Record) []PeriodKey {
	seen := map[PeriodKey]struct{}{}
	for _, r := range records {
		if p := periodOf(r.EffectiveDate()); p != "" {
			seen[p] = struct{}{}
		}
	}
	keys := make([]PeriodKey, 0, len(seen)+1)
	for p := range seen {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return append([]PeriodKey{AllTime}, keys...)
}

// FilterByPeriod retains records whose effective date falls in p.
// AllTime returns the input unchanged.
func FilterByPeriod(records []Record, p PeriodKey) []Record {
	if p == AllTime {
		return records
	}
	var out []Record
	for _, r := range records {
		if strings.HasPrefix(r.EffectiveDate(), string(p)) {
			out = append(out, r)
		}
	}
	return out
}
