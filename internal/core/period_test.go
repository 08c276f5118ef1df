package core

import "testing"

func TestDerivePeriods(t *testing.T) {
	records := []Record{
		{ProcessedDate: "2024-05-10"},
		{ProcessedDate: "2024-03-02"},
		{UploadDate: "2024-05-20T10:00:00Z"},
		{ProcessedDate: "2099-01-01"}, // sentinel future date
		{ProcessedDate: "bad-date"},
		{},
	}
	got := DerivePeriods(records)
	want := []PeriodKey{AllTime, "2024-05", "2024-03"}
	if len(got) != len(want) {
		t.Fatalf("periods = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("periods = %v, want %v", got, want)
		}
	}
}

func TestSentinelYearNeverAppears(t *testing.T) {
	records := []Record{
		{ProcessedDate: "2099-12-31"},
		{UploadDate: "2099-01-15"},
	}
	got := DerivePeriods(records)
	if len(got) != 1 || got[0] != AllTime {
		t.Fatalf("periods = %v, want only AllTime", got)
	}
}

func TestFilterByPeriod(t *testing.T) {
	records := []Record{
		{ID: "a", ProcessedDate: "2024-05-10"},
		{ID: "b", ProcessedDate: "2024-03-02"},
		{ID: "c", UploadDate: "2024-05-20"},
	}
	got := FilterByPeriod(records, "2024-05")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("filtered = %+v", got)
	}
	if all := FilterByPeriod(records, AllTime); len(all) != len(records) {
		t.Fatalf("AllTime dropped records: %+v", all)
	}
}

// Period filtering partitions: every record with a derivable period
// appears in exactly one monthly bucket, and each bucket is a subset
// of the AllTime view.
func TestPeriodPartition(t *testing.T) {
	records := []Record{
		{ID: "a", ProcessedDate: "2024-05-10"},
		{ID: "b", ProcessedDate: "2024-03-02"},
		{ID: "c", UploadDate: "2024-05-20"},
		{ID: "d", ProcessedDate: "2024-04-01"},
	}
	periods := DerivePeriods(records)
	seen := map[string]int{}
	for _, p := range periods {
		if p == AllTime {
			continue
		}
		for _, r := range FilterByPeriod(records, p) {
			seen[r.ID]++
		}
	}
	if len(seen) != len(records) {
		t.Fatalf("union of buckets covered %d of %d records", len(seen), len(records))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("record %s appeared in %d buckets", id, n)
		}
	}
}
