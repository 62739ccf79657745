package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestReportTotalOutliers verifies totals across multiple records.
func TestReportTotalOutliers(t *testing.T) {
	t.Parallel()

	report := &Report{
		Records: []OutlierRecord{
			{Column: "a", Count: 2},
			{Column: "b", Count: 3},
		},
	}

	if got := report.TotalOutliers(); got != 5 {
		t.Errorf("expected 5 total outliers, got %d", got)
	}
}

// TestReportHasOutliers verifies the empty and non-empty cases.
func TestReportHasOutliers(t *testing.T) {
	t.Parallel()

	if (&Report{}).HasOutliers() {
		t.Error("expected empty report to have no outliers")
	}

	report := &Report{Records: []OutlierRecord{{Column: "a", Count: 1}}}
	if !report.HasOutliers() {
		t.Error("expected report with a record to have outliers")
	}
}

// TestReportRecord verifies column lookup.
func TestReportRecord(t *testing.T) {
	t.Parallel()

	report := &Report{
		Records: []OutlierRecord{
			{Column: "a", Count: 1},
			{Column: "b", Count: 2},
		},
	}

	if rec := report.Record("b"); rec == nil || rec.Count != 2 {
		t.Errorf("expected record for b with count 2, got %+v", rec)
	}
	if rec := report.Record("missing"); rec != nil {
		t.Errorf("expected nil for unknown column, got %+v", rec)
	}
}

// TestOutlierRecordJSONOmitsRawBounds verifies raw bounds stay out of the
// serialized form while the rounded pair is present.
func TestOutlierRecordJSONOmitsRawBounds(t *testing.T) {
	t.Parallel()

	rec := OutlierRecord{
		Column:        "x",
		Count:         1,
		Percentage:    10,
		LowerBound:    -3.5,
		UpperBound:    14.5,
		RawLowerBound: -3.5000000001,
		RawUpperBound: 14.5000000001,
		Indices:       []int{9},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(data)
	if strings.Contains(s, "RawLowerBound") || strings.Contains(s, "raw_lower_bound") {
		t.Errorf("raw bounds leaked into JSON: %s", s)
	}
	if !strings.Contains(s, `"lower_bound":-3.5`) {
		t.Errorf("expected rounded lower bound in JSON, got %s", s)
	}
	if !strings.Contains(s, `"indices":[9]`) {
		t.Errorf("expected indices in JSON, got %s", s)
	}
}
