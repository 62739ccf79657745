package detector

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"

	"github.com/wsantos08/outlierscan/internal/model"
)

// numericColumn builds a numeric column for tests.
func numericColumn(name string, values []float64) model.Column {
	return model.Column{
		Name:    name,
		Kind:    model.KindNumeric,
		Numbers: values,
	}
}

// textColumn builds a text column for tests.
func textColumn(name string, values []string) model.Column {
	return model.Column{
		Name:   name,
		Kind:   model.KindText,
		Values: values,
	}
}

// newDataset builds a dataset for tests.
func newDataset(cols ...model.Column) *model.Dataset {
	return &model.Dataset{
		Source:  "test.csv",
		Columns: cols,
	}
}

// TestDetectSingleOutlier verifies the textbook case: one high value in an
// otherwise regular column with the standard 1.5 multiplier.
func TestDetectSingleOutlier(t *testing.T) {
	t.Parallel()

	ds := newDataset(numericColumn("x", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}))

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}

	rec := report.Records[0]
	if rec.Column != "x" {
		t.Errorf("expected column 'x', got %q", rec.Column)
	}
	if rec.Count != 1 {
		t.Errorf("expected count 1, got %d", rec.Count)
	}
	if rec.Percentage != 10.0 {
		t.Errorf("expected percentage 10.0, got %v", rec.Percentage)
	}
	if rec.LowerBound != -3.5 {
		t.Errorf("expected lower bound -3.5, got %v", rec.LowerBound)
	}
	if rec.UpperBound != 14.5 {
		t.Errorf("expected upper bound 14.5, got %v", rec.UpperBound)
	}
	if !reflect.DeepEqual(rec.Indices, []int{9}) {
		t.Errorf("expected indices [9], got %v", rec.Indices)
	}
}

// TestDetectExtremeMultiplier verifies that widening the bounds with the
// extreme multiplier still flags a value far beyond them.
func TestDetectExtremeMultiplier(t *testing.T) {
	t.Parallel()

	ds := newDataset(numericColumn("x", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}))

	report, err := Detect(ds, 3.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}

	rec := report.Records[0]
	if rec.LowerBound != -10.25 {
		t.Errorf("expected lower bound -10.25, got %v", rec.LowerBound)
	}
	if rec.UpperBound != 21.25 {
		t.Errorf("expected upper bound 21.25, got %v", rec.UpperBound)
	}
	if !reflect.DeepEqual(rec.Indices, []int{9}) {
		t.Errorf("expected indices [9], got %v", rec.Indices)
	}
}

// TestDetectConstantColumn verifies that a column of identical values
// produces no record: every value equals the collapsed bounds and none is
// strictly outside them.
func TestDetectConstantColumn(t *testing.T) {
	t.Parallel()

	ds := newDataset(numericColumn("x", []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}))

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 0 {
		t.Errorf("expected no records, got %d", len(report.Records))
	}
}

// TestDetectDegenerateIQR verifies the zero-IQR case: a near-constant
// column collapses the bounds to q1, so any deviating value is flagged.
// This is intended behavior, not a bug.
func TestDetectDegenerateIQR(t *testing.T) {
	t.Parallel()

	ds := newDataset(numericColumn("x", []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 7}))

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}

	rec := report.Records[0]
	if rec.LowerBound != 5 || rec.UpperBound != 5 {
		t.Errorf("expected collapsed bounds [5, 5], got [%v, %v]", rec.LowerBound, rec.UpperBound)
	}
	if !reflect.DeepEqual(rec.Indices, []int{9}) {
		t.Errorf("expected indices [9], got %v", rec.Indices)
	}
}

// TestDetectZeroMultiplier verifies that multiplier zero is legal and flags
// everything strictly outside [q1, q3].
func TestDetectZeroMultiplier(t *testing.T) {
	t.Parallel()

	ds := newDataset(numericColumn("x", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))

	report, err := Detect(ds, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}

	// q1 = 3.25, q3 = 7.75: values 1,2,3 and 8,9,10 lie outside
	rec := report.Records[0]
	if !reflect.DeepEqual(rec.Indices, []int{0, 1, 2, 7, 8, 9}) {
		t.Errorf("expected indices [0, 1, 2, 7, 8, 9], got %v", rec.Indices)
	}
	if rec.Percentage != 60.0 {
		t.Errorf("expected percentage 60.0, got %v", rec.Percentage)
	}
}

// TestDetectEmptyDataset verifies that a zero-row dataset is rejected.
func TestDetectEmptyDataset(t *testing.T) {
	t.Parallel()

	t.Run("nil dataset", func(t *testing.T) {
		t.Parallel()
		if _, err := Detect(nil, 1.5); !errors.Is(err, ErrEmptyDataset) {
			t.Errorf("expected ErrEmptyDataset, got %v", err)
		}
	})

	t.Run("no columns", func(t *testing.T) {
		t.Parallel()
		if _, err := Detect(&model.Dataset{}, 1.5); !errors.Is(err, ErrEmptyDataset) {
			t.Errorf("expected ErrEmptyDataset, got %v", err)
		}
	})

	t.Run("columns without rows", func(t *testing.T) {
		t.Parallel()
		ds := newDataset(numericColumn("x", nil))
		if _, err := Detect(ds, 1.5); !errors.Is(err, ErrEmptyDataset) {
			t.Errorf("expected ErrEmptyDataset, got %v", err)
		}
	})
}

// TestDetectInvalidMultiplier verifies rejection of negative and
// non-finite multipliers.
func TestDetectInvalidMultiplier(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		multiplier float64
	}{
		{"negative", -1.5},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	ds := newDataset(numericColumn("x", []float64{1, 2, 3}))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Detect(ds, tc.multiplier); !errors.Is(err, ErrInvalidMultiplier) {
				t.Errorf("expected ErrInvalidMultiplier for %v, got %v", tc.multiplier, err)
			}
		})
	}
}

// TestDetectNoNumericColumns verifies that a dataset without numeric
// columns yields an empty report, not an error.
func TestDetectNoNumericColumns(t *testing.T) {
	t.Parallel()

	ds := newDataset(textColumn("name", []string{"alpha", "beta", "gamma"}))

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.HasOutliers() {
		t.Errorf("expected empty report, got %d records", len(report.Records))
	}
	if report.NumericColumnCount != 0 {
		t.Errorf("expected 0 numeric columns, got %d", report.NumericColumnCount)
	}
}

// TestDetectMonotonicity verifies that a larger multiplier never flags
// more values: the outlier set at m2 > m1 is a subset of the set at m1.
func TestDetectMonotonicity(t *testing.T) {
	t.Parallel()

	ds := newDataset(numericColumn("x", []float64{-50, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 30, 100}))

	indexSet := func(multiplier float64) map[int]bool {
		report, err := Detect(ds, multiplier)
		if err != nil {
			t.Fatalf("unexpected error at multiplier %v: %v", multiplier, err)
		}
		set := make(map[int]bool)
		for _, rec := range report.Records {
			for _, idx := range rec.Indices {
				set[idx] = true
			}
		}
		return set
	}

	multipliers := []float64{0, 0.5, 1.5, 3.0, 10.0}
	for i := 1; i < len(multipliers); i++ {
		narrow := indexSet(multipliers[i-1])
		wide := indexSet(multipliers[i])

		for idx := range wide {
			if !narrow[idx] {
				t.Errorf("index %d flagged at multiplier %v but not at %v",
					idx, multipliers[i], multipliers[i-1])
			}
		}
	}
}

// TestDetectIdempotence verifies that repeated calls with identical inputs
// yield identical records.
func TestDetectIdempotence(t *testing.T) {
	t.Parallel()

	ds := newDataset(
		numericColumn("a", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}),
		numericColumn("b", []float64{-40, 10, 11, 12, 13, 14, 15, 16, 17, 18}),
	)

	first, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Errorf("records differ between calls:\nfirst:  %+v\nsecond: %+v",
			first.Records, second.Records)
	}
}

// TestDetectMissingValues verifies that missing cells are skipped for
// quantile computation while indices stay anchored to original rows and
// percentages use the full row count.
func TestDetectMissingValues(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	ds := newDataset(numericColumn("x",
		[]float64{nan, 1, 2, 3, 4, 5, 6, 7, 8, 9, 100}))

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}

	rec := report.Records[0]
	if !reflect.DeepEqual(rec.Indices, []int{10}) {
		t.Errorf("expected indices [10], got %v", rec.Indices)
	}
	// 1 outlier out of 11 rows
	if rec.Percentage != 9.09 {
		t.Errorf("expected percentage 9.09, got %v", rec.Percentage)
	}
}

// TestDetectAllMissingColumn verifies that a numeric column with only
// missing values is skipped without error.
func TestDetectAllMissingColumn(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	ds := newDataset(
		numericColumn("empty", []float64{nan, nan, nan, nan}),
		numericColumn("x", []float64{1, 1, 1, 50}),
	)

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Record("empty") != nil {
		t.Error("expected no record for the all-missing column")
	}
	if report.Record("x") == nil {
		t.Error("expected record for column x")
	}
}

// TestDetectColumnOrder verifies that records follow the dataset's column
// declaration order.
func TestDetectColumnOrder(t *testing.T) {
	t.Parallel()

	ds := newDataset(
		numericColumn("zeta", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 40}),
		textColumn("label", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}),
		numericColumn("alpha", []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 90}),
	)

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Records[0].Column != "zeta" || report.Records[1].Column != "alpha" {
		t.Errorf("expected declaration order [zeta alpha], got [%s %s]",
			report.Records[0].Column, report.Records[1].Column)
	}
}

// TestDetectDoesNotMutateInput verifies Detect leaves the dataset intact.
func TestDetectDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []float64{9, 1, 100, 3, 2, 5, 4, 8, 7, 6}
	original := make([]float64, len(values))
	copy(original, values)

	ds := newDataset(numericColumn("x", values))

	if _, err := Detect(ds, 1.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(ds.Columns[0].Numbers, original) {
		t.Errorf("input column mutated: got %v, expected %v", ds.Columns[0].Numbers, original)
	}
}

// TestDetectParallelMatchesSequential verifies that parallel detection
// produces the same records in the same order as sequential detection.
func TestDetectParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	ds := newDataset(
		numericColumn("a", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}),
		numericColumn("b", []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}),
		numericColumn("c", []float64{-80, 10, 11, 12, 13, 14, 15, 16, 17, 18}),
		numericColumn("d", []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 42}),
	)

	sequential, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parallel, err := Detect(ds, 1.5, WithParallelism(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sequential.Records, parallel.Records) {
		t.Errorf("parallel records differ from sequential:\nsequential: %+v\nparallel:   %+v",
			sequential.Records, parallel.Records)
	}
}

// TestDetectBoundOrdering verifies lower <= q1 <= q3 <= upper for a range
// of multipliers.
func TestDetectBoundOrdering(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 97, -20}
	ds := newDataset(numericColumn("x", values))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)

	for _, m := range []float64{0, 0.5, 1.5, 3.0} {
		report, err := Detect(ds, m)
		if err != nil {
			t.Fatalf("unexpected error at multiplier %v: %v", m, err)
		}
		for _, rec := range report.Records {
			if rec.RawLowerBound > q1 {
				t.Errorf("multiplier %v: lower bound %v above q1 %v", m, rec.RawLowerBound, q1)
			}
			if rec.RawUpperBound < q3 {
				t.Errorf("multiplier %v: upper bound %v below q3 %v", m, rec.RawUpperBound, q3)
			}
			if q1 > q3 {
				t.Errorf("q1 %v above q3 %v", q1, q3)
			}
		}
	}
}

// TestQuantile tests the linear-interpolation quantile routine.
func TestQuantile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		sorted   []float64
		p        float64
		expected float64
	}{
		{"single element", []float64{42}, 0.25, 42},
		{"two elements p=0.5", []float64{1, 3}, 0.5, 2},
		{"four elements p=0.25", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"four elements p=0.75", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"p=0 returns minimum", []float64{1, 2, 3, 4}, 0, 1},
		{"p=1 returns maximum", []float64{1, 2, 3, 4}, 1, 4},
		{"ten values q1", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}, 0.25, 3.25},
		{"ten values q3", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}, 0.75, 7.75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Quantile(tc.sorted, tc.p)
			if math.Abs(got-tc.expected) > 1e-12 {
				t.Errorf("Quantile(%v, %v) = %v, expected %v", tc.sorted, tc.p, got, tc.expected)
			}
		})
	}
}

// TestRound2 tests rounding to two decimal places, half away from zero.
func TestRound2(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in       float64
		expected float64
	}{
		{12.3456, 12.35},
		{-12.3456, -12.35},
		{10, 10},
		{9.09090909, 9.09},
		{0.375, 0.38},
		{-0.375, -0.38},
	}

	for _, tc := range testCases {
		if got := Round2(tc.in); got != tc.expected {
			t.Errorf("Round2(%v) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

// TestDetectPercentageInvariant verifies that every record's percentage is
// exactly the rounded count/rows ratio.
func TestDetectPercentageInvariant(t *testing.T) {
	t.Parallel()

	ds := newDataset(
		numericColumn("a", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 300, -300}),
		numericColumn("b", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 7}),
	)

	report, err := Detect(ds, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rec := range report.Records {
		want := Round2(float64(rec.Count) / float64(report.RowCount) * 100)
		if rec.Percentage != want {
			t.Errorf("column %s: percentage %v, expected %v", rec.Column, rec.Percentage, want)
		}
	}
}
