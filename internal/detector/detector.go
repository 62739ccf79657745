package detector

import (
	"math"
	"sort"
	"time"

	"github.com/wsantos08/outlierscan/internal/model"
)

// DefaultMultiplier is the conventional IQR multiplier for outliers.
// Use 3.0 to flag only extreme outliers.
const DefaultMultiplier = 1.5

// options holds detection settings configured via Option values.
type options struct {
	// parallelism is the number of columns processed concurrently.
	parallelism int

	// summaries enables descriptive statistics in the report.
	summaries bool
}

// Option configures a detection run.
type Option func(*options)

// WithParallelism sets the number of numeric columns processed concurrently.
// Values below 2 keep the run sequential. Parallelism never affects the
// output: records are reassembled in column declaration order.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithSummaries adds per-column descriptive statistics to the report.
func WithSummaries() Option {
	return func(o *options) {
		o.summaries = true
	}
}

// Detect finds outliers in every numeric column of the dataset using the
// IQR method: a value is an outlier iff it lies strictly below
// q1 - multiplier*iqr or strictly above q3 + multiplier*iqr.
//
// The returned report holds one record per numeric column that produced at
// least one outlier, in column declaration order. A dataset without numeric
// columns yields an empty report and a nil error.
//
// Detect returns ErrEmptyDataset for a zero-row dataset and
// ErrInvalidMultiplier for a negative or non-finite multiplier.
func Detect(ds *model.Dataset, multiplier float64, opts ...Option) (*model.Report, error) {
	if ds == nil || ds.RowCount() == 0 {
		return nil, ErrEmptyDataset
	}
	if multiplier < 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return nil, ErrInvalidMultiplier
	}

	o := options{parallelism: 1}
	for _, opt := range opts {
		opt(&o)
	}

	numeric := ds.NumericColumns()

	report := &model.Report{
		Source:             ds.Source,
		Multiplier:         multiplier,
		RowCount:           ds.RowCount(),
		ColumnCount:        len(ds.Columns),
		NumericColumnCount: len(numeric),
		DetectedAt:         time.Now().UTC(),
	}

	var records []*model.OutlierRecord
	if o.parallelism > 1 && len(numeric) > 1 {
		records = detectParallel(numeric, ds.RowCount(), multiplier, o.parallelism)
	} else {
		records = make([]*model.OutlierRecord, len(numeric))
		for i := range numeric {
			records[i] = detectColumn(&numeric[i], ds.RowCount(), multiplier)
		}
	}

	// Compact in declaration order, dropping columns without outliers.
	for _, rec := range records {
		if rec != nil {
			report.Records = append(report.Records, *rec)
		}
	}

	if o.summaries {
		report.Summaries = Summaries(ds)
	}

	return report, nil
}

// detectColumn runs IQR detection over a single numeric column.
// It returns nil when the column has no non-missing values or no outliers.
func detectColumn(col *model.Column, rowCount int, multiplier float64) *model.OutlierRecord {
	// Collect non-missing values with their original row indices.
	// The index association survives the sort below because only a copy
	// of the values is sorted.
	values := make([]float64, 0, len(col.Numbers))
	indices := make([]int, 0, len(col.Numbers))
	for i, v := range col.Numbers {
		if model.IsMissing(v) {
			continue
		}
		values = append(values, v)
		indices = append(indices, i)
	}
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	// Classification compares raw values against the unrounded bounds.
	// Rounding is presentation-only and happens when the record is built.
	var outliers []int
	for i, v := range values {
		if v < lower || v > upper {
			outliers = append(outliers, indices[i])
		}
	}
	if len(outliers) == 0 {
		return nil
	}

	percentage := float64(len(outliers)) / float64(rowCount) * 100

	return &model.OutlierRecord{
		Column:        col.Name,
		Count:         len(outliers),
		Percentage:    Round2(percentage),
		LowerBound:    Round2(lower),
		UpperBound:    Round2(upper),
		RawLowerBound: lower,
		RawUpperBound: upper,
		Indices:       outliers,
	}
}

// Quantile computes the p-quantile of sorted using linear interpolation
// between order statistics: pos = p*(n-1), lo = floor(pos), hi = ceil(pos),
// result = sorted[lo] + (pos-lo)*(sorted[hi]-sorted[lo]).
//
// Design decision: this routine is written out rather than delegated to a
// statistics library because quantile interpolation defaults vary across
// libraries. The linear method is pinned here so results never drift with
// a dependency's choice of method.
//
// sorted must be non-empty and ascending; p must be in [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Round2 rounds x to two decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
