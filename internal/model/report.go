package model

import "time"

// OutlierRecord describes the outliers found in one numeric column.
// Records are only emitted for columns with at least one outlier; a column
// with none is omitted from the report entirely.
//
// Design decision: the record carries both raw and rounded bounds. The raw
// bounds are what classification compared against; the rounded bounds are
// what every writer displays. Collapsing them into one rounded pair would
// silently reclassify borderline values, so the raw pair is kept but
// excluded from JSON output.
type OutlierRecord struct {
	// Column is the name of the column the outliers belong to.
	Column string `json:"column"`

	// Count is the number of outlier values in the column.
	Count int `json:"outlier_count"`

	// Percentage is Count relative to the total dataset row count,
	// in percent, rounded half away from zero to two decimal places.
	Percentage float64 `json:"outlier_percentage"`

	// LowerBound is q1 - multiplier*iqr rounded to two decimal places.
	LowerBound float64 `json:"lower_bound"`

	// UpperBound is q3 + multiplier*iqr rounded to two decimal places.
	UpperBound float64 `json:"upper_bound"`

	// RawLowerBound is the unrounded lower bound used for classification.
	RawLowerBound float64 `json:"-"`

	// RawUpperBound is the unrounded upper bound used for classification.
	RawUpperBound float64 `json:"-"`

	// Indices are the row indices of the outlier values, ascending,
	// in the dataset's original row order.
	Indices []int `json:"indices"`
}

// ColumnSummary holds descriptive statistics for one numeric column.
// Summaries are optional and supplement the outlier records when the
// user asks for them.
type ColumnSummary struct {
	// Column is the column name.
	Column string `json:"column"`

	// Count is the number of non-missing values.
	Count int `json:"count"`

	// Mean is the arithmetic mean of the non-missing values.
	Mean float64 `json:"mean"`

	// Median is the 50th percentile.
	Median float64 `json:"median"`

	// StdDev is the sample standard deviation.
	StdDev float64 `json:"std_dev"`

	// Min is the smallest non-missing value.
	Min float64 `json:"min"`

	// Max is the largest non-missing value.
	Max float64 `json:"max"`

	// Q1 is the 25th percentile (linear interpolation).
	Q1 float64 `json:"q1"`

	// Q3 is the 75th percentile (linear interpolation).
	Q3 float64 `json:"q3"`
}

// Report is the full result of one detection run.
// Records appear in the dataset's column declaration order, never sorted
// by name or severity. The report is owned by the caller after Detect
// returns and is immutable from the detector's point of view.
type Report struct {
	// Source is the dataset origin (file path) the report was computed from.
	Source string `json:"source"`

	// Multiplier is the IQR multiplier the detection ran with.
	Multiplier float64 `json:"multiplier"`

	// RowCount is the total number of rows in the dataset.
	RowCount int `json:"row_count"`

	// ColumnCount is the total number of columns in the dataset.
	ColumnCount int `json:"column_count"`

	// NumericColumnCount is the number of columns classified numeric.
	NumericColumnCount int `json:"numeric_column_count"`

	// DetectedAt is when the detection was performed.
	DetectedAt time.Time `json:"detected_at"`

	// Records holds one entry per numeric column with outliers.
	Records []OutlierRecord `json:"records,omitempty"`

	// Summaries holds optional descriptive statistics per numeric column.
	// Populated only when summary output was requested.
	Summaries []ColumnSummary `json:"summaries,omitempty"`
}

// TotalOutliers returns the number of outlier values across all records.
func (r *Report) TotalOutliers() int {
	var total int
	for _, rec := range r.Records {
		total += rec.Count
	}
	return total
}

// HasOutliers reports whether any column produced outliers.
func (r *Report) HasOutliers() bool {
	return len(r.Records) > 0
}

// Record returns the record for the named column, or nil if the column
// produced no outliers.
func (r *Report) Record(column string) *OutlierRecord {
	for i := range r.Records {
		if r.Records[i].Column == column {
			return &r.Records[i]
		}
	}
	return nil
}
