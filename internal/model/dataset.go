package model

import "math"

// Kind classifies a column as numeric or text.
// Classification is decided by the loader when the dataset is built;
// the detector only ever reads it.
type Kind int

const (
	// KindText marks a column whose values are treated as opaque strings.
	KindText Kind = iota

	// KindNumeric marks a column whose non-missing values all parsed as
	// float64. Only numeric columns participate in outlier detection.
	KindNumeric
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Column is a single named column of a Dataset.
//
// Numeric columns store their cells in Numbers, with NaN marking a missing
// cell. Text columns store their cells in Values. Both slices are indexed by
// row position, so the slice index is the stable row index the loader
// assigned to each row.
type Column struct {
	// Name is the column header as read from the source.
	Name string

	// Kind is the numeric/text classification of this column.
	Kind Kind

	// Numbers holds the cell values for numeric columns.
	// len(Numbers) equals the dataset row count. Missing cells are NaN.
	Numbers []float64

	// Values holds the cell values for text columns.
	// len(Values) equals the dataset row count.
	Values []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Numbers)
	}
	return len(c.Values)
}

// Dataset is an ordered, column-major table.
//
// Design decision: We store columns rather than rows because every operation
// in this tool (classification, quantiles, summaries) walks one column at a
// time. Row indices are implicit slice positions, which keeps them stable
// and unique for the dataset's lifetime without bookkeeping.
//
// Invariant: all columns have the same length, established by the loader.
// The dataset is read-only after construction; nothing downstream mutates it.
type Dataset struct {
	// Source is the path or name of the origin the dataset was loaded from.
	Source string

	// Columns holds all columns in source declaration order.
	// Report records follow this order.
	Columns []Column
}

// RowCount returns the number of rows in the dataset.
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// NumericColumns returns the numeric columns in declaration order.
func (d *Dataset) NumericColumns() []Column {
	var cols []Column
	for _, c := range d.Columns {
		if c.Kind == KindNumeric {
			cols = append(cols, c)
		}
	}
	return cols
}

// ColumnNames returns all column names in declaration order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// IsMissing reports whether v represents a missing numeric cell.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
