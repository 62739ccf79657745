package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/wsantos08/outlierscan/internal/model"
)

// csvHeader is the column layout of delimited report output.
var csvHeader = []string{
	"column",
	"outlier_count",
	"outlier_percentage",
	"lower_bound",
	"upper_bound",
	"indices",
}

// CSVWriter outputs reports as delimited text, one row per outlier record.
// This format is designed for spreadsheet import and further processing.
type CSVWriter struct {
	baseWriter

	// separator is the output field delimiter.
	separator rune
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithSeparator sets the output field delimiter. Default is a comma.
func WithSeparator(sep rune) CSVWriterOption {
	return func(w *CSVWriter) {
		if sep != 0 {
			w.separator = sep
		}
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		separator:  ',',
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as delimited text.
// Bounds and percentages are the rounded display values; index lists are
// rendered as "[3, 17, 42]" inside a single field.
func (w *CSVWriter) Write(report *model.Report) (int, error) {
	var buf bytes.Buffer

	cw := csv.NewWriter(&buf)
	cw.Comma = w.separator

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	for _, rec := range report.Records {
		row := []string{
			rec.Column,
			strconv.Itoa(rec.Count),
			formatFloat(rec.Percentage),
			formatFloat(rec.LowerBound),
			formatFloat(rec.UpperBound),
			formatIndices(rec.Indices),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
