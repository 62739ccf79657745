package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/wsantos08/outlierscan/internal/model"
)

// maxInlineIndices caps how many row indices the non-verbose simple report
// prints per column before truncating.
const maxInlineIndices = 20

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to files
// or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose prints complete index lists instead of truncated ones.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables full index lists in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeRecords(&sb, report)
	w.writeSummaries(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      OUTLIER DETECTION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:          %s\n", report.Source))
	sb.WriteString(fmt.Sprintf("Detected At:     %s\n", report.DetectedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("IQR Multiplier:  %g\n", report.Multiplier))
	sb.WriteString(fmt.Sprintf("Rows:            %d\n", report.RowCount))
	sb.WriteString(fmt.Sprintf("Columns:         %d (%d numeric)\n",
		report.ColumnCount, report.NumericColumnCount))
	sb.WriteString("\n")
}

// writeRecords writes one section per column with outliers.
func (w *SimpleWriter) writeRecords(sb *strings.Builder, report *model.Report) {
	if !report.HasOutliers() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("OUTLIERS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !report.HasOutliers() {
		sb.WriteString("  No outliers detected in any numeric column.\n\n")
		return
	}

	for _, rec := range report.Records {
		sb.WriteString(fmt.Sprintf("  [%s]\n", rec.Column))
		sb.WriteString(fmt.Sprintf("    Outliers:   %d (%.2f%% of rows)\n", rec.Count, rec.Percentage))
		sb.WriteString(fmt.Sprintf("    Bounds:     %.2f .. %.2f\n", rec.LowerBound, rec.UpperBound))
		sb.WriteString(fmt.Sprintf("    Row Index:  %s\n", w.indexList(rec.Indices)))
		sb.WriteString("\n")
	}
}

// indexList renders the row indices, truncated unless verbose.
func (w *SimpleWriter) indexList(indices []int) string {
	if w.verbose || len(indices) <= maxInlineIndices {
		return formatIndices(indices)
	}

	shown := formatIndices(indices[:maxInlineIndices])
	return fmt.Sprintf("%s (+%d more, use --verbose for the full list)",
		shown, len(indices)-maxInlineIndices)
}

// writeSummaries writes the descriptive statistics section when present.
func (w *SimpleWriter) writeSummaries(sb *strings.Builder, report *model.Report) {
	if len(report.Summaries) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COLUMN SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, s := range report.Summaries {
		sb.WriteString(fmt.Sprintf("  [%s]\n", s.Column))
		sb.WriteString(fmt.Sprintf("    count=%d mean=%.4f median=%.4f std=%.4f\n",
			s.Count, s.Mean, s.Median, s.StdDev))
		sb.WriteString(fmt.Sprintf("    min=%.4f q1=%.4f q3=%.4f max=%.4f\n",
			s.Min, s.Q1, s.Q3, s.Max))
		sb.WriteString("\n")
	}
}

// writeFooter writes the closing totals line.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total: %d outlier value(s) across %d column(s)\n",
		report.TotalOutliers(), len(report.Records)))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
