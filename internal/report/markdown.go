package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/wsantos08/outlierscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe tables and lists, GitHub-flavored alerts, and
// mermaid chart support.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeRecords(md, report)
	w.writeSummaries(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Outlier Detection Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + report.Source + "`"},
			{"Detected At", report.DetectedAt.Format("2006-01-02 15:04:05 MST")},
			{"IQR Multiplier", strconv.FormatFloat(report.Multiplier, 'g', -1, 64)},
			{"Rows", strconv.Itoa(report.RowCount)},
			{"Numeric Columns", strconv.Itoa(report.NumericColumnCount)},
			{"Total Outliers", strconv.Itoa(report.TotalOutliers())},
		},
	})
	md.PlainText("")

	w.writeAlert(md, report)
}

// writeAlert writes an alert block keyed to the worst outlier percentage.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	var worst float64
	for _, rec := range report.Records {
		if rec.Percentage > worst {
			worst = rec.Percentage
		}
	}

	switch {
	case worst >= 10:
		md.Warningf(
			"At least one column has %.2f%% outliers. Verify the data source before downstream analysis.",
			worst,
		)
	case worst > 0:
		md.Notef("Outliers detected in %d column(s).", len(report.Records))
	default:
		md.Tip("No outliers detected in any numeric column.")
	}
	md.PlainText("")
}

// writeRecords writes the outlier record table and distribution chart.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, report *model.Report) {
	md.H2("Outliers by Column")
	md.PlainText("")

	if !report.HasOutliers() {
		md.PlainText("No numeric column produced outliers.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Records))
	for _, rec := range report.Records {
		rows = append(rows, []string{
			"`" + rec.Column + "`",
			strconv.Itoa(rec.Count),
			formatFloat(rec.Percentage),
			formatFloat(rec.LowerBound),
			formatFloat(rec.UpperBound),
			formatIndices(rec.Indices),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Column", "Count", "% of Rows", "Lower Bound", "Upper Bound", "Row Indices"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.Records) > 1 {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart of outlier counts per column.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outlier Distribution by Column"),
		piechart.WithShowData(true),
	)

	for _, rec := range report.Records {
		chart.LabelAndIntValue(rec.Column, uint64(rec.Count)) //nolint:gosec // counts are non-negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSummaries writes the descriptive statistics table when present.
func (w *MarkdownWriter) writeSummaries(md *markdown.Markdown, report *model.Report) {
	if len(report.Summaries) == 0 {
		return
	}

	md.H2("Column Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		rows = append(rows, []string{
			"`" + s.Column + "`",
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.Mean, 'f', 4, 64),
			strconv.FormatFloat(s.Median, 'f', 4, 64),
			strconv.FormatFloat(s.StdDev, 'f', 4, 64),
			strconv.FormatFloat(s.Min, 'f', 4, 64),
			strconv.FormatFloat(s.Max, 'f', 4, 64),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Column", "Count", "Mean", "Median", "Std Dev", "Min", "Max"},
		Rows:   rows,
	})
	md.PlainText("")
}
