package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wsantos08/outlierscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations serialize a detection report in one format.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or buffers with
// the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Writer interface is different from io.Writer -
// we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on the first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// formatIndices renders row indices as an ordered, human-readable sequence,
// e.g. "[3, 17, 42]". Every writer uses this form so index lists look the
// same regardless of output format.
func formatIndices(indices []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, idx := range indices {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	sb.WriteByte(']')
	return sb.String()
}

// formatFloat renders a float with two decimal places.
func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
