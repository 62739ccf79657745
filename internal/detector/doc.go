// Package detector implements IQR-based outlier detection over a tabular
// dataset. Detection is a pure, stateless transform: it performs no I/O,
// never mutates its input, and returns identical reports for identical
// inputs.
package detector
