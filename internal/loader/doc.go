// Package loader reads tabular data sources into model.Dataset values.
// It supports delimited text files (CSV/TSV, any IANA character encoding)
// and Excel workbooks, and classifies every column as numeric or text while
// loading. The detector never sees a malformed source: the loader either
// returns a valid dataset or an error.
package loader
