package loader

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wsantos08/outlierscan/internal/model"
)

// Loader reads a tabular source into a Dataset.
//
// Design decision: We use an interface so the CLI can dispatch on file
// format while the detection path stays format-agnostic. Implementations
// must return either a fully valid dataset (equal-length columns, numeric
// classification done) or an error — never a partial table.
type Loader interface {
	// Load reads the source at path into a Dataset.
	Load(ctx context.Context, path string) (*model.Dataset, error)
}

// DefaultNAValues are the cell contents treated as missing by default.
// The set matches the tokens pandas recognizes, so files prepared for
// pandas pipelines load the same way here.
func DefaultNAValues() []string {
	return []string{"", "NA", "N/A", "na", "n/a", "null", "NULL", "NaN", "nan"}
}

// Options holds settings shared by all loaders.
type Options struct {
	// Separator is the field delimiter for delimited text files.
	// Ignored by the Excel loader.
	Separator rune

	// Encoding is the IANA name of the source character encoding
	// (for example "utf-8", "iso-8859-1", "windows-1252").
	// Ignored by the Excel loader, which is always internally encoded.
	Encoding string

	// NAValues are the cell contents treated as missing.
	// Matching is exact after trimming surrounding whitespace.
	NAValues []string
}

// DefaultOptions returns the standard loader options: comma-separated,
// UTF-8, pandas-style NA tokens.
func DefaultOptions() Options {
	return Options{
		Separator: ',',
		Encoding:  "utf-8",
		NAValues:  DefaultNAValues(),
	}
}

// ForPath returns the loader responsible for the given file path, chosen by
// extension. Delimited text (.csv, .tsv, .txt) uses the CSV loader; Excel
// workbooks (.xlsx, .xlsm) use the Excel loader.
func ForPath(path string, opts Options) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return NewCSVLoader(opts), nil
	case ".tsv":
		tsv := opts
		tsv.Separator = '\t'
		return NewCSVLoader(tsv), nil
	case ".xlsx", ".xlsm":
		return NewExcelLoader(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// buildDataset turns a header row plus raw string records into a classified
// Dataset. Columns are classified numeric iff they contain at least one
// non-missing cell and every non-missing cell parses as a float; missing
// cells in numeric columns become NaN.
func buildDataset(source string, header []string, records [][]string, opts Options) (*model.Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, source)
	}

	na := make(map[string]bool, len(opts.NAValues))
	for _, v := range opts.NAValues {
		na[v] = true
	}

	ds := &model.Dataset{
		Source:  source,
		Columns: make([]model.Column, len(header)),
	}

	for colIdx, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", colIdx+1)
		}

		raw := make([]string, len(records))
		numbers := make([]float64, len(records))
		numeric := true
		nonMissing := 0

		for rowIdx, record := range records {
			var cell string
			if colIdx < len(record) {
				cell = strings.TrimSpace(record[colIdx])
			}
			raw[rowIdx] = cell

			if na[cell] {
				numbers[rowIdx] = math.NaN()
				continue
			}
			nonMissing++

			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				numeric = false
				continue
			}
			numbers[rowIdx] = v
		}

		col := model.Column{Name: name}
		if numeric && nonMissing > 0 {
			col.Kind = model.KindNumeric
			col.Numbers = numbers
		} else {
			col.Kind = model.KindText
			col.Values = raw
		}
		ds.Columns[colIdx] = col
	}

	return ds, nil
}
