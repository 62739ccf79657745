package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/wsantos08/outlierscan/internal/model"
)

// ExcelLoader reads .xlsx/.xlsm workbooks via excelize.
// Only the first sheet is read; the first row is the header.
type ExcelLoader struct {
	opts Options
}

// NewExcelLoader creates an ExcelLoader with the given options.
// Separator and Encoding are ignored for workbooks.
func NewExcelLoader(opts Options) *ExcelLoader {
	if len(opts.NAValues) == 0 {
		opts.NAValues = DefaultNAValues()
	}
	return &ExcelLoader{opts: opts}
}

// Load reads the workbook at path into a Dataset.
func (l *ExcelLoader) Load(ctx context.Context, path string) (*model.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only workbook

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrEmptySource, path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, path)
	}

	return buildDataset(path, rows[0], rows[1:], l.opts)
}
