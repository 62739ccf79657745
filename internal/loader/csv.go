package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wsantos08/outlierscan/internal/model"
)

// CSVLoader reads delimited text files.
//
// Design decision: We decode through x/text rather than assuming UTF-8
// because real-world CSV exports are frequently Latin-1 or Windows-1252.
// Encoding names are resolved through the IANA index, so any registered
// name works.
type CSVLoader struct {
	opts Options
}

// NewCSVLoader creates a CSVLoader with the given options.
func NewCSVLoader(opts Options) *CSVLoader {
	if opts.Separator == 0 {
		opts.Separator = ','
	}
	if opts.Encoding == "" {
		opts.Encoding = "utf-8"
	}
	if len(opts.NAValues) == 0 {
		opts.NAValues = DefaultNAValues()
	}
	return &CSVLoader{opts: opts}
}

// Load reads the delimited file at path into a Dataset.
// The first record is the header; every following record is a data row
// whose index is its zero-based position below the header.
func (l *CSVLoader) Load(ctx context.Context, path string) (*model.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided data path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	decoded, err := decodeReader(f, l.opts.Encoding)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(decoded)
	r.Comma = l.opts.Separator
	r.FieldsPerRecord = -1 // ragged rows are padded with missing cells
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var records [][]string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		records = append(records, record)
	}

	return buildDataset(path, header, records, l.opts)
}

// decodeReader wraps r with a decoder for the named IANA encoding.
// UTF-8 input still goes through the decoder so a leading BOM is stripped.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if enc == unicode.UTF8 {
		enc = unicode.UTF8BOM
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
