package loader

import "errors"

// Loader errors.
// Parse failures are wrapped with row/column context via fmt.Errorf("%w")
// so callers can still match these sentinels with errors.Is.
var (
	// ErrSourceNotFound is returned when the source file does not exist.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrEmptySource is returned when the source has no header row or no
	// data rows. A header-only file is empty: quantiles need data.
	ErrEmptySource = errors.New("source contains no data")

	// ErrUnsupportedFormat is returned when the file extension does not map
	// to a known loader.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnknownEncoding is returned when the configured character encoding
	// name is not a recognized IANA encoding.
	ErrUnknownEncoding = errors.New("unknown character encoding")
)
