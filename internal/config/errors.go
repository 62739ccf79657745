package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no input file is specified.
	ErrNoTarget = errors.New("no input file specified: provide one or more data file paths")

	// ErrInvalidSeparator is returned when the separator is not exactly
	// one character.
	ErrInvalidSeparator = errors.New("invalid separator: must be a single character")

	// ErrInvalidMultiplier is returned when the IQR multiplier is negative.
	ErrInvalidMultiplier = errors.New("invalid multiplier: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidParallelism is returned when the per-file column
	// parallelism is not positive.
	ErrInvalidParallelism = errors.New("invalid parallelism: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown, and --csv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose at most one of --json, --markdown, --csv")
)
