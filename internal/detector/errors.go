package detector

import "errors"

// Detection errors.
//
// Design decision: We use package-level sentinel errors so callers can
// distinguish the two fatal input conditions with errors.Is. A dataset with
// no numeric columns is deliberately NOT an error: it is a legitimate empty
// result that callers may log as a warning.
var (
	// ErrEmptyDataset is returned when the dataset has zero rows.
	// Quantiles are undefined over an empty sample.
	ErrEmptyDataset = errors.New("dataset has no rows")

	// ErrInvalidMultiplier is returned when the IQR multiplier is negative,
	// NaN, or infinite. A multiplier of zero is legal and degenerates to
	// flagging any value outside [q1, q3].
	ErrInvalidMultiplier = errors.New("invalid multiplier: must be a finite non-negative number")
)
