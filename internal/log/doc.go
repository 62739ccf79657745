// Package log provides logging utilities built on top of the standard slog
// package.
//
// The TruncateHandler caps oversized attribute values before they reach the
// underlying handler. Detection reports can carry index lists with thousands
// of entries; logging one of those verbatim would flood the terminal, so
// long values are cut to a configurable length with an elision marker.
//
// # Usage
//
//	// Create a truncating logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("column analyzed",
//	    "column", "price",
//	    "indices", indices, // truncated if rendered too long
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
