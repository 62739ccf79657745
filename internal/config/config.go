package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Separator, encoding, and multiplier follow the common conventions for
// tabular data analysis; the rest are chosen for a CPU-bound local tool.
const (
	// DefaultSeparator is the field delimiter for delimited input files.
	DefaultSeparator = ","

	// DefaultEncoding is the assumed character encoding of input files.
	DefaultEncoding = "utf-8"

	// DefaultMultiplier is the conventional IQR multiplier. 1.5 flags
	// standard outliers; 3.0 flags only extreme ones.
	DefaultMultiplier = 1.5

	// DefaultBatchSize is the number of input files processed concurrently
	// when multiple files are given. Detection is CPU-bound, so a small
	// fixed number avoids oversubscription on typical machines.
	DefaultBatchSize = 4

	// DefaultParallelism is the number of columns analyzed concurrently
	// within one dataset. 1 keeps the run sequential, which is fastest for
	// the narrow tables this tool usually sees.
	DefaultParallelism = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "outlierscan"
)

// Config holds all options for a detection run.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// because the number of options is manageable, and nesting would add
// complexity without significant benefit.
type Config struct {
	// Targets is the list of input files to analyze.
	// Must contain at least one path.
	Targets []string

	// Separator is the field delimiter of delimited input files.
	// Must be exactly one character, e.g. "," or ";".
	Separator string

	// Encoding is the IANA name of the input character encoding.
	Encoding string

	// Multiplier is the IQR multiplier for outlier classification.
	// Must be finite and non-negative; zero is legal.
	Multiplier float64

	// NAValues are the cell contents treated as missing.
	// When nil the loader defaults are used.
	NAValues []string

	// Summary enables descriptive statistics in the report.
	Summary bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of input files processed concurrently.
	BatchSize int

	// Parallelism is the number of columns analyzed concurrently per file.
	Parallelism int

	// ProfilePath is the path to the YAML profile file.
	// If empty, the tool searches for .outlierscan in the current directory
	// and then in the user's home directory.
	ProfilePath string

	// Profile holds dataset-specific settings loaded from the profile file.
	Profile *File

	// JSONReport enables JSON report output.
	// Mutually exclusive with MarkdownReport and CSVReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport and CSVReport.
	MarkdownReport bool

	// CSVReport enables delimited report output.
	// Mutually exclusive with JSONReport and MarkdownReport.
	CSVReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for the run history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save reports to the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Separator:   DefaultSeparator,
		Encoding:    DefaultEncoding,
		Multiplier:  DefaultMultiplier,
		BatchSize:   DefaultBatchSize,
		Parallelism: DefaultParallelism,
	}
}

// XDGDataDir returns the XDG data directory for outlierscan.
// On Linux: ~/.local/share/outlierscan
// On macOS: ~/Library/Application Support/outlierscan
// On Windows: %LOCALAPPDATA%\outlierscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for outlierscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate once after CLI parsing, before any file is
// touched, to fail fast with a clear message. The first error found is
// returned because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// A multi-rune separator cannot be handed to encoding/csv
	if len([]rune(c.Separator)) != 1 {
		return ErrInvalidSeparator
	}

	// Negative multipliers would invert the bounds; the detector also
	// rejects them, but failing here gives a friendlier message.
	if c.Multiplier < 0 {
		return ErrInvalidMultiplier
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Parallelism <= 0 {
		return ErrInvalidParallelism
	}

	// Report formats are mutually exclusive
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}
