package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wsantos08/outlierscan/internal/config"
	"github.com/wsantos08/outlierscan/internal/database"
	"github.com/wsantos08/outlierscan/internal/detector"
	"github.com/wsantos08/outlierscan/internal/loader"
	"github.com/wsantos08/outlierscan/internal/log"
	"github.com/wsantos08/outlierscan/internal/model"
	"github.com/wsantos08/outlierscan/internal/report"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [data-file...]",
		Short: "Detect outliers in one or more tabular data files",
		Long: `Detect loads tabular data and flags per-column outliers with the IQR method.

A value is an outlier when it lies strictly below q1 - multiplier*iqr or
strictly above q3 + multiplier*iqr, where q1 and q3 are the 25th and 75th
percentiles of the column. Only numeric columns are analyzed; a column
counts as numeric when every non-missing cell parses as a number.

Examples:
  # Detect outliers in a CSV file
  outlierscan detect data.csv

  # Semicolon-separated Latin-1 file, extreme outliers only
  outlierscan detect --sep ';' --encoding iso-8859-1 --multiplier 3.0 data.csv

  # Excel workbook with descriptive statistics
  outlierscan detect --summary data.xlsx

  # Write the report as CSV to a file
  outlierscan detect --csv -o results.csv data.csv

  # Analyze several files concurrently
  outlierscan detect -b 8 q1.csv q2.csv q3.csv q4.csv

  # Use a profile file with per-dataset settings
  outlierscan detect -c myprofile.yaml data.csv

Profile file (.outlierscan) example:
  defaults:
    multiplier: 1.5
  datasets:
    sales.csv:
      separator: ";"
      encoding: "iso-8859-1"
      excludeColumns: [id, year]`,
		Args: cobra.ArbitraryArgs,
		RunE: runDetectCmd,
	}

	// Input flags
	cmd.Flags().StringP("sep", "s", config.DefaultSeparator,
		"Field separator of the input file(s)")
	cmd.Flags().StringP("encoding", "e", config.DefaultEncoding,
		"Character encoding of the input file(s), by IANA name")
	cmd.Flags().StringSlice("na-values", nil,
		"Cell contents treated as missing (default: empty, NA, N/A, null, NaN)")

	// Detection flags
	cmd.Flags().Float64P("multiplier", "m", config.DefaultMultiplier,
		"IQR multiplier (1.5 for standard outliers, 3.0 for extreme)")
	cmd.Flags().BoolP("summary", "S", false,
		"Include descriptive statistics per numeric column")
	cmd.Flags().IntP("parallelism", "p", config.DefaultParallelism,
		"Number of columns analyzed concurrently per file")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files analyzed concurrently")

	// Profile file
	cmd.Flags().StringP("config", "c", "",
		"Profile file path (default: .outlierscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().Bool("csv", false,
		"Output delimited report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not save the report to the run history database")

	return cmd
}

// runDetectCmd executes the detect command.
func runDetectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runDetect(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Separator, err = cmd.Flags().GetString("sep")
	if err != nil {
		return nil, err
	}

	cfg.Encoding, err = cmd.Flags().GetString("encoding")
	if err != nil {
		return nil, err
	}

	cfg.NAValues, err = cmd.Flags().GetStringSlice("na-values")
	if err != nil {
		return nil, err
	}

	cfg.Multiplier, err = cmd.Flags().GetFloat64("multiplier")
	if err != nil {
		return nil, err
	}

	cfg.Summary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.Parallelism, err = cmd.Flags().GetInt("parallelism")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ProfilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load dataset profiles from the profile file.
	// If the user explicitly specified a profile path, error if not found.
	// If no path was specified, silently use an empty profile.
	explicitProfilePath := cfg.ProfilePath != ""
	profilePath := config.FindProfileFile(cfg.ProfilePath)

	if profilePath != "" {
		cfg.Profile, err = config.LoadProfileFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", profilePath, err)
		}
	} else if explicitProfilePath {
		return nil, fmt.Errorf("profile file not found: %s", cfg.ProfilePath)
	} else {
		cfg.Profile = &config.File{
			Datasets: make(map[string]config.DatasetProfile),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the input files
	cfg.Targets = args

	return cfg, nil
}

// runDetect executes the detection over all targets.
func runDetect(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting detection",
		"targets", cfg.Targets,
		"multiplier", cfg.Multiplier,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best effort close on exit
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchDetect(ctx, cfg, db, logger)
	}

	return runSequentialDetect(ctx, cfg, db, logger)
}

// runSequentialDetect analyzes targets one at a time.
func runSequentialDetect(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	var failed int
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := analyzeOne(ctx, cfg, target, logger)
		if err != nil {
			logger.Error("detection failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Detection error for %s: %v\n", target, err)
			failed++
			continue
		}

		if err := emitReport(ctx, cfg, result, db, logger); err != nil {
			return err
		}
	}

	if failed == len(cfg.Targets) {
		return fmt.Errorf("all %d target(s) failed", failed)
	}
	return nil
}

// runBatchDetect analyzes multiple targets concurrently.
// Analysis runs in parallel; reports are written and saved under a mutex so
// output never interleaves.
func runBatchDetect(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	fmt.Printf("Analyzing %d files (concurrency: %d)...\n\n", len(cfg.Targets), cfg.BatchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BatchSize)

	var mu sync.Mutex
	var failed int

	for _, target := range cfg.Targets {
		g.Go(func() error {
			result, err := analyzeOne(gctx, cfg, target, logger)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("detection failed", "target", target, "error", err)
				fmt.Fprintf(os.Stderr, "Detection error for %s: %v\n", target, err)
				failed++
				return nil
			}
			return emitReport(gctx, cfg, result, db, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if failed == len(cfg.Targets) {
		return fmt.Errorf("all %d target(s) failed", failed)
	}
	return nil
}

// analyzeOne loads one target and runs detection on it.
func analyzeOne(ctx context.Context, cfg *config.Config, target string, logger *slog.Logger) (*model.Report, error) {
	profile := cfg.Profile.ProfileFor(target, filepath.Base(target))

	opts := loader.Options{
		Separator: separatorRune(cfg.Separator, profile.Separator),
		Encoding:  cfg.Encoding,
		NAValues:  cfg.NAValues,
	}
	if profile.Encoding != "" {
		opts.Encoding = profile.Encoding
	}
	if len(profile.NAValues) > 0 {
		opts.NAValues = profile.NAValues
	}

	l, err := loader.ForPath(target, opts)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	ds, err := l.Load(ctx, target)
	if err != nil {
		return nil, err
	}

	logger.Debug("dataset loaded",
		"target", target,
		"rows", ds.RowCount(),
		"columns", len(ds.Columns),
	)

	filterColumns(ds, profile)

	multiplier := cfg.Multiplier
	if profile.Multiplier != nil {
		multiplier = *profile.Multiplier
	}

	detectOpts := []detector.Option{detector.WithParallelism(cfg.Parallelism)}
	if cfg.Summary {
		detectOpts = append(detectOpts, detector.WithSummaries())
	}

	result, err := detector.Detect(ds, multiplier, detectOpts...)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(startTime)
	logger.Debug("detection completed",
		"target", target,
		"records", len(result.Records),
		"elapsed", elapsed.Round(time.Millisecond),
	)

	if result.NumericColumnCount == 0 {
		logger.Warn("no numeric columns found", "target", target)
	}

	return result, nil
}

// emitReport writes the report in the requested format and saves it to the
// history database.
func emitReport(ctx context.Context, cfg *config.Config, result *model.Report, db *database.HistoryDB, logger *slog.Logger) error {
	if err := outputReport(cfg, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return saveReport(ctx, db, result, logger)
}

// separatorRune resolves the effective separator, profile override first.
func separatorRune(global, override string) rune {
	s := global
	if override != "" {
		s = override
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return ','
	}
	return runes[0]
}

// filterColumns applies the profile's include/exclude column filters.
// Filtering happens before detection so the detector only ever sees the
// columns the user asked about.
func filterColumns(ds *model.Dataset, profile config.DatasetProfile) {
	if len(profile.IncludeColumns) == 0 && len(profile.ExcludeColumns) == 0 {
		return
	}

	kept := ds.Columns[:0]
	for _, col := range ds.Columns {
		if len(profile.IncludeColumns) > 0 && !slices.Contains(profile.IncludeColumns, col.Name) {
			continue
		}
		if slices.Contains(profile.ExcludeColumns, col.Name) {
			continue
		}
		kept = append(kept, col)
	}
	ds.Columns = kept
}

// outputReport writes the report in the requested format.
func outputReport(cfg *config.Config, result *model.Report) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Write error surfaces from the writer
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		w = report.NewCSVWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(result)
	return err
}

// saveReport saves the report to the history database if enabled.
// If db is nil, this function is a no-op.
func saveReport(ctx context.Context, db *database.HistoryDB, result *model.Report, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveReport(ctx, result)
	if err != nil {
		// A failed save must not look like a failed detection
		if !errors.Is(err, context.Canceled) {
			logger.Error("failed to save report", "target", result.Source, "error", err)
		}
		return nil
	}

	logger.Info("report saved to history", "target", result.Source, "runID", id)
	return nil
}
