package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsantos08/outlierscan/internal/config"
	"github.com/wsantos08/outlierscan/internal/database"
	"github.com/wsantos08/outlierscan/internal/model"
	"github.com/wsantos08/outlierscan/internal/report"
)

// pruneDateLayout is the date format accepted by --prune-before.
const pruneDateLayout = "2006-01-02"

// NewHistoryCmd creates the history command.
// This command inspects detection runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [data-file]",
		Short: "Inspect and compare past detection runs",
		Long: `History lists, shows, compares, and prunes detection runs saved by 'detect'.

Every detection run is stored in a local SQLite database (in the XDG data
directory) unless --no-save was used. This command retrieves that history.

Examples:
  # List runs recorded for a file
  outlierscan history --list data.csv

  # List all files with recorded runs
  outlierscan history --list-sources

  # Show a stored report by run ID (see --list for IDs)
  outlierscan history --show-run-id 5

  # Compare the latest two runs for a file
  outlierscan history --diff data.csv

  # Output in JSON
  outlierscan history --json --diff data.csv

  # Delete runs older than a date
  outlierscan history --prune-before 2026-01-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified data file")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List all data files with recorded runs")

	// Retrieval flags
	cmd.Flags().Int64P("show-run-id", "i", 0,
		"Show a stored report by run ID (use --list to see available IDs)")
	cmd.Flags().BoolP("diff", "d", false,
		"Compare the latest two runs for the specified data file")

	// Maintenance flags
	cmd.Flags().String("prune-before", "",
		"Delete runs created before this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}

	showRunID, err := cmd.Flags().GetInt64("show-run-id")
	if err != nil {
		return err
	}

	pruneBefore, err := cmd.Flags().GetString("prune-before")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Operations below need a source argument; validate before opening the
	// database so validation failures never touch the lock.
	needsSource := !listSources && showRunID == 0 && pruneBefore == ""
	var source string
	if needsSource {
		if len(args) == 0 {
			return errors.New("data file is required (use --list-sources to see recorded files)")
		}
		source = args[0]
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-mostly session

	ctx := context.Background()

	switch {
	case listSources:
		return listRecordedSources(ctx, db, asJSON)
	case pruneBefore != "":
		return pruneRuns(ctx, db, pruneBefore)
	case showRunID != 0:
		return showRun(ctx, db, showRunID, asJSON)
	}

	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	if diff {
		return diffLatestRuns(ctx, db, source, asJSON)
	}

	// --list is the default when only a source is given
	return listRuns(ctx, db, source, asJSON)
}

// listRecordedSources prints all sources with recorded runs.
func listRecordedSources(ctx context.Context, db *database.HistoryDB, asJSON bool) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(sources)
	}

	if len(sources) == 0 {
		fmt.Println("No runs recorded yet. Run 'outlierscan detect' first.")
		return nil
	}

	fmt.Printf("Recorded data files (%d):\n", len(sources))
	for _, s := range sources {
		fmt.Printf("  %s\n", s)
	}
	return nil
}

// listRuns prints the run history of one source.
func listRuns(ctx context.Context, db *database.HistoryDB, source string, asJSON bool) error {
	runs, err := db.ListRuns(ctx, source)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Printf("No runs recorded for %s\n", source)
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", source, len(runs))
	fmt.Printf("  %-6s %-20s %-10s %-8s %-9s %s\n",
		"ID", "DATE", "MULTIPLIER", "ROWS", "OUTLIERS", "COLUMNS")
	for _, r := range runs {
		fmt.Printf("  %-6d %-20s %-10g %-8d %-9d %d\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Multiplier,
			r.RowCount,
			r.OutlierCount,
			r.RecordCount,
		)
	}
	return nil
}

// showRun prints one stored report.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, asJSON bool) error {
	stored, err := db.GetReportByID(ctx, id)
	if err != nil {
		return err
	}

	var w report.Writer
	if asJSON {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	}

	_, err = w.Write(stored)
	return err
}

// pruneRuns deletes runs older than the given date.
func pruneRuns(ctx context.Context, db *database.HistoryDB, before string) error {
	t, err := time.ParseInLocation(pruneDateLayout, before, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --prune-before date %q (expected YYYY-MM-DD): %w", before, err)
	}

	n, err := db.DeleteRunsBefore(ctx, t)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d run(s) created before %s\n", n, before)
	return nil
}

// RunDiff describes the differences between two detection runs.
type RunDiff struct {
	// Source is the data file both runs analyzed.
	Source string `json:"source"`

	// OlderAt and NewerAt are the detection times of the compared runs.
	OlderAt time.Time `json:"older_at"`
	NewerAt time.Time `json:"newer_at"`

	// NewColumns lists columns that have outliers now but had none before.
	NewColumns []string `json:"new_columns,omitempty"`

	// ResolvedColumns lists columns that had outliers before but have none
	// now.
	ResolvedColumns []string `json:"resolved_columns,omitempty"`

	// Changes lists columns present in both runs with changed results.
	Changes []ColumnChange `json:"changes,omitempty"`
}

// ColumnChange describes how one column's outliers changed between runs.
type ColumnChange struct {
	// Column is the column name.
	Column string `json:"column"`

	// OldCount and NewCount are the outlier counts in each run.
	OldCount int `json:"old_count"`
	NewCount int `json:"new_count"`

	// OldBounds and NewBounds are the display bounds in each run.
	OldBounds [2]float64 `json:"old_bounds"`
	NewBounds [2]float64 `json:"new_bounds"`
}

// Unchanged reports whether the column produced identical results.
func (c *ColumnChange) Unchanged() bool {
	return c.OldCount == c.NewCount && c.OldBounds == c.NewBounds
}

// diffLatestRuns compares the latest two runs for a source.
func diffLatestRuns(ctx context.Context, db *database.HistoryDB, source string, asJSON bool) error {
	reports, err := db.GetLatestReports(ctx, source, 2)
	if err != nil {
		return err
	}
	if len(reports) < 2 {
		return fmt.Errorf("need at least two recorded runs for %s to compare (found %d)", source, len(reports))
	}

	// GetLatestReports returns newest first
	diff := computeDiff(reports[1], reports[0])

	if asJSON {
		return printJSON(diff)
	}

	printDiff(diff)
	return nil
}

// computeDiff builds a RunDiff between an older and a newer report.
func computeDiff(older, newer *model.Report) *RunDiff {
	diff := &RunDiff{
		Source:  newer.Source,
		OlderAt: older.DetectedAt,
		NewerAt: newer.DetectedAt,
	}

	for _, rec := range newer.Records {
		old := older.Record(rec.Column)
		if old == nil {
			diff.NewColumns = append(diff.NewColumns, rec.Column)
			continue
		}

		change := ColumnChange{
			Column:    rec.Column,
			OldCount:  old.Count,
			NewCount:  rec.Count,
			OldBounds: [2]float64{old.LowerBound, old.UpperBound},
			NewBounds: [2]float64{rec.LowerBound, rec.UpperBound},
		}
		if !change.Unchanged() {
			diff.Changes = append(diff.Changes, change)
		}
	}

	for _, rec := range older.Records {
		if newer.Record(rec.Column) == nil {
			diff.ResolvedColumns = append(diff.ResolvedColumns, rec.Column)
		}
	}

	return diff
}

// printDiff prints a RunDiff in human-readable form.
func printDiff(diff *RunDiff) {
	fmt.Printf("Comparing runs for %s\n", diff.Source)
	fmt.Printf("  older: %s\n", diff.OlderAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  newer: %s\n\n", diff.NewerAt.Local().Format("2006-01-02 15:04:05"))

	if len(diff.NewColumns) == 0 && len(diff.ResolvedColumns) == 0 && len(diff.Changes) == 0 {
		fmt.Println("No differences: both runs produced identical outlier results.")
		return
	}

	if len(diff.NewColumns) > 0 {
		fmt.Println("Columns with new outliers:")
		for _, c := range diff.NewColumns {
			fmt.Printf("  [+] %s\n", c)
		}
		fmt.Println()
	}

	if len(diff.ResolvedColumns) > 0 {
		fmt.Println("Columns no longer producing outliers:")
		for _, c := range diff.ResolvedColumns {
			fmt.Printf("  [-] %s\n", c)
		}
		fmt.Println()
	}

	if len(diff.Changes) > 0 {
		fmt.Println("Changed columns:")
		for _, ch := range diff.Changes {
			fmt.Printf("  [~] %s: count %d -> %d, bounds [%.2f, %.2f] -> [%.2f, %.2f]\n",
				ch.Column, ch.OldCount, ch.NewCount,
				ch.OldBounds[0], ch.OldBounds[1],
				ch.NewBounds[0], ch.NewBounds[1],
			)
		}
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
