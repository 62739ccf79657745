package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/wsantos08/outlierscan/internal/model"
)

// dbFileName is the SQLite file name inside the data directory.
const dbFileName = "outlierscan.db"

// HistoryDB provides SQLite-based storage for detection reports.
// It manages connection pooling and provides methods for saving, listing,
// and pruning past runs.
//
// Design decision: reports are stored as a JSON blob next to a handful of
// searchable metadata columns. The report structure is stable and reads vs
// queries are lopsided toward "fetch the whole thing", so normalizing the
// per-column records into their own table would buy nothing.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RunMetadata is a lightweight view of one stored run, used for listings.
type RunMetadata struct {
	// ID is the run's database identifier.
	ID int64 `json:"id"`

	// Source is the input file the run analyzed.
	Source string `json:"source"`

	// Multiplier is the IQR multiplier the run used.
	Multiplier float64 `json:"multiplier"`

	// RowCount is the number of rows in the analyzed dataset.
	RowCount int `json:"row_count"`

	// OutlierCount is the total number of outlier values found.
	OutlierCount int `json:"outlier_count"`

	// RecordCount is the number of columns that produced outliers.
	RecordCount int `json:"record_count"`

	// CreatedAt is when the run was saved.
	CreatedAt time.Time `json:"created_at"`
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the underlying database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one detection report each, as JSON plus search metadata
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		multiplier REAL NOT NULL,
		row_count INTEGER NOT NULL,
		outlier_count INTEGER NOT NULL,
		record_count INTEGER NOT NULL,
		report_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a detection report and returns its run ID.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.Report) (int64, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	result, err := hdb.db.ExecContext(ctx, `
		INSERT INTO runs (source, multiplier, row_count, outlier_count, record_count, report_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.Source,
		report.Multiplier,
		report.RowCount,
		report.TotalOutliers(),
		len(report.Records),
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	return id, nil
}

// GetReportByID retrieves a stored report by its run ID.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.Report, error) {
	var data string
	err := hdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM runs WHERE id = ?`, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %d: %w", id, err)
	}

	return unmarshalReport(data)
}

// GetLatestReport retrieves the most recent report for the given source.
func (hdb *HistoryDB) GetLatestReport(ctx context.Context, source string) (*model.Report, error) {
	var data string
	err := hdb.db.QueryRowContext(ctx, `
		SELECT report_json FROM runs
		WHERE source = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, source,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no runs recorded for %s", source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run for %s: %w", source, err)
	}

	return unmarshalReport(data)
}

// GetLatestReports retrieves the n most recent reports for the given source,
// newest first.
func (hdb *HistoryDB) GetLatestReports(ctx context.Context, source string, n int) ([]*model.Report, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT report_json FROM runs
		WHERE source = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, source, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for %s: %w", source, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var reports []*model.Report
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		report, err := unmarshalReport(data)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// ListRuns returns metadata for all runs of the given source, newest first.
func (hdb *HistoryDB) ListRuns(ctx context.Context, source string) ([]RunMetadata, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT id, source, multiplier, row_count, outlier_count, record_count, created_at
		FROM runs
		WHERE source = ?
		ORDER BY created_at DESC, id DESC`, source,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for %s: %w", source, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	return scanRunMetadata(rows)
}

// ListSources returns all distinct sources in the database, ordered by the
// time of their most recent run, newest first.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT source FROM runs
		GROUP BY source
		ORDER BY MAX(created_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, s)
	}

	return sources, rows.Err()
}

// DeleteRunsBefore removes all runs created before the given time and
// returns how many were deleted.
// The cutoff is rendered in SQLite's default datetime format so the text
// comparison against CURRENT_TIMESTAMP values is well defined.
func (hdb *HistoryDB) DeleteRunsBefore(ctx context.Context, t time.Time) (int64, error) {
	result, err := hdb.db.ExecContext(ctx,
		`DELETE FROM runs WHERE created_at < ?`, t.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}

	return result.RowsAffected()
}

// scanRunMetadata reads RunMetadata rows from a query cursor.
// created_at is scanned as text and parsed because SQLite returns
// CURRENT_TIMESTAMP defaults as strings.
func scanRunMetadata(rows *sql.Rows) ([]RunMetadata, error) {
	var runs []RunMetadata
	for rows.Next() {
		var m RunMetadata
		var createdAt string
		if err := rows.Scan(
			&m.ID, &m.Source, &m.Multiplier,
			&m.RowCount, &m.OutlierCount, &m.RecordCount, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}
		m.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, m)
	}

	return runs, rows.Err()
}

// sqliteTimeFormat is SQLite's default datetime text format.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	sqliteTimeFormat,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If no format matches, the zero time is returned.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// unmarshalReport decodes a stored report JSON blob.
func unmarshalReport(data string) (*model.Report, error) {
	var report model.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored report: %w", err)
	}
	return &report, nil
}
