package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seodiff/seodiff/internal/model"
)

// SnapshotDB provides SQLite-based storage for crawl sessions and
// migration reports.
//
// Design decision: One database file holds every site rather than a
// file per site. This keeps cross-site queries (history, listing)
// simple and makes backup a single-file copy.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SnapshotDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned; the connection string uses mode=rw in that case
// so SQLite never creates the file as a side effect.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, "seodiff.db")

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

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SnapshotDB) createTables() error {
	schema := `
	-- Crawl sessions record one crawl of one site
	CREATE TABLE IF NOT EXISTS crawl_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		urls_json TEXT NOT NULL,
		page_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_base ON crawl_sessions(base_url);
	CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON crawl_sessions(timestamp);

	-- Pages store the rendered markup of each crawled page
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL REFERENCES crawl_sessions(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		html TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		UNIQUE(session_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);

	-- Migration reports store complete comparison results as JSON
	CREATE TABLE IF NOT EXISTS migration_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		old_domain TEXT NOT NULL,
		new_domain TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		change_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_domains ON migration_reports(old_domain, new_domain);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON migration_reports(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawlResult stores a crawl as a new session and returns its ID.
func (sdb *SnapshotDB) SaveCrawlResult(ctx context.Context, result *model.CrawlResult) (int64, error) {
	urlsJSON, err := json.Marshal(result.URLs)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize URLs: %w", err)
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO crawl_sessions (base_url, urls_json, page_count) VALUES (?, ?, ?)`,
		result.BaseURL, string(urlsJSON), len(result.Snapshots))
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl session: %w", err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}

	for pageURL, html := range result.Snapshots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pages (session_id, url, html, content_hash) VALUES (?, ?, ?, ?)`,
			sessionID, pageURL, html, model.HashContent(html)); err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", pageURL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl session: %w", err)
	}

	return sessionID, nil
}

// GetLatestCrawl retrieves the most recent crawl session for a base
// URL. Returns nil without error when the site has never been crawled.
func (sdb *SnapshotDB) GetLatestCrawl(ctx context.Context, baseURL string) (*model.CrawlResult, error) {
	var sessionID int64
	var urlsJSON string

	err := sdb.db.QueryRowContext(ctx,
		`SELECT id, urls_json FROM crawl_sessions WHERE base_url = ? ORDER BY timestamp DESC, id DESC LIMIT 1`,
		baseURL).Scan(&sessionID, &urlsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl session: %w", err)
	}

	result := &model.CrawlResult{
		BaseURL:   baseURL,
		Snapshots: make(map[string]string),
	}
	if err := json.Unmarshal([]byte(urlsJSON), &result.URLs); err != nil {
		return nil, fmt.Errorf("failed to parse session URLs: %w", err)
	}

	rows, err := sdb.db.QueryContext(ctx,
		`SELECT url, html FROM pages WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pageURL, html string
		if err := rows.Scan(&pageURL, &html); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		result.Snapshots[pageURL] = html
	}

	return result, rows.Err()
}

// SessionMetadata summarizes one stored crawl session.
type SessionMetadata struct {
	// ID is the session's database identifier.
	ID int64

	// BaseURL is the crawled site's base URL.
	BaseURL string

	// Timestamp is when the crawl was performed.
	Timestamp time.Time

	// PageCount is the number of pages stored for the session.
	PageCount int
}

// ListSessions returns metadata for all stored crawl sessions, newest
// first.
func (sdb *SnapshotDB) ListSessions(ctx context.Context) ([]SessionMetadata, error) {
	rows, err := sdb.db.QueryContext(ctx,
		`SELECT id, base_url, timestamp, page_count FROM crawl_sessions ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionMetadata
	for rows.Next() {
		var meta SessionMetadata
		var timestamp string
		if err := rows.Scan(&meta.ID, &meta.BaseURL, &timestamp, &meta.PageCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// SaveReport stores a migration report as JSON.
func (sdb *SnapshotDB) SaveReport(ctx context.Context, report *model.MigrationReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := map[string]int{
		"missingUrls":      report.Summary.MissingUrls,
		"newUrls":          report.Summary.NewUrls,
		"pagesWithChanges": report.Summary.PagesWithChanges,
		"totalChanges":     report.TotalChanges(),
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	_, err = sdb.db.ExecContext(ctx,
		`INSERT INTO migration_reports (old_domain, new_domain, report_json, change_summary) VALUES (?, ?, ?, ?)`,
		report.TestInfo.OldDomain,
		report.TestInfo.NewDomain,
		string(reportJSON),
		string(summaryJSON))
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// ReportMetadata summarizes one stored migration report.
type ReportMetadata struct {
	// ID is the report's database identifier.
	ID int64

	// OldDomain is the original site's base URL.
	OldDomain string

	// NewDomain is the migrated site's base URL.
	NewDomain string

	// Timestamp is when the comparison was performed.
	Timestamp time.Time

	// ChangeSummary holds headline counts without loading the full
	// report.
	ChangeSummary map[string]int
}

// ListReports returns metadata for stored reports, newest first.
// A non-positive limit returns all reports.
func (sdb *SnapshotDB) ListReports(ctx context.Context, limit int) ([]ReportMetadata, error) {
	query := `SELECT id, old_domain, new_domain, timestamp, change_summary
	FROM migration_reports ORDER BY timestamp DESC, id DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.OldDomain, &meta.NewDomain, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.ChangeSummary = make(map[string]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.ChangeSummary); err != nil {
				meta.ChangeSummary = make(map[string]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a migration report by its database ID.
// Returns nil without error when no report has that ID.
func (sdb *SnapshotDB) GetReportByID(ctx context.Context, id int64) (*model.MigrationReport, error) {
	var reportJSON string
	err := sdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM migration_reports WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.MigrationReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. Returns zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
