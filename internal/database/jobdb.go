package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Job kinds recorded in the history.
const (
	// KindScrape marks a single-page scrape.
	KindScrape = "scrape"

	// KindCrawl marks a multi-page crawl job.
	KindCrawl = "crawl"
)

// ErrJobNotFound is returned when a job ID has no record in the local
// history. The job may still exist server-side; the local database only
// knows about jobs started from this machine.
var ErrJobNotFound = errors.New("job not found in local history")

// JobRecord is one row of the local job history.
type JobRecord struct {
	// ID is the local auto-increment row ID.
	ID int64

	// JobID is the server-assigned job identifier. Empty for scrapes,
	// which have no server-side job.
	JobID string

	// URL is the target URL the job was started with.
	URL string

	// Kind is KindScrape or KindCrawl.
	Kind string

	// Status is the last status observed for the job. For scrapes this
	// is a terminal value written once; for crawls it is updated as the
	// CLI observes the job.
	Status string

	// Pages is the number of documents in the result, when known.
	Pages int

	// Error is the failure message, when the job did not complete.
	Error string

	// CreatedAt is when the job was recorded locally.
	CreatedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}

// JobDB provides SQLite-backed storage for the job history.
// It manages connection pooling and provides CRUD operations for job
// records.
type JobDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures JobDB behavior.
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

// Open opens or creates a JobDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*JobDB, error) {
	dbPath := filepath.Join(dbDir, "firecrawl.db")

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

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	// SQLite supports only one writer; multiple readers don't help a CLI
	// that runs one command at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	jdb := &JobDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := jdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return jdb, nil
}

// Close closes the database connection.
func (jdb *JobDB) Close() error {
	return jdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (jdb *JobDB) createTables() error {
	schema := `
	-- Jobs record every scrape/crawl started from this machine
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_job_id ON jobs(job_id);
	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	`

	_, err := jdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertJob records a new job and returns its local row ID.
func (jdb *JobDB) InsertJob(ctx context.Context, record *JobRecord) (int64, error) {
	result, err := jdb.db.ExecContext(ctx,
		`INSERT INTO jobs (job_id, url, kind, status, pages, error) VALUES (?, ?, ?, ?, ?, ?)`,
		record.JobID, record.URL, record.Kind, record.Status, record.Pages, record.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted job id: %w", err)
	}
	return id, nil
}

// UpdateJobStatus updates the status, page count, and error message of
// the most recent record for the given server job ID. It returns
// ErrJobNotFound when the ID was never recorded locally.
func (jdb *JobDB) UpdateJobStatus(ctx context.Context, jobID, status string, pages int, errMsg string) error {
	result, err := jdb.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, pages = ?, error = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = (SELECT id FROM jobs WHERE job_id = ? ORDER BY created_at DESC, id DESC LIMIT 1)`,
		status, pages, errMsg, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// GetJob returns the most recent record for the given server job ID.
func (jdb *JobDB) GetJob(ctx context.Context, jobID string) (*JobRecord, error) {
	row := jdb.db.QueryRowContext(ctx,
		`SELECT id, job_id, url, kind, status, pages, error, created_at, updated_at
		 FROM jobs WHERE job_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		jobID,
	)

	record, err := scanJobRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return record, nil
}

// ListJobs returns the most recent records, newest first.
// A non-positive limit returns all records.
func (jdb *JobDB) ListJobs(ctx context.Context, limit int) ([]JobRecord, error) {
	query := `SELECT id, job_id, url, kind, status, pages, error, created_at, updated_at
	          FROM jobs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := jdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var records []JobRecord
	for rows.Next() {
		record, err := scanJobRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", err)
	}
	return records, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanJobRecord reads one jobs row into a JobRecord.
func scanJobRecord(s scanner) (*JobRecord, error) {
	var record JobRecord
	var createdAt, updatedAt string

	if err := s.Scan(
		&record.ID, &record.JobID, &record.URL, &record.Kind,
		&record.Status, &record.Pages, &record.Error,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	record.CreatedAt = parseTimestamp(createdAt)
	record.UpdatedAt = parseTimestamp(updatedAt)
	return &record, nil
}

// parseTimestamp parses SQLite's CURRENT_TIMESTAMP format.
// Returns the zero time when the value doesn't parse; callers treat that
// as "unknown" rather than failing the whole query.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
