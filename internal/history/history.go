// Package history persists terminal job outcomes to sqlite. The live job
// registry is memory-only; history is what survives a restart and feeds the
// stats endpoint.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // load SQLite driver
)

// ErrDatabase is returned for any database related error.
var ErrDatabase = errors.New("history database error")

func dbErr(s any) error {
	return fmt.Errorf("%w: %v", ErrDatabase, s)
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	id TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	format TEXT NOT NULL,
	status TEXT NOT NULL,
	failure_reason TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);`

// Entry is one finished job.
type Entry struct {
	ID            string
	SourceURL     string
	Format        string
	Status        string
	FailureReason string
	Duration      time.Duration
	SizeBytes     int64
	CreatedAt     time.Time
	FinishedAt    time.Time
}

// Stats aggregates the recorded downloads.
type Stats struct {
	TotalDownloads  int64   `json:"totalDownloads"`
	TotalErrors     int64   `json:"totalErrors"`
	ErrorRate       float64 `json:"errorRate"`
	AvgDurationMs   float64 `json:"averageDurationMs"`
	AvgSizeBytes    float64 `json:"averageFileSize"`
	TotalSizeBytes  int64   `json:"totalBytes"`
	OldestRecordUTC string  `json:"oldestRecord,omitempty"`
}

// Recorder wraps the sqlite connection.
type Recorder struct {
	conn *sql.DB
}

// Open initializes the history database at path, creating the schema when
// missing.
func Open(path string) (*Recorder, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, dbErr(err)
	}
	if _, err := conn.Exec(schema); err != nil {
		return nil, dbErr(err)
	}
	return &Recorder{conn: conn}, nil
}

// Close the database connection.
func (r *Recorder) Close() error {
	return r.conn.Close()
}

// Record inserts one finished job. A duplicate id overwrites the previous
// row; ids are UUIDs so that only happens in tests.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	const q = `INSERT OR REPLACE INTO downloads
		(id, source_url, format, status, failure_reason, duration_ms, size_bytes, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, q,
		e.ID, e.SourceURL, e.Format, e.Status, e.FailureReason,
		e.Duration.Milliseconds(), e.SizeBytes, e.CreatedAt, e.FinishedAt,
	)
	if err != nil {
		return dbErr(err)
	}
	return nil
}

// Stats computes aggregate figures over every recorded download.
func (r *Recorder) Stats(ctx context.Context) (Stats, error) {
	const q = `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(duration_ms), 0),
		COALESCE(AVG(size_bytes), 0),
		COALESCE(SUM(size_bytes), 0)
		FROM downloads`
	var s Stats
	row := r.conn.QueryRowContext(ctx, q)
	if err := row.Scan(&s.TotalDownloads, &s.TotalErrors, &s.AvgDurationMs, &s.AvgSizeBytes, &s.TotalSizeBytes); err != nil {
		return Stats{}, dbErr(err)
	}
	if s.TotalDownloads > 0 {
		s.ErrorRate = float64(s.TotalErrors) / float64(s.TotalDownloads) * 100
	}
	return s, nil
}
