// Package database persists organize run history in SQLite.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"chronotune/src/features/organize"
)

// SqliteHistory is a SQLite implementation of the run history store.
type SqliteHistory struct {
	db *sql.DB
}

// NewSqliteHistory opens (or creates) the history database at path.
func NewSqliteHistory(path string) (*SqliteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteHistory{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			years TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			stats TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// SaveRun inserts one completed run.
func (d *SqliteHistory) SaveRun(ctx context.Context, record organize.RunRecord) error {
	stats, err := json.Marshal(record.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode run stats: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, years, started, finished, stats)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Root,
		joinYears(record.Years),
		record.Started.Format(time.RFC3339),
		record.Finished.Format(time.RFC3339),
		string(stats),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (d *SqliteHistory) ListRuns(ctx context.Context, limit int) ([]organize.RunRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, root, years, started, finished, stats
		FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []organize.RunRecord
	for rows.Next() {
		var record organize.RunRecord
		var years, started, finished, stats string

		if err := rows.Scan(&record.ID, &record.Root, &years, &started, &finished, &stats); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		record.Years = splitYears(years)
		if record.Started, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("failed to parse run start time: %w", err)
		}
		if record.Finished, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("failed to parse run finish time: %w", err)
		}
		if err := json.Unmarshal([]byte(stats), &record.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode run stats: %w", err)
		}

		records = append(records, record)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (d *SqliteHistory) Close() error {
	return d.db.Close()
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, year := range years {
		parts[i] = strconv.Itoa(year)
	}
	return strings.Join(parts, ",")
}

func splitYears(s string) []int {
	if s == "" {
		return nil
	}
	var years []int
	for _, part := range strings.Split(s, ",") {
		if year, err := strconv.Atoi(part); err == nil {
			years = append(years, year)
		}
	}
	return years
}
