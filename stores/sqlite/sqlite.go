// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/mdhender/buildid/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a SQLite-backed store for check history.
type SQLiteStore struct {
	db *sql.DB
}

var _ model.Store = (*SQLiteStore)(nil)

// StoreConfig holds configuration for creating a SQLiteStore.
type StoreConfig struct {
	// Path is the file path for file-based SQLite.
	// If empty, an in-memory database is used.
	Path string

	// InitSchema controls whether to run schema initialization.
	// It is always done for the in-memory database.
	InitSchema bool
}

// NewSQLiteStore creates a new in-memory SQLite store with schema loaded.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(StoreConfig{InitSchema: true})
}

// NewSQLiteStoreWithConfig creates a SQLite store based on the provided configuration.
// For file-based mode (Path is set), the database file MUST already exist.
// Use InitDatabase to create and initialize a new database file.
func NewSQLiteStoreWithConfig(cfg StoreConfig) (*SQLiteStore, error) {
	var dsn string

	if cfg.Path == "" {
		dsn = "file::memory:?cache=shared&_pragma=foreign_keys(1)"
	} else {
		// SQLite creates missing files; require init-db instead
		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database file does not exist: %s (run init-db command to create it)", cfg.Path)
		}
		dsn = fileDSN(cfg.Path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.InitSchema || cfg.Path == "" {
		if _, err := db.Exec(schemaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// InitDatabase creates a new SQLite database file and initializes the schema.
// Returns an error if the file already exists.
func InitDatabase(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("database file already exists: %s", path)
	}

	db, err := sql.Open("sqlite", fileDSN(path))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	return nil
}

// CompactDatabase compacts a SQLite database file by running VACUUM and checkpointing WAL.
func CompactDatabase(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", path)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpoint WAL: %w", err)
	}
	if _, err := db.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	return nil
}

// Apply PRAGMA's per-connection via DSN so the pool always has them.
func fileDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
		path,
	)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertCheck inserts a checks row and sets c.ID.
func (s *SQLiteStore) InsertCheck(ctx context.Context, c *model.Check) (int64, error) {
	const query = `
		INSERT INTO checks (path, outcome, version, content, error_code, error_msg, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		c.Path,
		string(c.Outcome),
		c.Version,
		c.Content,
		c.ErrorCode,
		c.ErrorMsg,
		c.CheckedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert check: %w", err)
	}
	c.ID, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get check id: %w", err)
	}
	return c.ID, nil
}

// RecentChecks returns up to limit checks, newest first.
// A limit of zero or less returns every check.
func (s *SQLiteStore) RecentChecks(ctx context.Context, limit int) ([]model.Check, error) {
	const query = `
		SELECT id, path, outcome, version, content, error_code, error_msg, checked_at
		FROM checks
		ORDER BY checked_at DESC, id DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1 // sqlite treats a negative limit as no limit
	}
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var checks []model.Check
	for rows.Next() {
		var c model.Check
		var outcome, checkedAt string
		if err := rows.Scan(&c.ID, &c.Path, &outcome, &c.Version, &c.Content, &c.ErrorCode, &c.ErrorMsg, &checkedAt); err != nil {
			return nil, err
		}
		c.Outcome = model.Outcome(outcome)
		if c.CheckedAt, err = time.Parse(time.RFC3339, checkedAt); err != nil {
			return nil, fmt.Errorf("check %d: checked_at: %w", c.ID, err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return checks, nil
}

// CheckSummary returns the number of checks recorded for each outcome.
// Outcomes with no checks are present with a count of zero.
func (s *SQLiteStore) CheckSummary(ctx context.Context) (map[model.Outcome]int64, error) {
	summary := map[model.Outcome]int64{
		model.OutcomeSuccess:    0,
		model.OutcomeMismatch:   0,
		model.OutcomeFileAccess: 0,
	}

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM checks GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("summarize checks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		summary[model.Outcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}
