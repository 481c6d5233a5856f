package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store on a SQLite database file.
// Counters survive restarts, which makes the 24h quota hold across deploys.
//
// The pool is limited to a single connection, so every Consume transaction
// runs alone and the read-modify-write is atomic.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once

	getStmt    *sql.Stmt
	deleteStmt *sql.Stmt
	sweepStmt  *sql.Stmt
	countStmt  *sql.Stmt
}

// SQLiteConfig configures the SQLite store.
type SQLiteConfig struct {
	// Path is the database file. Parent directories are created.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore opens (or creates) the database and its schema.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, path: cfg.Path}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rate_limit_records (
		client_key TEXT PRIMARY KEY,
		count INTEGER NOT NULL,
		window_start INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_window_start ON rate_limit_records(window_start);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT count, window_start FROM rate_limit_records WHERE client_key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM rate_limit_records WHERE client_key = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.sweepStmt, err = s.db.Prepare(`DELETE FROM rate_limit_records WHERE window_start <= ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare sweep statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM rate_limit_records`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	return nil
}

// Consume counts one request for key inside a transaction.
func (s *SQLiteStore) Consume(ctx context.Context, key string, quota int64, window time.Duration, now time.Time) (Record, bool, error) {
	if err := validateConsume(key, quota, window); err != nil {
		return Record{}, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanRecord(tx.StmtContext(ctx, s.getStmt).QueryRowContext(ctx, key), key)
	if err != nil {
		return Record{}, false, err
	}

	next, allowed := apply(current, key, quota, window, now)
	if !allowed {
		return next, false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rate_limit_records (client_key, count, window_start)
		VALUES (?, ?, ?)
		ON CONFLICT (client_key) DO UPDATE SET
			count = excluded.count,
			window_start = excluded.window_start
	`, key, next.Count, next.WindowStart.UnixNano())
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to save record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("failed to commit: %w", err)
	}
	return next, true, nil
}

// Get returns the record for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Record, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}
	return scanRecord(s.getStmt.QueryRowContext(ctx, key), key)
}

// Delete removes the record for key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if _, err := s.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Sweep deletes records whose window started at or before now-window.
func (s *SQLiteStore) Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	res, err := s.sweepStmt.ExecContext(ctx, now.Add(-window).UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// Len returns the number of stored records.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Close closes statements and the database.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.getStmt, s.deleteStmt, s.sweepStmt, s.countStmt} {
			if stmt != nil {
				_ = stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}

func scanRecord(row *sql.Row, key string) (*Record, error) {
	var (
		count       int64
		windowStart int64
	)
	if err := row.Scan(&count, &windowStart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return &Record{Key: key, Count: count, WindowStart: time.Unix(0, windowStart)}, nil
}
