package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/artpar/hostctl/internal/history"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timestamps are stored as fixed-width UTC text so they sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `
	SELECT id, timestamp, environment, previous, hosts_path, backup_path,
		entry_count, success, error
	FROM switches`

// Store implements history.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New creates a new SQLite-based history store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// every connection would get its own empty database
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS switches (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			environment TEXT NOT NULL,
			previous TEXT NOT NULL DEFAULT '',
			hosts_path TEXT NOT NULL DEFAULT '',
			backup_path TEXT NOT NULL DEFAULT '',
			entry_count INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_switches_timestamp ON switches(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_switches_environment ON switches(environment);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Add stores a switch record and returns its ID.
func (s *Store) Add(ctx context.Context, record history.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", history.ErrStoreClosed
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO switches (
			id, timestamp, environment, previous, hosts_path, backup_path,
			entry_count, success, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID, formatTime(record.Timestamp), record.Environment, record.Previous,
		record.HostsPath, record.BackupPath, record.EntryCount, record.Success, record.Error,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert switch record: %w", err)
	}

	return record.ID, nil
}

// Get retrieves a single switch record by ID.
func (s *Store) Get(ctx context.Context, id string) (history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.Record{}, history.ErrStoreClosed
	}

	if id == "" {
		return history.Record{}, history.ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return history.Record{}, history.ErrNotFound
	}
	if err != nil {
		return history.Record{}, fmt.Errorf("failed to get switch record: %w", err)
	}

	return record, nil
}

// List retrieves switch records matching the query options, newest first.
func (s *Store) List(ctx context.Context, opts history.QueryOptions) ([]history.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.ErrStoreClosed
	}

	query, args := buildListQuery(opts, false)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list switch records: %w", err)
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan switch record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Count returns the number of records matching the query options.
func (s *Store) Count(ctx context.Context, opts history.QueryOptions) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.ErrStoreClosed
	}

	query, args := buildListQuery(opts, true)
	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count switch records: %w", err)
	}

	return count, nil
}

// Prune removes old records based on the prune options.
func (s *Store) Prune(ctx context.Context, opts history.PruneOptions) (history.PruneResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.PruneResult{}, history.ErrStoreClosed
	}

	var (
		query string
		args  []interface{}
	)
	switch {
	case opts.OlderThan > 0:
		query = "DELETE FROM switches WHERE timestamp < ?"
		args = []interface{}{formatTime(time.Now().Add(-opts.OlderThan))}
	case opts.KeepLast > 0:
		query = `
			DELETE FROM switches WHERE id NOT IN (
				SELECT id FROM switches ORDER BY timestamp DESC, rowid DESC LIMIT ?
			)`
		args = []interface{}{opts.KeepLast}
	case !opts.Before.IsZero():
		query = "DELETE FROM switches WHERE timestamp < ?"
		args = []interface{}{formatTime(opts.Before)}
	default:
		return history.PruneResult{}, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return history.PruneResult{}, fmt.Errorf("failed to prune history: %w", err)
	}

	var result history.PruneResult
	result.DeletedCount, _ = res.RowsAffected()
	return result, nil
}

// Clear removes all switch records.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM switches"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// Helper functions

func buildListQuery(opts history.QueryOptions, countOnly bool) (string, []interface{}) {
	query := selectColumns + " WHERE 1=1"
	if countOnly {
		query = "SELECT COUNT(*) FROM switches WHERE 1=1"
	}

	var args []interface{}

	if opts.Environment != "" {
		query += " AND environment = ?"
		args = append(args, opts.Environment)
	}

	if opts.FailedOnly {
		query += " AND success = 0"
	}

	if !opts.After.IsZero() {
		query += " AND timestamp > ?"
		args = append(args, formatTime(opts.After))
	}

	if !opts.Before.IsZero() {
		query += " AND timestamp < ?"
		args = append(args, formatTime(opts.Before))
	}

	if !countOnly {
		query += " ORDER BY timestamp DESC, rowid DESC"

		// OFFSET requires a LIMIT in SQLite
		if opts.Limit > 0 || opts.Offset > 0 {
			limit := opts.Limit
			if limit <= 0 {
				limit = -1
			}
			query += " LIMIT ?"
			args = append(args, limit)
		}

		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	return query, args
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (history.Record, error) {
	var record history.Record
	var timestamp string

	err := row.Scan(
		&record.ID, &timestamp, &record.Environment, &record.Previous,
		&record.HostsPath, &record.BackupPath, &record.EntryCount,
		&record.Success, &record.Error,
	)
	if err != nil {
		return record, err
	}

	record.Timestamp, err = time.Parse(timeLayout, timestamp)
	if err != nil {
		return record, fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}

	return record, nil
}
