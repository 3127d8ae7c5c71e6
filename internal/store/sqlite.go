package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// ErrRunNotFound is returned when no run exists with the requested ID.
var ErrRunNotFound = errors.New("run not found")

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at           TEXT    NOT NULL,
	start_date           TEXT    NOT NULL,
	end_date             TEXT    NOT NULL,
	symbols              TEXT    NOT NULL,
	benchmark            TEXT    NOT NULL,
	strategy             TEXT    NOT NULL,
	starting_cash        REAL    NOT NULL,
	final_value          REAL    NOT NULL,
	change_pct           REAL    NOT NULL,
	benchmark_final      REAL    NOT NULL,
	benchmark_change_pct REAL    NOT NULL,
	steps                INTEGER NOT NULL
);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run and fills in its ID and CreatedAt.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	run.CreatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			created_at, start_date, end_date, symbols, benchmark, strategy,
			starting_cash, final_value, change_pct,
			benchmark_final, benchmark_change_pct, steps
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.Format(time.RFC3339),
		run.StartDate,
		run.EndDate,
		strings.Join(run.Symbols, ","),
		run.Benchmark,
		run.Strategy,
		run.StartingCash,
		run.FinalValue,
		run.ChangePct,
		run.BenchmarkFinal,
		run.BenchmarkChangePct,
		run.Steps,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}
	run.ID = id
	return nil
}

// GetRun retrieves a single run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, start_date, end_date, symbols, benchmark,
		       strategy, starting_cash, final_value, change_pct,
		       benchmark_final, benchmark_change_pct, steps
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading run %d: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, start_date, end_date, symbols, benchmark,
		       strategy, starting_cash, final_value, change_pct,
		       benchmark_final, benchmark_change_pct, steps
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		createdAt string
		symbols   string
	)
	err := s.Scan(
		&run.ID,
		&createdAt,
		&run.StartDate,
		&run.EndDate,
		&symbols,
		&run.Benchmark,
		&run.Strategy,
		&run.StartingCash,
		&run.FinalValue,
		&run.ChangePct,
		&run.BenchmarkFinal,
		&run.BenchmarkChangePct,
		&run.Steps,
	)
	if err != nil {
		return nil, err
	}

	if ts, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		run.CreatedAt = ts
	}
	if symbols != "" {
		run.Symbols = strings.Split(symbols, ",")
	}
	return &run, nil
}
